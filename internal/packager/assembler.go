// Package packager assembles SCORM zip packages and delivers them.
package packager

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/realjck/scorm-iframe-packager/internal/assets"
	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// DefaultConcurrency bounds parallel asset fetches when none is configured.
const DefaultConcurrency = 8

// Package is a finished archive.
type Package struct {
	Name         string
	Version      scorm.Version
	Type         scorm.PackageType
	Data         []byte
	Entries      []string
	Placeholders []string
	SHA256       string
}

// Size returns the archive length in bytes.
func (p *Package) Size() int {
	return len(p.Data)
}

// Assembler turns a PackageConfig into a zip archive. It holds no state
// between Build calls and may be shared across goroutines.
type Assembler struct {
	Manifest    *scorm.ManifestBuilder
	Page        *scorm.PageRenderer
	Fetcher     assets.Fetcher
	Concurrency int
	Logger      *log.Logger
	Now         func() time.Time
}

// NewAssembler returns an Assembler with default builders.
func NewAssembler(fetcher assets.Fetcher, logger *log.Logger) *Assembler {
	return &Assembler{
		Manifest:    scorm.NewManifestBuilder(),
		Page:        scorm.NewPageRenderer(),
		Fetcher:     fetcher,
		Concurrency: DefaultConcurrency,
		Logger:      logger,
		Now:         time.Now,
	}
}

// Build runs the pipeline for cfg: manifest, page, support files, archive.
// Support file failures are absorbed; any other failure aborts the build
// and no archive is returned.
func (a *Assembler) Build(ctx context.Context, cfg scorm.PackageConfig, observe Observer) (*Package, error) {
	if observe == nil {
		observe = func(Stage) {}
	}
	fail := func(err error) (*Package, error) {
		observe(StageFailed)
		return nil, err
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	logger := a.Logger
	if logger == nil {
		logger = log.Default()
	}
	version := cfg.Version()

	observe(StageBuildingManifest)
	manifest := a.Manifest.Build(cfg)

	observe(StageBuildingPage)
	renderer := a.Page
	if renderer == nil {
		renderer = scorm.NewPageRenderer()
	}
	page, err := renderer.Render(ctx, cfg)
	if err != nil {
		return fail(fmt.Errorf("rendering page: %w", err))
	}

	observe(StageFetchingAssets)
	files := assets.FetchAll(ctx, a.Fetcher, version, a.Concurrency, logger)

	observe(StageArchiving)
	entries := make([]entry, 0, len(files)+2)
	entries = append(entries,
		entry{name: PageEntry, data: []byte(page)},
		entry{name: ManifestEntry, data: []byte(manifest)},
	)
	pkg := &Package{
		Name:    FileName(cfg),
		Version: version,
		Type:    cfg.Type(),
		Entries: []string{PageEntry, ManifestEntry},
	}
	for _, f := range files {
		entries = append(entries, entry{name: f.Path, data: f.Data})
		pkg.Entries = append(pkg.Entries, f.Path)
		if f.Placeholder {
			pkg.Placeholders = append(pkg.Placeholders, f.Path)
		}
	}

	data, err := writeArchive(entries, now())
	if err != nil {
		return fail(fmt.Errorf("archiving package: %w", err))
	}
	sum := sha256.Sum256(data)
	pkg.Data = data
	pkg.SHA256 = hex.EncodeToString(sum[:])

	logger.Debug("package built", "name", pkg.Name, "entries", len(pkg.Entries), "placeholders", len(pkg.Placeholders), "bytes", pkg.Size())
	observe(StageDone)
	return pkg, nil
}
