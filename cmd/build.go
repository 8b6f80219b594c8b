package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/realjck/scorm-iframe-packager/internal/config"
	"github.com/realjck/scorm-iframe-packager/internal/packager"
	"github.com/realjck/scorm-iframe-packager/internal/progress"
	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

var buildCmd = &cobra.Command{
	Use:   "build <package.yml|glob>...",
	Short: "Generate SCORM zip packages from package definition files",
	Long: `Builds one zip per package definition. Arguments may be file paths or
glob patterns such as "courses/**/*.yml". Archives are written to the
configured output directory, named after the package title.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output directory (overrides config)")
	buildCmd.Flags().Int("concurrency", 0, "max parallel support file fetches (overrides config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Assets.Concurrency = v
	}

	files, err := expandPackageArgs(args)
	if err != nil {
		return err
	}

	logger := newLogger()
	store, closeHistory, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHistory()
	svc := newService(cfg, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reporter := progress.NewReporter()
	// One trigger for the whole run so equal titles do not overwrite each other.
	trigger := &packager.DirTrigger{Dir: cfg.OutputDir}
	var failed int
	for _, file := range files {
		reporter.Start(packager.StageCount)
		svc.Observer = progress.StageObserver(reporter, filepath.Base(file))
		pkg, err := buildOne(ctx, svc, file, trigger)
		reporter.Finish()
		if err != nil {
			failed++
			logger.Error("build failed", "file", file, "err", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if saved := filepath.Base(trigger.Saved); saved != pkg.Name {
			logger.Warn("archive name already used in this run", "file", file, "name", pkg.Name, "saved_as", saved)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d bytes)\n", file, trigger.Saved, pkg.Size())
		for _, p := range pkg.Placeholders {
			logger.Warn("placeholder support file", "package", pkg.Name, "path", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed", failed, len(files))
	}
	return nil
}

func buildOne(ctx context.Context, svc *packager.Service, file string, trigger packager.Trigger) (*packager.Package, error) {
	pc, err := loadValidPackage(file)
	if err != nil {
		return nil, err
	}
	return svc.Generate(ctx, pc, trigger)
}

// expandPackageArgs resolves glob patterns and drops duplicates while keeping
// argument order. A pattern matching nothing is an error.
func expandPackageArgs(args []string) ([]string, error) {
	var (
		out  []string
		seen = map[string]bool{}
	)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no package definitions match %q", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no package definitions given")
	}
	return out, nil
}

// loadValidPackage reads a package definition for commands that do not build.
func loadValidPackage(path string) (scorm.PackageConfig, error) {
	pc, err := config.LoadPackage(path)
	if err != nil {
		return pc, err
	}
	if err := pc.Validate(); err != nil {
		return pc, fmt.Errorf("invalid package definition: %w", err)
	}
	return pc, nil
}
