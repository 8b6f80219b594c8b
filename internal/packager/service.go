package packager

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// Outcome describes one finished generation request.
type Outcome struct {
	Config   scorm.PackageConfig
	Package  *Package // nil on failure
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Recorder keeps track of generation outcomes.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Service is the single entry point callers use to generate a package and
// hand it to a Trigger.
type Service struct {
	Assembler *Assembler
	Recorder  Recorder // optional
	Observer  Observer // optional
	Logger    *log.Logger
}

// NewService returns a Service around a.
func NewService(a *Assembler, rec Recorder, logger *log.Logger) *Service {
	return &Service{Assembler: a, Recorder: rec, Logger: logger}
}

// Generate builds the package for cfg and delivers it through trigger.
// Callers validate cfg beforehand. Errors from building or delivering are
// returned; nothing is delivered when the build fails.
func (s *Service) Generate(ctx context.Context, cfg scorm.PackageConfig, trigger Trigger) (*Package, error) {
	started := time.Now()

	pkg, err := s.Assembler.Build(ctx, cfg, s.Observer)
	if err == nil {
		if derr := trigger.Deliver(ctx, pkg.Name, pkg.Data); derr != nil {
			err = fmt.Errorf("delivering %s: %w", pkg.Name, derr)
		}
	}

	s.record(ctx, Outcome{
		Config:   cfg,
		Package:  pkg,
		Err:      err,
		Started:  started,
		Duration: time.Since(started),
	})

	if err != nil {
		return nil, err
	}
	return pkg, nil
}

func (s *Service) record(ctx context.Context, o Outcome) {
	if s.Recorder == nil {
		return
	}
	// A history failure never changes the generation result.
	if err := s.Recorder.Record(context.WithoutCancel(ctx), o); err != nil && s.Logger != nil {
		s.Logger.Warn("recording generation outcome", "err", err)
	}
}
