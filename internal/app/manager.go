package app

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api3dao/ois/internal/config"
	"github.com/api3dao/ois/internal/fs"
	"github.com/api3dao/ois/internal/ois"
	"github.com/api3dao/ois/internal/report"
	"github.com/api3dao/ois/internal/source"
	"github.com/api3dao/ois/internal/watch"
)

// ValidateRequest describes which documents to validate and how to report on them.
type ValidateRequest struct {
	Paths            []string
	Output           report.Format
	Verbose          bool
	UseColour        bool
	ReferenceVersion string
	Workers          int
	Extensions       []string
}

// Manager defines the business logic behind the CLI commands.
type Manager interface {
	Config() *config.Config
	Validate(ctx context.Context, req ValidateRequest) error
	WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// PersistentPreRunE skips initialization when it is, as in tests.
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Config() *config.Config {
	return l.check().Config()
}

func (l *LazyManager) Validate(ctx context.Context, req ValidateRequest) error {
	return l.check().Validate(ctx, req)
}

func (l *LazyManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	return l.check().WatchValidation(ctx, req, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	reporterWriter io.Writer
	now            func() time.Time
}

func NewCLIManager(l *slog.Logger, cfg *config.Config, w io.Writer) *CLIManager {
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		reporterWriter: w,
		now:            time.Now,
	}
}

func (m *CLIManager) Config() *config.Config {
	return m.cfg
}

// Validate validates every document found in req.Paths and writes a report. A
// *ValidationFailedError is returned when any document is invalid.
func (m *CLIManager) Validate(ctx context.Context, req ValidateRequest) error {
	m.logger.Debug("validating documents", "paths", req.Paths, "output", req.Output,
		"verbose", req.Verbose, "referenceVersion", req.ReferenceVersion, "workers", req.Workers)

	v, reporter, err := m.prepare(req)
	if err != nil {
		return err
	}

	paths, err := m.expand(req)
	if err != nil {
		return err
	}

	r, err := m.validateFiles(ctx, v, paths, req.Workers)
	if err != nil {
		return err
	}
	if err := reporter.Write(m.reporterWriter, r); err != nil {
		return err
	}

	if _, failed := r.Totals(); failed > 0 {
		return &ValidationFailedError{Failed: failed, Total: len(r.Files)}
	}
	return nil
}

// WatchValidation validates req.Paths once and then again whenever documents below
// them change, until ctx is cancelled. Pass a non-nil readyChan to be notified when
// the watcher is listening.
func (m *CLIManager) WatchValidation(ctx context.Context, req ValidateRequest, readyChan chan<- struct{}) error {
	m.logger.Debug("watching documents", "paths", req.Paths, "output", req.Output)

	v, reporter, err := m.prepare(req)
	if err != nil {
		return err
	}

	paths, err := m.expand(req)
	if err != nil {
		return err
	}
	m.run(ctx, v, reporter, paths, req.Workers)

	watcher := watch.New(req.Paths, req.Extensions, m.logger)
	callback := func(ev watch.Event) {
		m.logger.Info("Documents changed", "paths", ev.Paths)
		m.run(ctx, v, reporter, ev.Paths, req.Workers)
	}

	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	return watcher.Watch(ctx, callback)
}

func (m *CLIManager) run(ctx context.Context, v *ois.Validator, reporter report.Reporter, paths []string, workers int) {
	r, err := m.validateFiles(ctx, v, paths, workers)
	if err != nil {
		m.logger.Error("Validation failed", "error", err)
		return
	}
	if err := reporter.Write(m.reporterWriter, r); err != nil {
		m.logger.Error("Failed to write report", "error", err)
	}
}

func (m *CLIManager) prepare(req ValidateRequest) (*ois.Validator, report.Reporter, error) {
	if len(req.Paths) == 0 {
		return nil, nil, &NoPathsError{}
	}
	reporter, err := report.New(req.Output, req.Verbose, req.UseColour)
	if err != nil {
		return nil, nil, err
	}
	var opts []ois.Option
	if req.ReferenceVersion != "" {
		opts = append(opts, ois.WithReferenceVersion(req.ReferenceVersion))
	}
	v, err := ois.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return v, reporter, nil
}

func (m *CLIManager) expand(req ValidateRequest) ([]string, error) {
	paths, err := fs.ExpandPaths(req.Paths, req.Extensions)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, &NoDocumentsError{Paths: req.Paths}
	}
	return paths, nil
}

// validateFiles validates paths concurrently, at most workers at a time. Results keep
// the order of paths.
func (m *CLIManager) validateFiles(ctx context.Context, v *ois.Validator, paths []string, workers int) (*report.Report, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	r := &report.Report{
		StartTime:        m.now(),
		ReferenceVersion: v.ReferenceVersion(),
		Files:            make([]report.FileResult, len(paths)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.Files[i] = m.validateFile(v, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.EndTime = m.now()
	return r, nil
}

func (m *CLIManager) validateFile(v *ois.Validator, path string) report.FileResult {
	doc, err := source.Load(path)
	if err != nil {
		m.logger.Debug("document could not be loaded", "path", path, "error", err)
		return report.FileResult{Path: path, Err: err}
	}

	res, err := v.ValidateJSON(doc.Data)
	if err != nil {
		m.logger.Debug("document could not be decoded", "path", path, "error", err)
		return report.FileResult{Path: path, Data: doc.Data, Err: err}
	}

	m.logger.Debug("validated document", "path", path, "valid", res.Valid, "issues", len(res.Issues))
	return report.FileResult{Path: path, Data: doc.Data, Result: res}
}
