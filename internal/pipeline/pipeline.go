package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/ink"
	"github.com/ironsheep/omr-grader/internal/skew"
)

// Output name prefixes.
const (
	AlignedPrefix       = "aligned_"
	DebugPrefix         = "debug_"
	QuestionnairePrefix = "questionnaire_"
)

// Pipeline runs the configured stages.
type Pipeline struct {
	cfg       *config.Config
	logger    *zap.Logger
	out       io.Writer
	metrics   *Metrics
	estimator skew.Estimator
	detector  ink.Detector
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithOutput sets where report lines are printed (default: discarded).
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithMetrics sets the metrics the pipeline records into.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New builds a pipeline from cfg. The skew strategy and ink mode are
// resolved up front so an invalid name fails before any page is read.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	estimator, err := skew.New(cfg.Skew.Strategy, cfg.SkewParams())
	if err != nil {
		return nil, fmt.Errorf("skew estimator: %w", err)
	}
	detector, err := ink.New(cfg.Ink.Mode, cfg.InkParams())
	if err != nil {
		return nil, fmt.Errorf("ink detector: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		logger:    logger,
		out:       io.Discard,
		estimator: estimator,
		detector:  detector,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *config.Config { return p.cfg }

// Metrics returns the metrics the pipeline records into.
func (p *Pipeline) Metrics() *Metrics { return p.metrics }

// Summary reports the outcome of one batch stage.
type Summary struct {
	Stage     string        `json:"stage"`
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Duration  time.Duration `json:"duration"`
}

// Total returns the number of pages the stage looked at.
func (s Summary) Total() int {
	return s.Processed + s.Failed + s.Skipped
}

func (s Summary) String() string {
	return fmt.Sprintf("%s completed: %d processed, %d failed, %d skipped in %s",
		s.Stage, s.Processed, s.Failed, s.Skipped, s.Duration.Round(time.Millisecond))
}

type status int

const (
	statusOK status = iota
	statusFailed
	statusSkipped
)

// pageReport is what one page contributes to the batch output.
type pageReport struct {
	status status
	lines  []string
}

// forEach runs fn for every page with at most cfg.Workers() pages in
// flight. Once ctx is cancelled no new pages are started; pages never
// started are reported as skipped. Reports are indexed like pages.
func (p *Pipeline) forEach(ctx context.Context, pages []string, fn func(ctx context.Context, i int, page string) pageReport) ([]pageReport, error) {
	reports := make([]pageReport, len(pages))
	for i := range reports {
		reports[i].status = statusSkipped
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers())
	for i, page := range pages {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			reports[i] = fn(gctx, i, page)
			return nil
		})
	}
	_ = g.Wait()
	return reports, ctx.Err()
}

// summarize counts reports and prints their lines in page order.
func (p *Pipeline) summarize(stage, runID string, start time.Time, reports []pageReport) Summary {
	s := Summary{Stage: stage, RunID: runID}
	var b strings.Builder
	for _, r := range reports {
		switch r.status {
		case statusOK:
			s.Processed++
		case statusFailed:
			s.Failed++
		case statusSkipped:
			s.Skipped++
		}
		for _, line := range r.lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	s.Duration = time.Since(start)
	fmt.Fprint(p.out, b.String())
	fmt.Fprintln(p.out, s.String())

	p.metrics.observeStage(stage, s)
	return s
}

// failed logs a page failure and returns its report.
func failed(log *zap.Logger, page, msg string, err error) pageReport {
	log.Error(msg, zap.String("image", page), zap.Error(err))
	return pageReport{status: statusFailed, lines: []string{fmt.Sprintf("Error: %s %s: %v", msg, page, err)}}
}
