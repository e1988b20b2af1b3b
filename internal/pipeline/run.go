package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/config"
)

// Run executes pipeline.steps in order, accepting the legacy names resolved
// by config.CanonicalStep. Unknown steps are logged and skipped. The first stage that fails stops the run. When metrics.textfile
// is set, the metrics are written after the last stage, also on failure.
func (p *Pipeline) Run(ctx context.Context) ([]Summary, error) {
	var summaries []Summary
	err := p.runSteps(ctx, &summaries)

	if err := p.WriteMetrics(); err != nil {
		p.logger.Error("failed to write metrics", zap.Error(err))
	}
	return summaries, err
}

func (p *Pipeline) runSteps(ctx context.Context, summaries *[]Summary) error {
	for _, step := range p.cfg.Pipeline.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			s   Summary
			err error
		)
		switch config.CanonicalStep(step) {
		case config.StepCrop:
			s, err = p.Crop(ctx)
		case config.StepAlign:
			s, err = p.Align(ctx)
		case config.StepGrade:
			s, err = p.Grade(ctx)
		default:
			p.logger.Warn("unknown pipeline step, skipping", zap.String("step", step))
			fmt.Fprintf(p.out, "Unknown step: %s\n", step)
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		*summaries = append(*summaries, s)
	}
	return nil
}

// WriteMetrics writes the metrics textfile if one is configured.
func (p *Pipeline) WriteMetrics() error {
	if p.cfg.Metrics.Textfile == "" {
		return nil
	}
	return p.metrics.WriteTextfile(p.cfg.Metrics.Textfile)
}
