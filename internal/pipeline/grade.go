package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/detection"
	"github.com/ironsheep/omr-grader/internal/grade"
	"github.com/ironsheep/omr-grader/internal/imaging"
	"github.com/ironsheep/omr-grader/internal/ink"
	"github.com/ironsheep/omr-grader/internal/registry"
)

// Mark is a labelled region on the grade debug image.
type Mark struct {
	detection.Box
	Label string `json:"label"`
}

// GradeResult is the outcome of grading one page.
type GradeResult struct {
	Results    []grade.Result  `json:"results"`
	Candidates []ink.Candidate `json:"candidates"`
	Marks      []Mark          `json:"marks"`
	Warnings   []string        `json:"warnings,omitempty"`
}

// GradeImage detects ink on an aligned page and resolves one result per
// question. A band set whose row count differs from questions.num_questions
// is graded on the smaller of the two and reported in Warnings.
func (p *Pipeline) GradeImage(img image.Image, bands registry.BandSet) (GradeResult, error) {
	if err := bands.Validate(); err != nil {
		return GradeResult{}, err
	}
	gray := imaging.Gray(img)
	cands := p.detector.Detect(gray, bands)
	numQuestions := p.cfg.Questions.NumQuestions

	var out GradeResult
	out.Candidates = cands

	if p.detector.Name() == ink.ModeWindow {
		out.Results = grade.ResolveWindow(cands, bands.Vertical)
		for i, r := range out.Results {
			if i < len(cands) && r.Answered() {
				out.Marks = append(out.Marks, Mark{Box: cands[i].Box, Label: fmt.Sprintf("%.1f%% (Grade: %d)", *r.Percent, *r.Grade)})
			}
		}
	} else {
		rows := bands.Questions()
		if rows != numQuestions {
			out.Warnings = append(out.Warnings, fmt.Sprintf(
				"detected %d question rows, expected %d; grading %d", rows, numQuestions, min(rows, numQuestions)))
		}
		out.Results = grade.ResolveGrid(cands, rows, numQuestions)
		for q, r := range out.Results {
			if !r.Answered() {
				continue
			}
			col := *r.Grade - 1
			top, bottom := bands.Horizontal[q], bands.Horizontal[q+1]
			left, right := bands.Vertical[col], bands.Vertical[col+1]
			out.Marks = append(out.Marks, Mark{
				Box:   detection.Box{X: left, Y: top, Width: right - left, Height: bottom - top},
				Label: fmt.Sprintf("Grade: %d", *r.Grade),
			})
		}
	}
	return out, nil
}

// Grade grades every aligned_* page of paths.output_dir against the band
// registry and prints the grades of each page. A missing registry is fatal
// (registry.ErrNotFound); a page without a registry entry is skipped.
func (p *Pipeline) Grade(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With(zap.String("stage", config.StepGrade), zap.String("run_id", runID))
	paths := p.cfg.Paths

	store, err := registry.Open(paths.Registry)
	if err != nil {
		return Summary{}, err
	}
	bands, err := registry.LoadRegistry(store)
	if err != nil {
		return Summary{}, fmt.Errorf("load band registry (run align first): %w", err)
	}

	all, err := imaging.ListPages(paths.OutputDir, paths.InputExtensions)
	if err != nil {
		return Summary{}, err
	}
	var pages []string
	for _, name := range all {
		if strings.HasPrefix(name, AlignedPrefix) {
			pages = append(pages, name)
		}
	}
	if err := os.MkdirAll(paths.DebugDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("create %s: %w", paths.DebugDir, err)
	}
	log.Info("grading pages", zap.Int("pages", len(pages)), zap.Int("registry_entries", bands.Len()))

	totals := make([][2]int, len(pages))
	reports, ctxErr := p.forEach(ctx, pages, func(_ context.Context, i int, page string) pageReport {
		r, answered, unanswered := p.gradePage(log, bands, page)
		totals[i] = [2]int{answered, unanswered}
		return r
	})

	var answered, unanswered int
	for _, t := range totals {
		answered += t[0]
		unanswered += t[1]
	}
	p.metrics.setGradeTotals(answered+unanswered, unanswered)

	return p.summarize(config.StepGrade, runID, start, reports), ctxErr
}

func (p *Pipeline) gradePage(log *zap.Logger, bands *registry.Registry, page string) (pageReport, int, int) {
	paths := p.cfg.Paths
	log = log.With(zap.String("image", page))

	set, ok := bands.Get(page)
	if !ok {
		log.Warn("no bands registered for page, skipping")
		return pageReport{status: statusSkipped, lines: []string{fmt.Sprintf("Warning: No bands found for %s", page)}}, 0, 0
	}
	img, err := imaging.Open(filepath.Join(paths.OutputDir, page))
	if err != nil {
		return failed(log, page, "failed to load image", err), 0, 0
	}
	res, err := p.GradeImage(img, set)
	if err != nil {
		return failed(log, page, "failed to grade image", err), 0, 0
	}
	for _, w := range res.Warnings {
		log.Warn("band count mismatch", zap.String("detail", w))
	}

	var b strings.Builder
	if err := grade.WriteReport(&b, page, res.Results); err != nil {
		return failed(log, page, "failed to format grades", err), 0, 0
	}
	lines := strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")

	debugPath := filepath.Join(paths.DebugDir, DebugPrefix+page)
	if err := imaging.Save(GradeDebugImage(img, set, res), debugPath); err != nil {
		return failed(log, page, "failed to save debug image", err), 0, 0
	}
	lines = append(lines, fmt.Sprintf("Debug image saved: %s", debugPath))

	answered, unanswered := grade.Count(res.Results)
	log.Debug("page graded", zap.Int("answered", answered), zap.Int("unanswered", unanswered), zap.Int("candidates", len(res.Candidates)))
	return pageReport{status: statusOK, lines: lines}, answered, unanswered
}

// WatchGrade grades once and then again every time the band registry is
// rewritten, until ctx is cancelled. A registry that does not exist yet is
// waited for.
func (p *Pipeline) WatchGrade(ctx context.Context) error {
	if _, err := p.Grade(ctx); err != nil {
		if !errors.Is(err, registry.ErrNotFound) {
			return err
		}
		p.logger.Info("waiting for band registry", zap.String("registry", p.cfg.Paths.Registry))
	}
	if err := os.MkdirAll(filepath.Dir(p.cfg.Paths.Registry), 0755); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	return registry.Watch(ctx, p.cfg.Paths.Registry, func() {
		p.logger.Info("band registry changed, grading again")
		if _, err := p.Grade(ctx); err != nil {
			p.logger.Error("grading failed", zap.Error(err))
		}
	})
}

var (
	gradeBandColor = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	candidateColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}
	markLabelColor = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
)

// GradeDebugImage draws the grade bands, every ink candidate and the label
// of each resolved mark over the page.
func GradeDebugImage(img image.Image, bands registry.BandSet, res GradeResult) *image.RGBA {
	c := imaging.NewCanvas(img)
	h := img.Bounds().Dy()

	for i, x := range bands.Vertical {
		c.VLine(x, 0, h-1, 1, gradeBandColor)
		if i < len(bands.Vertical)-1 {
			c.Label(x+5, 20, strconv.Itoa(i+1), gradeBandColor)
		}
	}
	for _, cand := range res.Candidates {
		c.StrokeRect(image.Rect(cand.X, cand.Y, cand.X+cand.Width, cand.Y+cand.Height), 2, candidateColor)
	}
	for _, m := range res.Marks {
		c.StrokeRect(image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height), 1, markLabelColor)
		c.Label(m.X, max(m.Y-5, 12), m.Label, markLabelColor)
	}
	return c.Image()
}
