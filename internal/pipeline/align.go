package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/imaging"
	"github.com/ironsheep/omr-grader/internal/layout"
	"github.com/ironsheep/omr-grader/internal/registry"
	"github.com/ironsheep/omr-grader/internal/skew"
)

// AlignResult is the outcome of straightening and partitioning one page.
type AlignResult struct {
	Skew    skew.Result   `json:"skew"`
	Layout  layout.Result `json:"layout"`
	Aligned *image.NRGBA  `json:"-"`
}

// Bands returns the band set to store in the registry.
func (r AlignResult) Bands() registry.BandSet {
	return registry.BandSet{Vertical: r.Layout.Vertical, Horizontal: r.Layout.Horizontal}
}

// AlignImage estimates the skew of img, rotates it straight and partitions
// the straightened page. img is not modified.
func (p *Pipeline) AlignImage(img image.Image) (AlignResult, error) {
	est, err := p.estimator.Estimate(img)
	if err != nil {
		return AlignResult{}, fmt.Errorf("estimate skew: %w", err)
	}
	rotated := imaging.Rotate(img, est.Angle)

	lay, err := layout.Partition(imaging.Gray(rotated), p.cfg.LayoutParams())
	if err != nil {
		return AlignResult{}, fmt.Errorf("partition page: %w", err)
	}
	return AlignResult{Skew: est, Layout: lay, Aligned: rotated}, nil
}

// Align straightens every page of paths.input_dir, saves aligned_<name> to
// paths.output_dir and debug_<name> to paths.debug_dir, then writes the band
// registry once. Pages that fail are left out of the registry. A cancelled
// run leaves an existing registry untouched.
func (p *Pipeline) Align(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With(zap.String("stage", config.StepAlign), zap.String("run_id", runID))
	paths := p.cfg.Paths

	pages, err := imaging.ListPages(paths.InputDir, paths.InputExtensions)
	if err != nil {
		return Summary{}, err
	}
	for _, dir := range []string{paths.OutputDir, paths.DebugDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Summary{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	log.Info("aligning pages", zap.Int("pages", len(pages)), zap.String("input_dir", paths.InputDir))

	bands := registry.New()
	reports, ctxErr := p.forEach(ctx, pages, func(_ context.Context, _ int, page string) pageReport {
		return p.alignPage(log, bands, page)
	})

	if ctxErr != nil {
		log.Warn("align interrupted, band registry left unchanged",
			zap.String("registry", paths.Registry), zap.Int("aligned", bands.Len()), zap.Error(ctxErr))
		s := p.summarize(config.StepAlign, runID, start, reports)
		fmt.Fprintln(p.out, "Grade bands not saved: run interrupted")
		return s, ctxErr
	}

	store, err := registry.Open(paths.Registry)
	if err != nil {
		return Summary{}, err
	}
	if err := registry.Flush(bands, store); err != nil {
		return Summary{}, err
	}
	log.Info("band registry saved", zap.String("registry", store.Path()), zap.Int("entries", bands.Len()))

	s := p.summarize(config.StepAlign, runID, start, reports)
	fmt.Fprintf(p.out, "Grade bands saved to: %s\n", store.Path())
	return s, nil
}

func (p *Pipeline) alignPage(log *zap.Logger, bands *registry.Registry, page string) pageReport {
	paths := p.cfg.Paths
	log = log.With(zap.String("image", page))

	img, err := imaging.Open(filepath.Join(paths.InputDir, page))
	if err != nil {
		return failed(log, page, "failed to load image", err)
	}
	res, err := p.AlignImage(img)
	if err != nil {
		return failed(log, page, "failed to align image", err)
	}

	p.metrics.observeSkew(res.Skew.Angle, res.Skew.Confident)
	if !res.Skew.Confident {
		log.Warn("no skew signal, page left unrotated", zap.String("strategy", res.Skew.Strategy))
	}
	for _, w := range res.Layout.Warnings {
		log.Warn("band count mismatch", zap.String("detail", w))
	}

	id := AlignedPrefix + page
	outPath := filepath.Join(paths.OutputDir, id)
	if err := imaging.Save(res.Aligned, outPath); err != nil {
		return failed(log, page, "failed to save aligned image", err)
	}
	debugPath := filepath.Join(paths.DebugDir, DebugPrefix+page)
	if err := imaging.Save(AlignDebugImage(res), debugPath); err != nil {
		return failed(log, page, "failed to save debug image", err)
	}
	bands.Put(id, res.Bands())

	log.Debug("page aligned",
		zap.Float64("angle", res.Skew.Angle),
		zap.Int("left", res.Layout.Margins.Left),
		zap.Int("right", res.Layout.Margins.Right),
		zap.Int("horizontal_bands", len(res.Layout.Horizontal)))

	return pageReport{status: statusOK, lines: []string{
		fmt.Sprintf("%s: rotation %.2f degrees", page, res.Skew.Angle),
		fmt.Sprintf("Aligned image saved: %s", outPath),
		fmt.Sprintf("Debug image saved: %s", debugPath),
	}}
}

var (
	horizontalBandColor = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	bandLabelColor      = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// AlignDebugImage draws the band grid over the aligned page: one coloured
// line per grade boundary with the 1-based grade to its right, and one line
// per horizontal boundary across the content with its index in the margin.
func AlignDebugImage(res AlignResult) *image.RGBA {
	c := imaging.NewCanvas(res.Aligned)
	h := res.Aligned.Bounds().Dy()
	m := res.Layout.Margins

	palette := imaging.Palette(len(res.Layout.Vertical))
	for i, x := range res.Layout.Vertical {
		c.VLine(x, 0, h-1, 2, palette[i])
		if i < len(res.Layout.Vertical)-1 {
			c.Label(x+10, 30, strconv.Itoa(i+1), bandLabelColor)
		}
	}
	for i, y := range res.Layout.Horizontal {
		c.HLine(y, m.Left, m.Right, 2, horizontalBandColor)
		c.Label(max(m.Left-40, 0), y, strconv.Itoa(i), horizontalBandColor)
	}
	return c.Image()
}
