package pipeline

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironsheep/omr-grader/internal/config"
	"github.com/ironsheep/omr-grader/internal/imaging"
)

var cropOutlineColor = color.NRGBA{R: 0, G: 255, B: 0, A: 255}

// Crop cuts the answer rectangle out of every page of paths.raw_dir and
// saves it to paths.input_dir as questionnaire_<n>.png, numbering pages from
// 1 in filename order. With crop.debug set, a copy of the raw page with the
// rectangle outlined is saved to paths.debug_dir.
func (p *Pipeline) Crop(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := p.logger.With(zap.String("stage", config.StepCrop), zap.String("run_id", runID))
	paths := p.cfg.Paths

	pages, err := imaging.ListPages(paths.RawDir, paths.InputExtensions)
	if err != nil {
		return Summary{}, err
	}
	for _, dir := range []string{paths.InputDir, paths.DebugDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Summary{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	log.Info("cropping pages", zap.Int("pages", len(pages)), zap.String("raw_dir", paths.RawDir))

	reports, ctxErr := p.forEach(ctx, pages, func(_ context.Context, i int, page string) pageReport {
		return p.cropPage(log.With(zap.String("image", page)), i, page)
	})
	return p.summarize(config.StepCrop, runID, start, reports), ctxErr
}

func (p *Pipeline) cropPage(log *zap.Logger, i int, page string) pageReport {
	paths := p.cfg.Paths

	img, err := imaging.Open(filepath.Join(paths.RawDir, page))
	if err != nil {
		return failed(log, page, "failed to load image", err)
	}
	cropped, rect, err := imaging.CropAnswerRegion(img, p.cfg.Crop.RectWidth, p.cfg.Crop.RectHeight)
	if err != nil {
		return failed(log, page, "failed to crop image", err)
	}

	name := fmt.Sprintf("%s%d.png", QuestionnairePrefix, i+1)
	outPath := filepath.Join(paths.InputDir, name)
	if err := imaging.Save(cropped, outPath); err != nil {
		return failed(log, page, "failed to save cropped image", err)
	}
	lines := []string{fmt.Sprintf("%s: cropped %v to %s", page, rect, outPath)}

	if p.cfg.Crop.Debug {
		c := imaging.NewCanvas(img)
		c.StrokeRect(rect.Sub(img.Bounds().Min), 2, cropOutlineColor)
		debugPath := filepath.Join(paths.DebugDir, DebugPrefix+name)
		if err := imaging.Save(c.Image(), debugPath); err != nil {
			return failed(log, page, "failed to save debug image", err)
		}
		lines = append(lines, fmt.Sprintf("Debug image saved: %s", debugPath))
	}
	return pageReport{status: statusOK, lines: lines}
}
