package detection

import (
	"image"
	"math"
	"sort"
)

// HoughLine is a peak of the line accumulator in normal form:
//
//	x·cos(θ) + y·sin(θ) = Rho
//
// A horizontal line has ThetaDegrees = 90.
type HoughLine struct {
	Rho          int     `json:"rho"`
	ThetaDegrees float64 `json:"theta_degrees"`
	Votes        int     `json:"votes"`
}

// HoughParams bounds the accumulator searched by HoughLines.
type HoughParams struct {
	// ThetaMin and ThetaMax delimit the normal angles searched, in degrees (inclusive).
	ThetaMin float64
	ThetaMax float64

	// ThetaStep is the angular resolution in degrees.
	ThetaStep float64

	// Threshold is the minimum number of votes for a peak.
	Threshold int

	// MaxLines caps the number of returned lines (0 = unlimited).
	MaxLines int
}

// HoughLines finds straight lines in an edge map using the Hough transform.
//
// Any non-zero pixel of edges votes. Peaks must reach p.Threshold votes and
// be local maxima within ±2 bins in both rho and theta. Lines are returned
// sorted by votes, strongest first.
func HoughLines(edges *image.Gray, p HoughParams) []HoughLine {
	width := edges.Bounds().Dx()
	height := edges.Bounds().Dy()
	if width == 0 || height == 0 || p.ThetaStep <= 0 || p.ThetaMax < p.ThetaMin {
		return nil
	}

	numAngles := int(math.Round((p.ThetaMax-p.ThetaMin)/p.ThetaStep)) + 1
	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		angle := (p.ThetaMin + float64(t)*p.ThetaStep) * math.Pi / 180.0
		cosT[t] = math.Cos(angle)
		sinT[t] = math.Sin(angle)
	}

	maxDist := int(math.Ceil(math.Sqrt(float64(width*width + height*height))))
	numRho := 2*maxDist + 1
	accumulator := make([][]int, numRho)
	for i := range accumulator {
		accumulator[i] = make([]int, numAngles)
	}

	// Vote in Hough space
	for y := 0; y < height; y++ {
		row := edges.Pix[y*edges.Stride : y*edges.Stride+width]
		for x, v := range row {
			if v == 0 {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := float64(x)*cosT[t] + float64(y)*sinT[t]
				accumulator[int(math.Round(rho))+maxDist][t]++
			}
		}
	}

	threshold := p.Threshold
	if threshold < 1 {
		threshold = 1
	}

	lines := make([]HoughLine, 0)
	for r := 0; r < numRho; r++ {
		for t := 0; t < numAngles; t++ {
			votes := accumulator[r][t]
			if votes < threshold {
				continue
			}
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr, nt := r+dr, t+dt
					if nr < 0 || nr >= numRho || nt < 0 || nt >= numAngles {
						continue
					}
					if accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				lines = append(lines, HoughLine{
					Rho:          r - maxDist,
					ThetaDegrees: p.ThetaMin + float64(t)*p.ThetaStep,
					Votes:        votes,
				})
			}
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Votes > lines[j].Votes
	})
	if p.MaxLines > 0 && len(lines) > p.MaxLines {
		lines = lines[:p.MaxLines]
	}
	return lines
}
