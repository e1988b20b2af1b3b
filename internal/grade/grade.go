// Package grade turns ink candidates into one answer per question.
package grade

import (
	"fmt"
	"io"
	"sort"

	"github.com/ironsheep/omr-grader/internal/ink"
)

// Result is the answer to one question.
type Result struct {
	// Question is the 1-based question number.
	Question int `json:"question"`

	// Grade is the 1-based grade column, or nil when the question is unanswered.
	Grade *int `json:"grade"`

	// Percent is the horizontal position of the mark inside its grade band
	// (0-100). Only window resolution sets it.
	Percent *float64 `json:"percent,omitempty"`
}

// Answered reports whether a grade was resolved.
func (r Result) Answered() bool {
	return r.Grade != nil
}

// String formats the result as a report line.
func (r Result) String() string {
	switch {
	case r.Grade == nil:
		return fmt.Sprintf("Question %d: Unable to determine grade", r.Question)
	case r.Percent != nil:
		return fmt.Sprintf("Question %d: %.1f%% (Grade: %d)", r.Question, *r.Percent, *r.Grade)
	default:
		return fmt.Sprintf("Question %d: Grade: %d", r.Question, *r.Grade)
	}
}

// ResolveGrid picks, for every question row in [0, min(rows, numQuestions)),
// the flagged grid cell with the highest score. Equal scores go to the lower
// column. A row without candidates is unanswered. numQuestions <= 0 resolves
// every detected row.
//
// Candidates without a grid position (Row or Column < 0) are ignored.
func ResolveGrid(cands []ink.Candidate, rows, numQuestions int) []Result {
	n := rows
	if numQuestions > 0 {
		n = min(rows, numQuestions)
	}
	if n <= 0 {
		return nil
	}

	best := make([]*ink.Candidate, n)
	for i := range cands {
		c := &cands[i]
		if c.Row < 0 || c.Row >= n || c.Column < 0 {
			continue
		}
		cur := best[c.Row]
		if cur == nil || c.Score > cur.Score || (c.Score == cur.Score && c.Column < cur.Column) {
			best[c.Row] = c
		}
	}

	results := make([]Result, n)
	for q, c := range best {
		results[q] = Result{Question: q + 1}
		if c != nil {
			results[q].Grade = intPtr(c.Column + 1)
		}
	}
	return results
}

// ResolveWindow assigns each window candidate to the grade band containing
// its centroid. The grade is the 1-based band index and the percent is the
// centroid's offset within the band. A centroid outside every band is
// unanswered. Results are ordered by centroid y and numbered from 1.
func ResolveWindow(cands []ink.Candidate, vertical []int) []Result {
	type placed struct {
		cy  float64
		res Result
	}
	all := make([]placed, 0, len(cands))
	for _, c := range cands {
		cx, cy := c.Center()
		var res Result
		for i := 0; i+1 < len(vertical); i++ {
			low, high := float64(vertical[i]), float64(vertical[i+1])
			if low <= cx && cx < high {
				res.Grade = intPtr(i + 1)
				res.Percent = floatPtr((cx - low) / (high - low) * 100)
				break
			}
		}
		all = append(all, placed{cy: cy, res: res})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].cy < all[j].cy })

	results := make([]Result, len(all))
	for i, p := range all {
		results[i] = p.res
		results[i].Question = i + 1
	}
	return results
}

// Count returns the number of answered and unanswered results.
func Count(results []Result) (answered, unanswered int) {
	for _, r := range results {
		if r.Answered() {
			answered++
		} else {
			unanswered++
		}
	}
	return answered, unanswered
}

// Grades returns the grade of every result in order, 0 for unanswered.
func Grades(results []Result) []int {
	out := make([]int, len(results))
	for i, r := range results {
		if r.Grade != nil {
			out[i] = *r.Grade
		}
	}
	return out
}

// WriteReport prints a "Grades for <name>:" header followed by one indented
// line per result.
func WriteReport(w io.Writer, name string, results []Result) error {
	if _, err := fmt.Fprintf(w, "Grades for %s:\n", name); err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "  %s\n", r); err != nil {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
