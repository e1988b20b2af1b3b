// Package ink finds the dark marks a respondent left inside the answer grid.
//
// Two detectors implement Detector:
//
//   - GridDetector measures the mean intensity of every (question row,
//     grade column) cell of the band grid and flags cells darker than the
//     ink threshold. It is the default.
//   - WindowDetector slides a fixed-size window along each horizontal band
//     boundary, flags dark windows, thins them with non-maximum suppression
//     and keeps one candidate per row with DedupeRows.
//
// Candidate scores are 255 minus the mean intensity, so darker marks score
// higher.
package ink
