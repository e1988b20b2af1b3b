// Package detection provides the geometric detectors shared by the skew and ink stages.
//
// This package implements two classic computer vision building blocks:
//
//   - Hough line voting: finds straight lines in an edge map and reports them
//     in normal form (rho, theta). The line-vote skew strategy converts the
//     theta of near-horizontal lines into a rotation angle.
//   - Greedy non-maximum suppression: removes lower-scoring boxes that overlap
//     a higher-scoring box by more than an intersection-over-union threshold.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Boxes cover [X, X+Width) × [Y, Y+Height)
//
// # Performance Considerations
//
// Hough voting costs O(edgePixels × thetaBins). Restricting the theta window
// to the angles of interest (near-horizontal lines for skew) keeps it cheap
// even at 0.1° resolution.
package detection
