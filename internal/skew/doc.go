// Package skew estimates the rotation that straightens a scanned questionnaire page.
//
// Three interchangeable strategies implement the Estimator interface:
//
//   - projection: sweeps candidate angles, rotating the page and measuring how
//     sharply the row-intensity profile responds to a thin two-band kernel.
//     Printed rules are sharpest when they are horizontal.
//   - hough: blurs, edge-detects and dilates the page, votes for near-horizontal
//     lines with a Hough transform and returns the median line angle.
//   - whitelines: delegates to the docangle white-line detector.
//
// Every strategy returns the correction angle in degrees, counter-clockwise
// positive, to be passed to imaging.Rotate. The angle always lies within
// [-AngleRange, +AngleRange]. When a page carries no usable signal the
// estimate is 0 with Confident set to false.
package skew
