// Package registry holds the band sets found while aligning a batch of pages
// and persists them for the grading pass.
//
// A Registry is an in-memory map from image id (the basename of the aligned
// page) to its BandSet, safe for concurrent Put from a batch of workers. It
// is written once per batch through a Store:
//
//   - JSONStore writes a pretty-printed JSON object keyed by image id,
//     replacing the file atomically.
//   - SQLiteStore keeps one row per image in a bands table.
//
// Open picks the store from the file extension. Watch reports when a
// registry file is rewritten so a grader can follow an aligner.
package registry
