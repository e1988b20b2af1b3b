// Package pipeline runs the omr-grader stages over directories of pages.
//
// A batch has three stages, each of which can run on its own:
//
//   - Crop cuts the fixed answer rectangle out of every raw page.
//   - Align straightens each cropped page, finds its band grid, saves the
//     aligned page and a debug overlay, and writes the band registry once
//     the whole batch is done.
//   - Grade loads the registry, detects ink on every aligned page and
//     prints one line per question.
//
// Pages of a batch are processed concurrently with an errgroup. A page that
// fails is logged and counted; the batch carries on. Report lines are
// printed in filename order once every page is done.
//
// AlignImage and GradeImage expose the per-page work without touching the
// filesystem; the MCP server uses them for single-page inspection.
package pipeline
