// Package layout finds the printed content region of a straightened
// questionnaire page and partitions it into grade columns and question rows.
//
// FindMargins locates the left and right content edges from vertical
// intensity steps. Columns splits the content width into equal grade bands.
// Rows scans Canny edge energy from top to bottom and keeps every row that
// crosses the energy threshold at least MinBandGap rows after the previous
// boundary. Question q lies between boundaries q and q+1, so the page edges
// close the first and last question.
//
// All functions take an *image.Gray and never modify it.
package layout
