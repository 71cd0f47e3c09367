// Package diff parses unified-diff text into hunks and derives per-file
// change statistics for the review digest.
package diff
