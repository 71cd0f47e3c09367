package diff

import (
	"strconv"
	"strings"
)

// LineType represents the type of a line in a diff.
type LineType int

const (
	// LineContext represents an unchanged context line (starts with ' ').
	LineContext LineType = iota
	// LineAddition represents an added line (starts with '+').
	LineAddition
	// LineDeletion represents a deleted line (starts with '-').
	LineDeletion
)

// Line represents a single line in a diff hunk.
type Line struct {
	Type    LineType
	Content string
}

// Hunk represents a single @@ hunk in a unified diff.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// ParsedDiff represents a parsed unified diff for a single file.
type ParsedDiff struct {
	Hunks []Hunk
}

// Parse parses a unified diff string into a ParsedDiff.
// It handles standard git diff output including file headers.
func Parse(patch string) (ParsedDiff, error) {
	if patch == "" {
		return ParsedDiff{}, nil
	}

	lines := strings.Split(patch, "\n")
	result := ParsedDiff{}

	var currentHunk *Hunk
	for _, line := range lines {
		if line == "" {
			continue
		}

		// Skip file headers (diff --git, index, ---, +++) and mode lines.
		if strings.HasPrefix(line, "diff --git") ||
			strings.HasPrefix(line, "index ") ||
			strings.HasPrefix(line, "--- ") ||
			strings.HasPrefix(line, "+++ ") ||
			strings.HasPrefix(line, "rename ") ||
			strings.HasPrefix(line, "similarity ") ||
			strings.HasPrefix(line, "new file mode") ||
			strings.HasPrefix(line, "deleted file mode") ||
			strings.HasPrefix(line, "old mode") ||
			strings.HasPrefix(line, "new mode") {
			continue
		}

		// Skip "\ No newline at end of file" markers.
		if strings.HasPrefix(line, "\\ ") {
			continue
		}

		if strings.HasPrefix(line, "@@") {
			if currentHunk != nil {
				result.Hunks = append(result.Hunks, *currentHunk)
			}
			hunk := parseHunkHeader(line)
			currentHunk = &hunk
			continue
		}

		// Skip anything before the first hunk.
		if currentHunk == nil {
			continue
		}

		switch line[0] {
		case '+':
			currentHunk.Lines = append(currentHunk.Lines, Line{Type: LineAddition, Content: line[1:]})
		case '-':
			currentHunk.Lines = append(currentHunk.Lines, Line{Type: LineDeletion, Content: line[1:]})
		case ' ':
			currentHunk.Lines = append(currentHunk.Lines, Line{Type: LineContext, Content: line[1:]})
		default:
			// Treat unknown as context (handles edge cases).
			currentHunk.Lines = append(currentHunk.Lines, Line{Type: LineContext, Content: line})
		}
	}

	if currentHunk != nil {
		result.Hunks = append(result.Hunks, *currentHunk)
	}

	return result, nil
}

// Stats returns the number of added and deleted lines across all hunks.
func (pd ParsedDiff) Stats() (additions, deletions int) {
	for _, hunk := range pd.Hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAddition:
				additions++
			case LineDeletion:
				deletions++
			}
		}
	}
	return additions, deletions
}

// parseHunkHeader parses a hunk header line like "@@ -10,7 +10,8 @@ context".
func parseHunkHeader(line string) Hunk {
	hunk := Hunk{}

	parts := strings.Split(line, "@@")
	if len(parts) < 2 {
		return hunk
	}

	rangeInfo := strings.TrimSpace(parts[1])
	for _, part := range strings.Fields(rangeInfo) {
		if strings.HasPrefix(part, "-") {
			hunk.OldStart, hunk.OldLines = parseRange(strings.TrimPrefix(part, "-"))
		} else if strings.HasPrefix(part, "+") {
			hunk.NewStart, hunk.NewLines = parseRange(strings.TrimPrefix(part, "+"))
		}
	}

	return hunk
}

// parseRange parses "start,count" or "start" format.
func parseRange(s string) (start, count int) {
	if idx := strings.Index(s, ","); idx >= 0 {
		start, _ = strconv.Atoi(s[:idx])
		count, _ = strconv.Atoi(s[idx+1:])
	} else {
		start, _ = strconv.Atoi(s)
		count = 1
	}
	return
}
