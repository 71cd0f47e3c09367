// Package markdown renders review digests into the Markdown bodies published
// through the git provider.
package markdown

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/patryk-kowalski-ds/pr-agent/internal/domain"
)

// Builder renders description and review bodies from a digest.
type Builder struct {
	caser cases.Caser
}

// NewBuilder constructs a Markdown builder.
func NewBuilder() *Builder {
	return &Builder{caser: cases.Title(language.English)}
}

// Description renders the body published via publishDescription.
func (b *Builder) Description(digest domain.ReviewDigest) string {
	var builder strings.Builder

	if digest.Description != "" {
		builder.WriteString(strings.TrimSpace(digest.Description))
		builder.WriteString("\n\n")
	}

	builder.WriteString("## Changed Files\n\n")
	if len(digest.Files) == 0 {
		builder.WriteString("No changes relative to the current checkout.\n")
		return builder.String()
	}
	for _, file := range digest.Files {
		builder.WriteString(b.fileLine(file))
	}

	return builder.String()
}

// Review renders the body published via publishComment.
func (b *Builder) Review(digest domain.ReviewDigest) string {
	var builder strings.Builder

	builder.WriteString("# Review: ")
	builder.WriteString(digest.Title)
	builder.WriteString("\n\n")
	builder.WriteString(fmt.Sprintf("- Branch: %s\n", digest.Branch))
	if digest.BaseBranch != "" {
		builder.WriteString(fmt.Sprintf("- Base: %s\n", digest.BaseBranch))
	}
	builder.WriteString(fmt.Sprintf("- Files changed: %d\n\n", len(digest.Files)))

	if len(digest.Files) > 0 {
		builder.WriteString("## Changes\n\n")
		for _, file := range digest.Files {
			builder.WriteString(b.fileLine(file))
		}
		builder.WriteString("\n")
	}

	if len(digest.Languages) > 0 {
		builder.WriteString("## Languages\n\n")
		for _, entry := range sortLanguages(digest.Languages) {
			name := entry.ext
			if name == "" {
				name = "(no extension)"
			}
			builder.WriteString(fmt.Sprintf("- %s: %.1f%%\n", name, entry.pct))
		}
	}

	return builder.String()
}

func (b *Builder) fileLine(file domain.FileStat) string {
	label := b.caser.String(string(file.EditType))
	switch file.EditType {
	case domain.EditTypeRenamed:
		return fmt.Sprintf("- **%s** %s -> %s (+%d/-%d)\n", label, file.OldPath, file.Path, file.Additions, file.Deletions)
	default:
		return fmt.Sprintf("- **%s** %s (+%d/-%d)\n", label, file.Path, file.Additions, file.Deletions)
	}
}

type languageShare struct {
	ext string
	pct float64
}

// sortLanguages orders by descending share, then extension for stable output.
func sortLanguages(languages map[string]float64) []languageShare {
	entries := make([]languageShare, 0, len(languages))
	for ext, pct := range languages {
		entries = append(entries, languageShare{ext: ext, pct: pct})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pct != entries[j].pct {
			return entries[i].pct > entries[j].pct
		}
		return entries[i].ext < entries[j].ext
	})
	return entries
}
