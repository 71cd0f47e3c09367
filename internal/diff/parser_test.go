package diff_test

import (
	"testing"

	"github.com/patryk-kowalski-ds/pr-agent/internal/diff"
)

const samplePatch = `diff --git a/main.go b/main.go
index 1234567..89abcde 100644
--- a/main.go
+++ b/main.go
@@ -1,5 +1,6 @@
 package main

 func main() {
-	println("hello")
+	println("hello, world")
+	println("extra line")
 }
`

func TestParseCountsHunksAndLines(t *testing.T) {
	parsed, err := diff.Parse(samplePatch)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(parsed.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(parsed.Hunks))
	}

	hunk := parsed.Hunks[0]
	if hunk.OldStart != 1 || hunk.OldLines != 5 {
		t.Fatalf("unexpected old range: %d,%d", hunk.OldStart, hunk.OldLines)
	}
	if hunk.NewStart != 1 || hunk.NewLines != 6 {
		t.Fatalf("unexpected new range: %d,%d", hunk.NewStart, hunk.NewLines)
	}

	additions, deletions := parsed.Stats()
	if additions != 2 {
		t.Fatalf("expected 2 additions, got %d", additions)
	}
	if deletions != 1 {
		t.Fatalf("expected 1 deletion, got %d", deletions)
	}
}

func TestParseEmptyPatch(t *testing.T) {
	parsed, err := diff.Parse("")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed.Hunks) != 0 {
		t.Fatalf("expected no hunks, got %d", len(parsed.Hunks))
	}
	additions, deletions := parsed.Stats()
	if additions != 0 || deletions != 0 {
		t.Fatalf("expected zero stats, got +%d/-%d", additions, deletions)
	}
}

func TestParseMultipleHunks(t *testing.T) {
	patch := `@@ -1,3 +1,4 @@
 context
+added one
 context
 context
@@ -10,4 +11,3 @@
 context
-removed one
-removed two
+added two
 context
`

	parsed, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed.Hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(parsed.Hunks))
	}

	additions, deletions := parsed.Stats()
	if additions != 2 || deletions != 2 {
		t.Fatalf("expected +2/-2, got +%d/-%d", additions, deletions)
	}
}

func TestParseSkipsHeaderAndMarkerLines(t *testing.T) {
	patch := `diff --git a/old.txt b/new.txt
similarity index 95%
rename from old.txt
rename to new.txt
index 1234567..89abcde 100644
--- a/old.txt
+++ b/new.txt
@@ -1,2 +1,2 @@
 context
-old line
+new line
\ No newline at end of file
`

	parsed, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(parsed.Hunks))
	}
	if len(parsed.Hunks[0].Lines) != 3 {
		t.Fatalf("expected 3 body lines, got %d", len(parsed.Hunks[0].Lines))
	}

	additions, deletions := parsed.Stats()
	if additions != 1 || deletions != 1 {
		t.Fatalf("expected +1/-1, got +%d/-%d", additions, deletions)
	}
}

func TestParseHunkHeaderWithoutCounts(t *testing.T) {
	patch := `@@ -1 +1 @@
-old
+new
`

	parsed, err := diff.Parse(patch)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(parsed.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(parsed.Hunks))
	}
	hunk := parsed.Hunks[0]
	if hunk.OldStart != 1 || hunk.OldLines != 1 || hunk.NewStart != 1 || hunk.NewLines != 1 {
		t.Fatalf("unexpected ranges: %+v", hunk)
	}
}
