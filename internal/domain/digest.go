package domain

// FileStat summarizes one changed file for rendering.
type FileStat struct {
	Path      string
	OldPath   string
	EditType  EditType
	Additions int
	Deletions int
}

// ReviewDigest carries everything the renderers need to produce the
// description and review bodies for a local run.
type ReviewDigest struct {
	Title       string
	Branch      string
	BaseBranch  string
	Description string
	Files       []FileStat
	Languages   map[string]float64
}
