package domain

// EditType classifies how a file changed between two refs.
type EditType string

const (
	EditTypeAdded    EditType = "added"
	EditTypeDeleted  EditType = "deleted"
	EditTypeRenamed  EditType = "renamed"
	EditTypeModified EditType = "modified"
)

// FilePatchInfo captures the before/after state of a single changed file.
// It is the atomic unit of a synthesized diff.
type FilePatchInfo struct {
	// OriginalContent is the file content before the change; empty when the
	// file did not exist.
	OriginalContent string

	// NewContent is the file content after the change; empty when the file no
	// longer exists.
	NewContent string

	// Patch is the unified-diff text for this file. May be empty for pure
	// renames and binary files.
	Patch string

	// Path is the post-change path. Never empty.
	Path string

	// EditType classifies the change. Renames win over content modification.
	EditType EditType

	// OldPath is set only when the path changed (EditTypeRenamed).
	OldPath string

	// DecodeErr records a per-file content decode failure. The patch set is
	// still produced; callers decide how to treat the affected file.
	DecodeErr error
}

// PullRequestMimic stands in for a hosted pull-request object when reviewing
// a purely local repository. Immutable once constructed.
type PullRequestMimic struct {
	Title     string
	DiffFiles []FilePatchInfo
}

// NewPullRequestMimic builds the PR stand-in from a title and a synthesized
// diff, copying the slice so later mutation by the caller cannot leak in.
func NewPullRequestMimic(title string, diffFiles []FilePatchInfo) PullRequestMimic {
	files := make([]FilePatchInfo, len(diffFiles))
	copy(files, diffFiles)
	return PullRequestMimic{Title: title, DiffFiles: files}
}

// CodeSuggestion is a proposed replacement for a line range in a file.
type CodeSuggestion struct {
	Body      string
	File      string
	LineStart int
	LineEnd   int
}

// Capability names one operation group a git provider may support.
type Capability string

const (
	CapabilityDiff            Capability = "diff"
	CapabilityFiles           Capability = "files"
	CapabilityLanguages       Capability = "languages"
	CapabilityDescription     Capability = "description"
	CapabilityComment         Capability = "comment"
	CapabilityPRTitle         Capability = "pr_title"
	CapabilityPRDescription   Capability = "pr_description"
	CapabilityPRBranch        Capability = "pr_branch"
	CapabilityInlineComments  Capability = "inline_comments"
	CapabilityCodeSuggestions Capability = "code_suggestions"
	CapabilityIssueComments   Capability = "issue_comments"
	CapabilityLabels          Capability = "labels"
)

// CapabilitySet is the set of capabilities a provider supports. Callers
// should query it instead of discovering unsupported operations via failure.
type CapabilitySet map[Capability]bool

// Has reports whether the capability is present in the set.
func (s CapabilitySet) Has(c Capability) bool {
	return s[c]
}
