// Package local implements the git provider contract against a purely local
// repository. It synthesizes a pull-request-like object from the diff between
// the current checkout and a named branch, and redirects publish operations
// to files on disk instead of forge API calls.
package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"

	"github.com/patryk-kowalski-ds/pr-agent/internal/domain"
)

// tmpBranchPrefix namespaces the disposable branches this provider creates,
// so stale ones from crashed runs are recognizable.
const tmpBranchPrefix = "pr_agent_"

// userIDNotApplicable is the sentinel returned by GetUserID; there is no
// forge account behind a local repository.
const userIDNotApplicable = -1

// Options configures provider construction.
type Options struct {
	// RepoDir is where repository discovery starts. Defaults to ".".
	// The .git directory is detected upward from here.
	RepoDir string

	// BranchName is the comparison branch carrying the incoming changes.
	// Required.
	BranchName string

	// BaseBranch is the integration branch the temporary branch is rebased
	// onto. Defaults to "main".
	BaseBranch string

	// DescriptionPath receives published descriptions. Defaults to
	// <repository root>/description.md.
	DescriptionPath string

	// ReviewPath receives published review comments. Defaults to
	// <repository root>/review.md.
	ReviewPath string
}

// Provider adapts a local repository to the review pipeline's git provider
// contract. It holds exclusive logical ownership of the repository's checkout
// state between construction and Close; at most one instance may be active
// against a given checkout at a time, and callers must serialize externally.
type Provider struct {
	repo     *goGit.Repository
	repoRoot string

	headBranchName string
	branchName     string
	baseBranch     string
	tmpBranchName  string

	descriptionPath string
	reviewPath      string

	pr     domain.PullRequestMimic
	closed bool
}

// NewProvider prepares the repository (temporary branch + rebase), eagerly
// synthesizes the diff against the comparison branch, and builds the
// PR-mimic. On any failure after the temporary branch exists, the repository
// state is restored before the error is returned. Callers own the returned
// provider and must release it with Close.
func NewProvider(ctx context.Context, opts Options) (*Provider, error) {
	if opts.BranchName == "" {
		return nil, fmt.Errorf("comparison branch name is required")
	}

	repoDir := opts.RepoDir
	if repoDir == "" {
		repoDir = "."
	}

	repo, err := goGit.PlainOpenWithOptions(repoDir, &goGit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	repoRoot := worktree.Filesystem.Root()

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return nil, fmt.Errorf("detached HEAD; check out a branch before reviewing")
	}

	baseBranch := opts.BaseBranch
	if baseBranch == "" {
		baseBranch = "main"
	}

	p := &Provider{
		repo:            repo,
		repoRoot:        repoRoot,
		headBranchName:  head.Name().Short(),
		branchName:      opts.BranchName,
		baseBranch:      baseBranch,
		tmpBranchName:   tmpBranchPrefix + uuid.NewString(),
		descriptionPath: opts.DescriptionPath,
		reviewPath:      opts.ReviewPath,
	}
	if p.descriptionPath == "" {
		p.descriptionPath = filepath.Join(repoRoot, "description.md")
	}
	if p.reviewPath == "" {
		p.reviewPath = filepath.Join(repoRoot, "review.md")
	}

	if err := p.prepare(ctx); err != nil {
		return nil, err
	}

	diffFiles, err := p.synthesizeDiff(ctx)
	if err != nil {
		// The temporary branch is already checked out; release it.
		_ = p.Close()
		return nil, err
	}
	p.pr = domain.NewPullRequestMimic(p.branchName, diffFiles)

	return p, nil
}

// prepare moves the repository from its original branch onto a disposable
// temporary branch rebased onto the base branch. It refuses to touch a dirty
// working tree, and it releases the temporary branch on its own error paths
// so the caller never holds a half-prepared repository.
func (p *Provider) prepare(ctx context.Context) error {
	worktree, err := p.repo.Worktree()
	if err != nil {
		return fmt.Errorf("resolve worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("read worktree status: %w", err)
	}
	if hasTrackedChanges(status) {
		return fmt.Errorf("prepare repo: %w", domain.ErrDirtyWorkingTree)
	}

	if _, err := resolveBranchCommit(p.repo, p.baseBranch); err != nil {
		return fmt.Errorf("base branch %q: %w", p.baseBranch, domain.ErrBranchNotFound)
	}

	tmpRef := plumbing.NewBranchReferenceName(p.tmpBranchName)
	if _, err := p.repo.Reference(tmpRef, false); err == nil {
		// Stale branch from a crashed prior run.
		if err := p.repo.Storer.RemoveReference(tmpRef); err != nil {
			return fmt.Errorf("delete stale branch %s: %w", p.tmpBranchName, err)
		}
	}

	if err := worktree.Checkout(&goGit.CheckoutOptions{Branch: tmpRef, Create: true}); err != nil {
		return fmt.Errorf("create temporary branch %s: %w", p.tmpBranchName, err)
	}

	if err := p.rebase(ctx); err != nil {
		_ = p.teardown()
		return err
	}
	return nil
}

// rebase replays the temporary branch onto the base branch. go-git does not
// implement rebase, so this shells out to the git CLI. A conflicted rebase is
// aborted so teardown can still restore the original branch; only a failure
// that left a rebase in progress maps to ErrRebaseConflict, anything else
// (git missing, bad configuration) surfaces as the plain exec error.
func (p *Provider) rebase(ctx context.Context) error {
	if _, err := runGitCommand(ctx, p.repoRoot, "rebase", p.baseBranch); err != nil {
		if _, abortErr := runGitCommand(ctx, p.repoRoot, "rebase", "--abort"); abortErr != nil {
			// No rebase was in progress; the command itself failed.
			return fmt.Errorf("rebase onto %q: %w", p.baseBranch, err)
		}
		return fmt.Errorf("rebase onto %q: %v: %w", p.baseBranch, err, domain.ErrRebaseConflict)
	}
	return nil
}

// Close restores the original branch and deletes the temporary branch. It is
// idempotent and must run on every exit path once NewProvider has returned a
// provider. The checkout back always happens before branch deletion; a failed
// deletion surfaces as ErrCleanup without undoing the restore.
func (p *Provider) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return p.teardown()
}

// hasTrackedChanges reports whether any tracked file is modified or staged.
// Untracked files do not count as dirty: earlier runs leave description.md
// and review.md behind, and they must not block the next run.
func hasTrackedChanges(status goGit.Status) bool {
	for _, fileStatus := range status {
		if fileStatus.Staging == goGit.Untracked {
			continue
		}
		if fileStatus.Staging != goGit.Unmodified || fileStatus.Worktree != goGit.Unmodified {
			return true
		}
	}
	return false
}

func (p *Provider) teardown() error {
	worktree, err := p.repo.Worktree()
	if err != nil {
		return fmt.Errorf("restore branch %q: %w", p.headBranchName, err)
	}

	var restoreErr error
	headRef := plumbing.NewBranchReferenceName(p.headBranchName)
	if err := worktree.Checkout(&goGit.CheckoutOptions{Branch: headRef}); err != nil {
		restoreErr = fmt.Errorf("restore branch %q: %w", p.headBranchName, err)
	}

	var cleanupErr error
	tmpRef := plumbing.NewBranchReferenceName(p.tmpBranchName)
	if _, err := p.repo.Reference(tmpRef, false); err == nil {
		if err := p.repo.Storer.RemoveReference(tmpRef); err != nil {
			cleanupErr = fmt.Errorf("delete %s: %w", p.tmpBranchName, domain.ErrCleanup)
		}
	}

	if restoreErr != nil {
		return restoreErr
	}
	return cleanupErr
}

// PR returns the pull-request stand-in computed at construction.
func (p *Provider) PR() domain.PullRequestMimic {
	return p.pr
}

// GetDiffFiles returns the per-file patch set computed at construction.
func (p *Provider) GetDiffFiles() []domain.FilePatchInfo {
	return p.pr.DiffFiles
}

// GetFiles returns the paths changed between HEAD and the comparison branch.
func (p *Provider) GetFiles(ctx context.Context) ([]string, error) {
	branchCommit, err := resolveBranchCommit(p.repo, p.branchName)
	if err != nil {
		return nil, fmt.Errorf("branch %q: %w", p.branchName, domain.ErrBranchNotFound)
	}
	headCommit, err := p.headCommit()
	if err != nil {
		return nil, err
	}

	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD tree: %w", err)
	}
	branchTree, err := branchCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve branch tree: %w", err)
	}

	changes, err := object.DiffTree(headTree, branchTree)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		name := change.From.Name
		if name == "" {
			name = change.To.Name
		}
		files = append(files, name)
	}
	return files, nil
}

// GetLanguages groups every file in the HEAD tree by lowercased extension
// (no leading dot; extensionless files under the empty key) and returns each
// group's share of the total file count as a percentage. Used for hunk
// prioritisation downstream.
func (p *Provider) GetLanguages(ctx context.Context) (map[string]float64, error) {
	headCommit, err := p.headCommit()
	if err != nil {
		return nil, err
	}

	tree, err := headCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD tree: %w", err)
	}

	counts := make(map[string]int)
	total := 0
	err = tree.Files().ForEach(func(f *object.File) error {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
		counts[ext]++
		total++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD tree: %w", err)
	}

	percentages := make(map[string]float64, len(counts))
	if total == 0 {
		return percentages, nil
	}
	for ext, count := range counts {
		percentages[ext] = float64(count) / float64(total) * 100
	}
	return percentages, nil
}

// PublishDescription overwrites the configured description file with the
// title and body separated by a single newline.
func (p *Provider) PublishDescription(ctx context.Context, title, body string) error {
	if err := os.WriteFile(p.descriptionPath, []byte(title+"\n"+body), 0o644); err != nil {
		return fmt.Errorf("write description %s: %w", p.descriptionPath, err)
	}
	return nil
}

// PublishComment overwrites the configured review file with the comment text.
func (p *Provider) PublishComment(ctx context.Context, text string) error {
	if err := os.WriteFile(p.reviewPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write review %s: %w", p.reviewPath, err)
	}
	return nil
}

// PublishInlineComment is unsupported; a local file cannot carry positioned
// comments.
func (p *Provider) PublishInlineComment(ctx context.Context, body, file, line string) error {
	return fmt.Errorf("publish inline comment: %w", domain.ErrUnsupported)
}

// PublishCodeSuggestion is unsupported.
func (p *Provider) PublishCodeSuggestion(ctx context.Context, suggestion domain.CodeSuggestion) error {
	return fmt.Errorf("publish code suggestion: %w", domain.ErrUnsupported)
}

// PublishCodeSuggestions is unsupported.
func (p *Provider) PublishCodeSuggestions(ctx context.Context, suggestions []domain.CodeSuggestion) error {
	return fmt.Errorf("publish code suggestions: %w", domain.ErrUnsupported)
}

// GetIssueComments is unsupported.
func (p *Provider) GetIssueComments(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("get issue comments: %w", domain.ErrUnsupported)
}

// GetLabels is unsupported.
func (p *Provider) GetLabels(ctx context.Context) ([]string, error) {
	return nil, fmt.Errorf("get labels: %w", domain.ErrUnsupported)
}

// PublishLabels is accepted but ignored; labels do not exist locally.
func (p *Provider) PublishLabels(ctx context.Context, labels []string) error {
	return nil
}

// RemoveInitialComment is accepted but ignored.
func (p *Provider) RemoveInitialComment(ctx context.Context) error {
	return nil
}

// GetPrBranch returns the currently checked-out branch reference.
func (p *Provider) GetPrBranch(ctx context.Context) (string, error) {
	head, err := p.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Name().Short(), nil
}

// GetUserID returns a fixed sentinel; no user identity applies locally.
func (p *Provider) GetUserID() int {
	return userIDNotApplicable
}

// GetPrDescription concatenates the messages of the commits reachable from
// HEAD but not from the comparison branch, truncated to 200 characters.
func (p *Provider) GetPrDescription(ctx context.Context) (string, error) {
	branchCommit, err := resolveBranchCommit(p.repo, p.branchName)
	if err != nil {
		return "", fmt.Errorf("branch %q: %w", p.branchName, domain.ErrBranchNotFound)
	}
	headCommit, err := p.headCommit()
	if err != nil {
		return "", err
	}

	messages, err := commitMessagesBetween(p.repo, branchCommit, headCommit)
	if err != nil {
		return "", err
	}

	description := strings.Join(messages, " ")
	return truncate(description, 200), nil
}

// GetPrTitle substitutes the comparison branch name, verbatim, as the title.
func (p *Provider) GetPrTitle() string {
	return p.branchName
}

// DescriptionPath returns where published descriptions are written.
func (p *Provider) DescriptionPath() string {
	return p.descriptionPath
}

// ReviewPath returns where published review comments are written.
func (p *Provider) ReviewPath() string {
	return p.reviewPath
}

// RepoRoot returns the repository root directory.
func (p *Provider) RepoRoot() string {
	return p.repoRoot
}

// Capabilities returns the operation groups this provider supports. Forge
// backed capabilities (inline comments, suggestions, issue comments, labels)
// are absent.
func (p *Provider) Capabilities() domain.CapabilitySet {
	return domain.CapabilitySet{
		domain.CapabilityDiff:          true,
		domain.CapabilityFiles:         true,
		domain.CapabilityLanguages:     true,
		domain.CapabilityDescription:   true,
		domain.CapabilityComment:       true,
		domain.CapabilityPRTitle:       true,
		domain.CapabilityPRDescription: true,
		domain.CapabilityPRBranch:      true,
	}
}

// IsSupported reports whether the capability is available.
func (p *Provider) IsSupported(capability domain.Capability) bool {
	return p.Capabilities().Has(capability)
}

func (p *Provider) headCommit() (*object.Commit, error) {
	head, err := p.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	commit, err := p.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("load HEAD commit: %w", err)
	}
	return commit, nil
}

// commitMessagesBetween returns the messages of commits reachable from head
// but not from exclude, newest first, matching `git log exclude..head`.
func commitMessagesBetween(repo *goGit.Repository, exclude, head *object.Commit) ([]string, error) {
	excluded := make(map[plumbing.Hash]struct{})
	excludeIter, err := repo.Log(&goGit.LogOptions{From: exclude.Hash})
	if err != nil {
		return nil, fmt.Errorf("walk branch history: %w", err)
	}
	err = excludeIter.ForEach(func(c *object.Commit) error {
		excluded[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk branch history: %w", err)
	}

	var messages []string
	headIter, err := repo.Log(&goGit.LogOptions{From: head.Hash})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD history: %w", err)
	}
	err = headIter.ForEach(func(c *object.Commit) error {
		if _, ok := excluded[c.Hash]; ok {
			return nil
		}
		messages = append(messages, c.Message)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk HEAD history: %w", err)
	}
	return messages, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
