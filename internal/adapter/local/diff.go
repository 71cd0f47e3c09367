package local

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"unicode/utf8"

	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	formatdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/patryk-kowalski-ds/pr-agent/internal/domain"
)

// decodePlaceholder substitutes for blob content that is not valid text.
// The affected record carries the decode error; the rest of the diff is
// unaffected.
const decodePlaceholder = "(binary or non-text content)"

// synthesizeDiff computes the patch set for the comparison branch relative to
// the current HEAD, i.e. the changes the branch under review would introduce.
func (p *Provider) synthesizeDiff(ctx context.Context) ([]domain.FilePatchInfo, error) {
	headCommit, err := p.headCommit()
	if err != nil {
		return nil, err
	}
	branchCommit, err := resolveBranchCommit(p.repo, p.branchName)
	if err != nil {
		return nil, fmt.Errorf("branch %q: %w", p.branchName, domain.ErrBranchNotFound)
	}
	return p.computeDiff(ctx, headCommit, branchCommit)
}

// computeDiff returns the per-file changes introduced going from `from` to
// `to`. A file present only in `to` classifies as added; swapping the
// arguments flips every add/delete classification, so callers must keep the
// direction straight. Rename detection is on, so a renamed-and-edited file
// surfaces as one entry with both paths.
func (p *Provider) computeDiff(ctx context.Context, from, to *object.Commit) ([]domain.FilePatchInfo, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve tree: %w", err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("resolve tree: %w", err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute patch: %w", err)
	}

	filePatches := patch.FilePatches()
	records := make([]domain.FilePatchInfo, 0, len(filePatches))
	for _, fp := range filePatches {
		record, err := p.buildRecord(fp)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// buildRecord converts one file patch into a FilePatchInfo, classifying the
// change and loading before/after content. Classification priority: added,
// deleted, renamed, then modified, so a renamed-and-edited file still reports
// as renamed with its old path populated.
func (p *Provider) buildRecord(fp formatdiff.FilePatch) (domain.FilePatchInfo, error) {
	fromFile, toFile := fp.Files()

	record := domain.FilePatchInfo{EditType: domain.EditTypeModified}
	switch {
	case fromFile == nil && toFile != nil:
		record.EditType = domain.EditTypeAdded
		record.Path = toFile.Path()
	case fromFile != nil && toFile == nil:
		record.EditType = domain.EditTypeDeleted
		record.Path = fromFile.Path()
	case fromFile != nil && toFile != nil && fromFile.Path() != toFile.Path():
		record.EditType = domain.EditTypeRenamed
		record.Path = toFile.Path()
		record.OldPath = fromFile.Path()
	case fromFile != nil && toFile != nil:
		record.Path = toFile.Path()
	default:
		return domain.FilePatchInfo{}, fmt.Errorf("file patch with neither side present")
	}

	originalContent, err := p.fileContent(fromFile)
	if err != nil {
		record.DecodeErr = err
		originalContent = decodePlaceholder
	}
	newContent, err := p.fileContent(toFile)
	if err != nil {
		record.DecodeErr = err
		newContent = decodePlaceholder
	}
	record.OriginalContent = originalContent
	record.NewContent = newContent

	if !fp.IsBinary() {
		patchText, err := encodeFilePatch(fp)
		if err != nil {
			return domain.FilePatchInfo{}, fmt.Errorf("encode patch for %s: %w", record.Path, err)
		}
		record.Patch = patchText
	}

	return record, nil
}

// fileContent loads and decodes one side of a file patch. A nil file (the
// side does not exist) yields empty content. Content that is not valid UTF-8
// fails with ErrDecode; the caller substitutes a placeholder per file rather
// than aborting the whole diff.
func (p *Provider) fileContent(f formatdiff.File) (string, error) {
	if f == nil {
		return "", nil
	}
	blob, err := p.repo.BlobObject(f.Hash())
	if err != nil {
		return "", fmt.Errorf("load blob for %s: %w", f.Path(), err)
	}
	reader, err := blob.Reader()
	if err != nil {
		return "", fmt.Errorf("read blob for %s: %w", f.Path(), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read blob for %s: %w", f.Path(), err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("decode %s: %w", f.Path(), domain.ErrDecode)
	}
	return string(data), nil
}

// resolveBranchCommit resolves a local branch name to its tip commit.
func resolveBranchCommit(repo *goGit.Repository, branch string) (*object.Commit, error) {
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return nil, err
	}
	return repo.CommitObject(ref.Hash())
}

func encodeFilePatch(fp formatdiff.FilePatch) (string, error) {
	var buf bytes.Buffer
	encoder := formatdiff.NewUnifiedEncoder(&buf, formatdiff.DefaultContextLines)
	if err := encoder.Encode(singlePatch{fp: fp}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// singlePatch presents one FilePatch as a Patch so the unified encoder can
// render it in isolation.
type singlePatch struct {
	fp formatdiff.FilePatch
}

func (s singlePatch) FilePatches() []formatdiff.FilePatch {
	return []formatdiff.FilePatch{s.fp}
}

func (s singlePatch) Message() string {
	return ""
}
