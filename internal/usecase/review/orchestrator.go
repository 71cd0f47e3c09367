package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patryk-kowalski-ds/pr-agent/internal/diff"
	"github.com/patryk-kowalski-ds/pr-agent/internal/domain"
	"github.com/patryk-kowalski-ds/pr-agent/internal/store"
)

// ProviderFactory acquires a provider for one run. The orchestrator owns the
// returned provider and releases it on every exit path.
type ProviderFactory func(ctx context.Context, req Request) (GitProvider, error)

// Request describes one local review or describe run. Empty fields fall back
// to configured defaults.
type Request struct {
	Branch          string
	BaseBranch      string
	RepoDir         string
	DescriptionPath string
	ReviewPath      string
}

// Result reports what a run produced.
type Result struct {
	RunID        string
	Title        string
	Branch       string
	FilesChanged int
	OutputPath   string
}

// OrchestratorDeps captures the orchestrator's collaborators. Store and
// Logger are optional.
type OrchestratorDeps struct {
	NewProvider            ProviderFactory
	Renderer               Renderer
	Store                  store.Store
	Logger                 Logger
	Repository             string
	DefaultDescriptionPath string
	DefaultReviewPath      string
	Now                    func() time.Time
}

// Orchestrator drives local review and describe runs: acquire the provider,
// build a digest of the synthesized diff, render and publish, record the run,
// release the provider.
type Orchestrator struct {
	deps OrchestratorDeps
}

// NewOrchestrator constructs an orchestrator from its dependencies.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Orchestrator{deps: deps}
}

// Review publishes a review digest for the requested branch.
func (o *Orchestrator) Review(ctx context.Context, req Request) (Result, error) {
	return o.run(ctx, req, "review")
}

// Describe publishes a description for the requested branch.
func (o *Orchestrator) Describe(ctx context.Context, req Request) (Result, error) {
	return o.run(ctx, req, "describe")
}

func (o *Orchestrator) run(ctx context.Context, req Request, command string) (result Result, err error) {
	provider, err := o.deps.NewProvider(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("acquire provider: %w", err)
	}
	defer func() {
		if closeErr := provider.Close(); closeErr != nil {
			if err == nil {
				err = fmt.Errorf("release provider: %w", closeErr)
				return
			}
			o.logWarning(ctx, "provider release failed", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	digest, err := o.buildDigest(ctx, req, provider)
	if err != nil {
		return Result{}, err
	}

	var outputPath string
	switch command {
	case "describe":
		body := o.deps.Renderer.Description(digest)
		if err := provider.PublishDescription(ctx, digest.Title, body); err != nil {
			return Result{}, fmt.Errorf("publish description: %w", err)
		}
		outputPath = o.choosePath(req.DescriptionPath, o.deps.DefaultDescriptionPath)
	default:
		body := o.deps.Renderer.Review(digest)
		if err := provider.PublishComment(ctx, body); err != nil {
			return Result{}, fmt.Errorf("publish review: %w", err)
		}
		outputPath = o.choosePath(req.ReviewPath, o.deps.DefaultReviewPath)
	}

	result = Result{
		RunID:        uuid.NewString(),
		Title:        digest.Title,
		Branch:       digest.Branch,
		FilesChanged: len(digest.Files),
		OutputPath:   outputPath,
	}

	o.recordRun(ctx, command, result)
	o.logInfo(ctx, "run complete", map[string]interface{}{
		"command": command,
		"branch":  result.Branch,
		"files":   result.FilesChanged,
		"output":  result.OutputPath,
	})

	return result, nil
}

// buildDigest summarizes the provider's synthesized diff: per-file edit types
// and line counts, the language breakdown, and the commit-message description.
func (o *Orchestrator) buildDigest(ctx context.Context, req Request, provider GitProvider) (domain.ReviewDigest, error) {
	diffFiles := provider.GetDiffFiles()

	files := make([]domain.FileStat, 0, len(diffFiles))
	for _, file := range diffFiles {
		stat := domain.FileStat{
			Path:     file.Path,
			OldPath:  file.OldPath,
			EditType: file.EditType,
		}
		if file.Patch != "" {
			parsed, err := diff.Parse(file.Patch)
			if err != nil {
				o.logWarning(ctx, "skipping unparseable patch", map[string]interface{}{
					"path":  file.Path,
					"error": err.Error(),
				})
			} else {
				stat.Additions, stat.Deletions = parsed.Stats()
			}
		}
		files = append(files, stat)
	}

	languages, err := provider.GetLanguages(ctx)
	if err != nil {
		return domain.ReviewDigest{}, fmt.Errorf("language breakdown: %w", err)
	}

	description, err := provider.GetPrDescription(ctx)
	if err != nil {
		return domain.ReviewDigest{}, fmt.Errorf("pr description: %w", err)
	}

	return domain.ReviewDigest{
		Title:       provider.GetPrTitle(),
		Branch:      req.Branch,
		BaseBranch:  req.BaseBranch,
		Description: description,
		Files:       files,
		Languages:   languages,
	}, nil
}

func (o *Orchestrator) recordRun(ctx context.Context, command string, result Result) {
	if o.deps.Store == nil {
		return
	}
	run := store.Run{
		RunID:        result.RunID,
		Timestamp:    o.deps.Now(),
		Command:      command,
		Repository:   o.deps.Repository,
		Branch:       result.Branch,
		Title:        result.Title,
		FilesChanged: result.FilesChanged,
		OutputPath:   result.OutputPath,
	}
	if err := o.deps.Store.CreateRun(ctx, run); err != nil {
		o.logWarning(ctx, "run history not recorded", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (o *Orchestrator) choosePath(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func (o *Orchestrator) logInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogInfo(ctx, message, fields)
	}
}

func (o *Orchestrator) logWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if o.deps.Logger != nil {
		o.deps.Logger.LogWarning(ctx, message, fields)
	}
}
