package review

import (
	"context"

	"github.com/patryk-kowalski-ds/pr-agent/internal/domain"
)

// GitProvider is the provider contract the review pipeline runs against.
// Implementations are backed by a hosted forge or, for local runs, by the
// repository itself. Operations are synchronous and may block on I/O.
//
// Providers are single-owner resources: one active instance per repository
// checkout, acquired for the duration of a run and released with Close.
type GitProvider interface {
	// GetDiffFiles returns the patch set computed at acquisition time.
	GetDiffFiles() []domain.FilePatchInfo

	// GetFiles returns the ordered list of changed paths. Fails with
	// domain.ErrBranchNotFound when the comparison branch is absent.
	GetFiles(ctx context.Context) ([]string, error)

	// GetLanguages maps lowercased file extension to its percentage of the
	// total tracked file count.
	GetLanguages(ctx context.Context) (map[string]float64, error)

	// PublishDescription publishes title and body as the change description.
	PublishDescription(ctx context.Context, title, body string) error

	// PublishComment publishes the review text.
	PublishComment(ctx context.Context, text string) error

	// PublishInlineComment fails with domain.ErrUnsupported on providers
	// without inline comment placement.
	PublishInlineComment(ctx context.Context, body, file, line string) error

	// PublishCodeSuggestion proposes a replacement for a line range.
	PublishCodeSuggestion(ctx context.Context, suggestion domain.CodeSuggestion) error

	// PublishCodeSuggestions proposes several replacements at once.
	PublishCodeSuggestions(ctx context.Context, suggestions []domain.CodeSuggestion) error

	// GetIssueComments returns the discussion trail, where one exists.
	GetIssueComments(ctx context.Context) ([]string, error)

	// GetLabels returns the labels attached to the change.
	GetLabels(ctx context.Context) ([]string, error)

	// PublishLabels attaches labels; providers without labels accept and
	// ignore the call.
	PublishLabels(ctx context.Context, labels []string) error

	// RemoveInitialComment retracts the provider's placeholder comment;
	// providers without one accept and ignore the call.
	RemoveInitialComment(ctx context.Context) error

	// GetPrBranch returns the currently checked-out branch reference.
	GetPrBranch(ctx context.Context) (string, error)

	// GetUserID returns the acting user's identity, or a sentinel when not
	// applicable.
	GetUserID() int

	// GetPrDescription returns the change description, truncated by the
	// provider where necessary.
	GetPrDescription(ctx context.Context) (string, error)

	// GetPrTitle returns the change title.
	GetPrTitle() string

	// IsSupported reports whether the capability is available. Callers
	// should prefer this over discovering unsupported operations via
	// failure.
	IsSupported(capability domain.Capability) bool

	// Capabilities returns the full supported set.
	Capabilities() domain.CapabilitySet

	// Close releases the provider and restores any repository state it
	// mutated. Idempotent.
	Close() error
}

// Renderer produces the bodies published through the provider.
type Renderer interface {
	Description(digest domain.ReviewDigest) string
	Review(digest domain.ReviewDigest) string
}

// Logger is the minimal structured logging surface the orchestrator needs.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}
