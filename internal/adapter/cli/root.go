// Package cli wires the cobra command tree for the pr-agent binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/patryk-kowalski-ds/pr-agent/internal/usecase/review"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// BranchRunner defines the dependency required to run the review and
// describe commands.
type BranchRunner interface {
	Review(ctx context.Context, req review.Request) (review.Result, error)
	Describe(ctx context.Context, req review.Request) (review.Result, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Runner            BranchRunner
	Args              Arguments
	DefaultBaseBranch string
	DefaultRepoDir    string
	Version           string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "pr-agent",
		Short: "Run AI-assisted code review against a local repository",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(reviewCommand(deps))
	root.AddCommand(describeCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func reviewCommand(deps Dependencies) *cobra.Command {
	var req review.Request

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a branch against the current checkout and write review.md",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDefaults(&req, deps)
			result, err := deps.Runner.Review(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reviewed %q: %d file(s) changed, written to %s\n",
				result.Branch, result.FilesChanged, result.OutputPath)
			return nil
		},
	}
	bindBranchFlags(cmd, &req)
	return cmd
}

func describeCommand(deps Dependencies) *cobra.Command {
	var req review.Request

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate a description for a branch and write description.md",
		RunE: func(cmd *cobra.Command, args []string) error {
			applyDefaults(&req, deps)
			result, err := deps.Runner.Describe(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Described %q: %d file(s) changed, written to %s\n",
				result.Branch, result.FilesChanged, result.OutputPath)
			return nil
		},
	}
	bindBranchFlags(cmd, &req)
	return cmd
}

func bindBranchFlags(cmd *cobra.Command, req *review.Request) {
	cmd.Flags().StringVarP(&req.Branch, "branch", "b", "", "Comparison branch carrying the incoming changes (required)")
	cmd.Flags().StringVar(&req.BaseBranch, "base", "", "Integration branch to rebase onto")
	cmd.Flags().StringVar(&req.RepoDir, "repo", "", "Repository directory (defaults to the configured directory or \".\")")
	cmd.Flags().StringVar(&req.DescriptionPath, "description-path", "", "Override the description output file")
	cmd.Flags().StringVar(&req.ReviewPath, "review-path", "", "Override the review output file")
	_ = cmd.MarkFlagRequired("branch")
}

func applyDefaults(req *review.Request, deps Dependencies) {
	if req.BaseBranch == "" {
		req.BaseBranch = deps.DefaultBaseBranch
	}
	if req.RepoDir == "" {
		req.RepoDir = deps.DefaultRepoDir
	}
}
