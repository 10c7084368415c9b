// build.go implements the "docker-build build" command: the full pipeline
// from repository inspection through docker build to the optional push and
// prune steps.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/52north/docker-build/internal/build"
	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/docker"
	"github.com/52north/docker-build/internal/git"
)

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "build [repository-path]",
		Short: "Build the image with all derived tags",
		Long: `Build a Docker image from the given Git repository (default: the current
directory), tagging it with the commit hashes, the branch name, and the
expanded semantic version tags derived from the exact Git tag or --version.

Examples:
  docker-build build
  docker-build build --push --latest-branch master ~/checkouts/sos
  docker-build build --version 2.1.0 --version-level major --push
  docker-build build --suffix alpine --file Dockerfile.alpine`,

		Args: cobra.MaximumNArgs(1),

		// RunE is used instead of Run so errors reach the Execute error
		// handler in root.go, which maps them to exit codes.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runBuild(cmd.Context(), cfg)
		},
	}

	flags.register(cmd)
	return cmd
}

// runBuild gathers repository facts and hands the pipeline to the
// orchestrator.
func runBuild(ctx context.Context, cfg *config.BuildConfig) error {
	VerboseLog("Repository: %s", cfg.RepoPath)

	facts, err := git.NewInspector(cfg.RepoPath).Facts()
	if err != nil {
		return err
	}
	VerboseLog("HEAD: %s (branch %q, tag %q)",
		facts.CommitShort, facts.Branch.Value(), facts.ExactTag.Value())

	if err := cfg.ResolveRepository(facts.RemoteURL); err != nil {
		return err
	}
	VerboseLog("Image name: %s/%s", cfg.Registry, cfg.Repository)

	// The SDK client only backs the push optimization and the prune step.
	// When no daemon socket is found, the pipeline still runs: the docker
	// CLI invocation will report the authoritative error, and the push
	// falls back to individual references.
	client, err := docker.NewClient()
	if err != nil {
		VerboseLog("Docker SDK client unavailable: %v", err)
		client = nil
	} else {
		defer func() { _ = client.Close() }()
	}

	orchestrator := build.New(docker.NewCLIBuilder(client)).WithTrace(VerboseLog)
	if err := orchestrator.Run(ctx, facts, cfg); err != nil {
		return err
	}

	if !IsJSONOutput() {
		fmt.Printf("Built %s/%s\n", cfg.Registry, cfg.Repository)
	}
	return nil
}
