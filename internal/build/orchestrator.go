package build

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/docker"
	"github.com/52north/docker-build/internal/model"
	"github.com/52north/docker-build/internal/plan"
)

// ImageBuilder is the external collaborator performing the container
// operations. Satisfied by docker.CLIBuilder; tests supply a fake.
type ImageBuilder interface {
	Build(ctx context.Context, opts docker.BuildOptions) error
	Login(ctx context.Context, registry, username, password string) error
	Logout(ctx context.Context, registry string) error
	Push(ctx context.Context, imageRef string) error
	PushRepository(ctx context.Context, repositoryRef string) error
	LocalImageCount(ctx context.Context, repositoryRef string) (int, error)
	Remove(ctx context.Context, imageRefs []string) error
}

// Orchestrator runs the strictly sequential build pipeline. No step is
// retried; a failing step aborts the invocation, except for the best-effort
// cleanup documented on Run.
type Orchestrator struct {
	builder ImageBuilder

	// trace receives verbose progress messages; nil disables tracing.
	trace func(format string, args ...interface{})

	// warnOut receives non-fatal warnings (prune or logout failures).
	warnOut io.Writer
}

// New creates an Orchestrator around the given image builder.
func New(builder ImageBuilder) *Orchestrator {
	return &Orchestrator{builder: builder, warnOut: os.Stderr}
}

// WithTrace sets the verbose trace sink.
func (o *Orchestrator) WithTrace(trace func(format string, args ...interface{})) *Orchestrator {
	o.trace = trace
	return o
}

// WithWarnOutput redirects non-fatal warnings, mainly for tests.
func (o *Orchestrator) WithWarnOutput(w io.Writer) *Orchestrator {
	o.warnOut = w
	return o
}

// Run executes the pipeline for the given repository snapshot and
// configuration. The config must already be validated and carry a resolved
// repository name.
//
// Failure policy: an empty tag set and every build/push failure are fatal.
// Login is attempted only when both credentials are present; absence is a
// silent skip. Logout after a push and the prune step are best-effort: by
// the time they run, the build (and push) already succeeded, so their
// failures are reported as warnings without changing the outcome.
func (o *Orchestrator) Run(ctx context.Context, facts model.RepositoryFacts, cfg *config.BuildConfig) error {
	if cfg.Repository == "" {
		return model.NewCLIError(model.ExitConfigError, "repository name is not resolved")
	}

	tags := plan.PlanTags(facts, cfg)
	if len(tags) == 0 {
		return model.NewCLIError(model.ExitConfigError,
			"no image tags could be determined — every tag source is disabled or absent")
	}

	refs := plan.ImageRefs(cfg.Registry, cfg.Repository, tags)
	labels := plan.BuildLabels(facts, cfg)
	o.tracef("planned %d tag(s): %v", len(tags), tags)

	loggedIn := false
	if cfg.HasCredentials() {
		o.tracef("logging in to %s as %s", cfg.Registry, cfg.Username)
		if err := o.builder.Login(ctx, cfg.Registry, cfg.Username, cfg.Password); err != nil {
			return err
		}
		loggedIn = true
	} else {
		o.tracef("no registry credentials configured, skipping login")
	}

	if len(cfg.BuildArgs) > 0 {
		o.tracef("build args: %v", docker.RedactBuildArgs(cfg.BuildArgs))
	}
	opts := docker.BuildOptions{
		Tags:       refs,
		Labels:     labels,
		BuildArgs:  cfg.BuildArgs,
		Dockerfile: cfg.Dockerfile,
		Context:    cfg.Context,
		Pull:       cfg.Pull,
		// A prune run must not leave intermediate containers or cache
		// layers behind, so the build itself has to be clean.
		ForceRemoveNoCache: cfg.Prune,
	}
	if err := o.builder.Build(ctx, opts); err != nil {
		return err
	}

	if cfg.Push {
		if err := o.push(ctx, cfg, refs); err != nil {
			return err
		}
	}

	if loggedIn {
		if err := o.builder.Logout(ctx, cfg.Registry); err != nil {
			fmt.Fprintf(o.warnOut, "warning: docker logout failed: %v\n", err)
		}
	}

	if cfg.Prune {
		o.tracef("removing %d built image(s)", len(refs))
		if err := o.builder.Remove(ctx, refs); err != nil {
			// The build and push already completed; a failed cleanup
			// does not retroactively fail the invocation.
			fmt.Fprintf(o.warnOut, "warning: image cleanup failed: %v\n", err)
		}
	}

	return nil
}

// push uploads the built references. When the daemon reports exactly as
// many local tags under registry/repository as were planned, a single
// repository-wide push replaces the per-reference pushes. The equivalence
// check is a heuristic; whenever it cannot be established, each reference
// is pushed individually, which is always correct.
func (o *Orchestrator) push(ctx context.Context, cfg *config.BuildConfig, refs []string) error {
	repositoryRef := plan.RepositoryRef(cfg.Registry, cfg.Repository)

	count, err := o.builder.LocalImageCount(ctx, repositoryRef)
	if err == nil && count == len(refs) {
		o.tracef("pushing %s with --all-tags (%d tags)", repositoryRef, count)
		return o.builder.PushRepository(ctx, repositoryRef)
	}
	if err != nil {
		o.tracef("could not count local images (%v), pushing individually", err)
	}

	for _, ref := range refs {
		o.tracef("pushing %s", ref)
		if pushErr := o.builder.Push(ctx, ref); pushErr != nil {
			return pushErr
		}
	}
	return nil
}

// tracef forwards to the trace sink when one is set.
func (o *Orchestrator) tracef(format string, args ...interface{}) {
	if o.trace != nil {
		o.trace(format, args...)
	}
}
