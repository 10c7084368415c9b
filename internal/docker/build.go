package docker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"

	"github.com/52north/docker-build/internal/model"
)

// BuildOptions carries everything one "docker build" invocation needs.
// Tags are full image references ("registry/repository:tag"); exactly one
// build produces all of them on the same image.
type BuildOptions struct {
	// Tags are the full image references to apply, in order.
	Tags []string

	// Labels are the image metadata labels.
	Labels map[string]string

	// BuildArgs are KEY=VALUE pairs forwarded as --build-arg.
	BuildArgs []string

	// Dockerfile is the path to the Dockerfile.
	Dockerfile string

	// Context is the build context directory.
	Context string

	// Pull asks docker to always attempt to pull newer base images.
	Pull bool

	// ForceRemoveNoCache adds --force-rm and --no-cache. Set when the
	// caller intends to prune the result: intermediate containers and
	// cache layers would otherwise survive the cleanup.
	ForceRemoveNoCache bool
}

// CLIBuilder is the production image builder. CLI-side operations go
// through the Runner; daemon queries go through the SDK client.
type CLIBuilder struct {
	runner Runner
	client *Client
}

// NewCLIBuilder creates a builder using the real docker CLI. The client may
// be nil, in which case the SDK-backed operations (LocalImageCount, Remove)
// report the daemon as unavailable.
func NewCLIBuilder(client *Client) *CLIBuilder {
	return &CLIBuilder{runner: ExecRunner{}, client: client}
}

// WithRunner substitutes the command runner. Used by tests to record
// invocations instead of executing them.
func (b *CLIBuilder) WithRunner(r Runner) *CLIBuilder {
	b.runner = r
	return b
}

// Build runs a single "docker build" applying every tag, label, and build
// arg from opts. Labels are emitted in sorted key order so the generated
// command line is deterministic.
func (b *CLIBuilder) Build(ctx context.Context, opts BuildOptions) error {
	if len(opts.Tags) == 0 {
		return model.NewCLIError(model.ExitConfigError, "no image tags to build")
	}

	args := []string{"build"}
	if opts.Pull {
		args = append(args, "--pull")
	}
	if opts.ForceRemoveNoCache {
		args = append(args, "--force-rm", "--no-cache")
	}
	for _, key := range sortedKeys(opts.Labels) {
		args = append(args, "--label", key+"="+opts.Labels[key])
	}
	for _, buildArg := range opts.BuildArgs {
		args = append(args, "--build-arg", buildArg)
	}
	for _, tag := range opts.Tags {
		args = append(args, "--tag", tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "--file", opts.Dockerfile)
	}
	args = append(args, opts.Context)

	return b.runner.Run(ctx, args...)
}

// Login authenticates against the registry. The password travels via stdin
// (--password-stdin) rather than the command line.
func (b *CLIBuilder) Login(ctx context.Context, registry, username, password string) error {
	return b.runner.RunWithInput(ctx, password,
		"login", "--username", username, "--password-stdin", registry)
}

// Logout drops the registry credentials stored by Login.
func (b *CLIBuilder) Logout(ctx context.Context, registry string) error {
	return b.runner.Run(ctx, "logout", registry)
}

// Push pushes a single image reference.
func (b *CLIBuilder) Push(ctx context.Context, imageRef string) error {
	return b.runner.Run(ctx, "push", imageRef)
}

// PushRepository pushes every local tag of "registry/repository" in one
// round trip.
func (b *CLIBuilder) PushRepository(ctx context.Context, repositoryRef string) error {
	return b.runner.Run(ctx, "push", "--all-tags", repositoryRef)
}

// LocalImageCount returns the number of local image tags under
// "registry/repository". The orchestrator compares this against the planned
// tag count to decide whether a repository-wide push is equivalent to
// pushing each reference individually.
func (b *CLIBuilder) LocalImageCount(ctx context.Context, repositoryRef string) (int, error) {
	if b.client == nil {
		return 0, model.NewCLIError(model.ExitDockerError, "Docker client not available")
	}

	// Server-side reference filtering keeps the listing cheap even on
	// hosts with many images.
	summaries, err := b.client.Inner().ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", repositoryRef)),
	})
	if err != nil {
		return 0, model.WrapCLIError(model.ExitDockerError, "failed to list local images", err)
	}

	// One image may carry several tags; each matching tag counts.
	prefix := repositoryRef + ":"
	count := 0
	for _, summary := range summaries {
		for _, repoTag := range summary.RepoTags {
			if strings.HasPrefix(repoTag, prefix) {
				count++
			}
		}
	}
	return count, nil
}

// Remove deletes the given image references from the local daemon. All refs
// are attempted even when some fail; the combined error reports every
// failure. Containers are not force-removed.
func (b *CLIBuilder) Remove(ctx context.Context, imageRefs []string) error {
	if b.client == nil {
		return model.NewCLIError(model.ExitDockerError, "Docker client not available")
	}

	var errs []error
	for _, ref := range imageRefs {
		_, err := b.client.Inner().ImageRemove(ctx, ref, image.RemoveOptions{})
		if err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", ref, err))
		}
	}
	if len(errs) > 0 {
		return model.WrapCLIError(model.ExitDockerError,
			"failed to remove built images", errors.Join(errs...))
	}
	return nil
}

// RedactBuildArgs returns a copy of the KEY=VALUE build args with values of
// secret-looking keys replaced by "REDACTED", for safe echoing in verbose
// output. The heuristic matches key substrings only; values are never
// inspected.
func RedactBuildArgs(buildArgs []string) []string {
	suspicious := func(key string) bool {
		key = strings.ToUpper(key)
		return strings.Contains(key, "PASSWORD") ||
			strings.Contains(key, "TOKEN") ||
			strings.Contains(key, "SECRET") ||
			strings.Contains(key, "CREDENTIAL")
	}

	out := make([]string, len(buildArgs))
	copy(out, buildArgs)
	for i, kv := range out {
		if eq := strings.IndexByte(kv, '='); eq > 0 {
			if key, value := kv[:eq], kv[eq+1:]; suspicious(key) && value != "" {
				out[i] = key + "=REDACTED"
			}
		}
	}
	return out
}

// sortedKeys returns the map keys in ascending order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
