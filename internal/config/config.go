package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/52north/docker-build/internal/model"
)

// Built-in defaults. Registry and vendor reflect the 52°North
// infrastructure this tool was written for; both can be overridden
// through every layer of the resolution chain.
const (
	DefaultRegistry     = "docker.52north.org"
	DefaultVendor       = "52°North GmbH"
	DefaultDockerfile   = "Dockerfile"
	DefaultVersionLevel = LevelMinor
)

// VersionLevel is the ceiling for semantic-version rollup tags. Building
// version 2.1.3 always emits "2.1.3"; LevelMinor additionally emits "2.1",
// and LevelMajor emits "2.1" and "2".
type VersionLevel string

const (
	// LevelMajor emits patch, minor, and major rollup tags.
	LevelMajor VersionLevel = "major"

	// LevelMinor emits patch and minor rollup tags.
	LevelMinor VersionLevel = "minor"

	// LevelPatch emits only the exact patch tag.
	LevelPatch VersionLevel = "patch"
)

// String returns the string representation of the VersionLevel.
func (l VersionLevel) String() string {
	return string(l)
}

// IsValid checks whether the VersionLevel is one of the known levels.
func (l VersionLevel) IsValid() bool {
	switch l {
	case LevelMajor, LevelMinor, LevelPatch:
		return true
	default:
		return false
	}
}

// IncludesMinor reports whether the "major.minor" rollup tag is emitted.
func (l VersionLevel) IncludesMinor() bool {
	return l == LevelMinor || l == LevelMajor
}

// IncludesMajor reports whether the bare "major" rollup tag is emitted.
func (l VersionLevel) IncludesMajor() bool {
	return l == LevelMajor
}

// ParseVersionLevel converts a string to a VersionLevel.
// Returns a configuration error if the string does not match any level.
func ParseVersionLevel(s string) (VersionLevel, error) {
	level := VersionLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid version level %q (valid: major, minor, patch)", s))
	}
	return level, nil
}

// BuildConfig holds the full configuration for one invocation. It is
// constructed once by the CLI layer and treated as immutable from then on;
// the tag planner, label builder, and orchestrator only read from it.
type BuildConfig struct {
	// RepoPath is the path to the Git repository to build from.
	RepoPath string

	// Context is the docker build context path. Defaults to RepoPath.
	Context string

	// Dockerfile is the path to the Dockerfile, relative to Context
	// unless absolute.
	Dockerfile string

	// BuildArgs are KEY=VALUE pairs forwarded to docker build.
	BuildArgs []string

	// Latest forces the "latest" tag (or the bare suffix tag when
	// TagSuffix is set) regardless of branch.
	Latest bool

	// LatestBranch emits the "latest" tag when it equals the current
	// branch name.
	LatestBranch string

	// NoCommit suppresses the commit-hash tags.
	NoCommit bool

	// NoBranch suppresses the branch tag.
	NoBranch bool

	// VersionLevel is the rollup ceiling for semantic version tags.
	VersionLevel VersionLevel

	// TagSuffix is appended to every generated tag as "-suffix"
	// (e.g. to distinguish an alpine variant).
	TagSuffix string

	// Version is an explicit version override, expanded like an exact
	// Git tag.
	Version string

	// Vendor, License, Maintainer and URL feed the image metadata labels.
	Vendor     string
	License    string
	Maintainer string
	URL        string

	// Registry and Repository form the image name "registry/repository".
	Registry   string
	Repository string

	// Username and Password are registry credentials. Login is attempted
	// only when both are present.
	Username string
	Password string

	// Pull asks docker build to always pull newer base images.
	Pull bool

	// Push pushes all built tags to the registry.
	Push bool

	// Prune removes the built images locally after the pipeline finishes.
	Prune bool
}

// Validate checks the invariants that do not depend on repository state.
// It is called once after resolution, before any external side effect.
func (c *BuildConfig) Validate() error {
	if c.RepoPath == "" {
		return model.NewCLIError(model.ExitConfigError, "repository path must not be empty")
	}
	if !c.VersionLevel.IsValid() {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid version level %q (valid: major, minor, patch)", c.VersionLevel))
	}
	if c.Registry == "" {
		return model.NewCLIError(model.ExitConfigError, "registry must not be empty")
	}
	for _, arg := range c.BuildArgs {
		if !strings.Contains(arg, "=") {
			return model.NewCLIError(model.ExitConfigError,
				fmt.Sprintf("invalid build arg %q (expected KEY=VALUE)", arg))
		}
	}
	return nil
}

// HasCredentials reports whether both registry credentials are present.
// A lone username or password is treated as absent, not as an error.
func (c *BuildConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// ResolveRepository fills in the Repository field when it was not configured
// explicitly: first from the last path segment of the remote URL (with a
// trailing ".git" stripped), then from the repository directory name.
// An unresolvable repository name is a fatal configuration error, since
// without it no image name can be formed.
func (c *BuildConfig) ResolveRepository(remoteURL model.OptionalString) error {
	if c.Repository != "" {
		return nil
	}

	if url, ok := remoteURL.Get(); ok {
		if name := repoNameFromRemote(url); name != "" {
			c.Repository = name
			return nil
		}
	}

	if base := filepath.Base(c.RepoPath); base != "" && base != "." && base != string(filepath.Separator) {
		c.Repository = strings.ToLower(base)
		return nil
	}

	return model.NewCLIError(model.ExitConfigError,
		"could not determine repository name (set --repository or add a Git remote)")
}

// repoNameFromRemote extracts the repository name from a Git remote URL.
// Handles both https ("https://github.com/org/repo.git") and scp-style
// ("git@github.com:org/repo.git") forms. Image repository names must be
// lowercase, so the result is lowered.
func repoNameFromRemote(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), "/")
	url = strings.TrimSuffix(url, ".git")

	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return strings.ToLower(url)
}
