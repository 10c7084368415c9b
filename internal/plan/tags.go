package plan

import (
	"fmt"
	"strings"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/model"
	"github.com/52north/docker-build/internal/semver"
)

// tagSet collects tags preserving insertion order while collapsing
// duplicates. First occurrence wins, so the emission order below is the
// final tag order.
type tagSet struct {
	tags []string
	seen map[string]struct{}
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]struct{})}
}

func (s *tagSet) add(tag string) {
	if tag == "" {
		return
	}
	if _, dup := s.seen[tag]; dup {
		return
	}
	s.seen[tag] = struct{}{}
	s.tags = append(s.tags, tag)
}

// PlanTags derives the ordered set of unique image tags for one build.
//
// Emission order: commit hashes (full, then short), the "latest" tag,
// the branch tag, then the expanded version tags from the exact Git tag
// and the configured version override, in that order. Duplicates collapse
// onto their first occurrence.
//
// The returned slice may be empty when every source is disabled or absent;
// deciding whether that is fatal is the orchestrator's job.
func PlanTags(facts model.RepositoryFacts, cfg *config.BuildConfig) []string {
	suffix := ""
	if cfg.TagSuffix != "" {
		suffix = "-" + cfg.TagSuffix
	}

	set := newTagSet()

	if !cfg.NoCommit {
		if facts.CommitFull != "" {
			set.add(facts.CommitFull + suffix)
		}
		if facts.CommitShort != "" {
			set.add(facts.CommitShort + suffix)
		}
	}

	if cfg.Latest || latestBranchMatches(facts, cfg) {
		// With a suffix configured, the bare suffix takes the place of
		// "latest": the alpine variant of the newest build is ":alpine",
		// not ":latest-alpine".
		if cfg.TagSuffix != "" {
			set.add(cfg.TagSuffix)
		} else {
			set.add("latest")
		}
	}

	if !cfg.NoBranch {
		if branch, ok := facts.Branch.Get(); ok && branch != "" {
			// Image tags cannot contain slashes.
			set.add(strings.ReplaceAll(branch, "/", "-") + suffix)
		}
	}

	for _, value := range versionCandidates(facts, cfg) {
		if value == "" {
			continue
		}
		if semver.IsSemVer(value) {
			expandSemVer(set, value, suffix, cfg.VersionLevel)
		} else {
			set.add(value + suffix)
		}
	}

	return set.tags
}

// latestBranchMatches reports whether the latest-branch setting selects the
// current branch. An unset latest-branch never matches; a detached HEAD
// (absent branch) never matches either.
func latestBranchMatches(facts model.RepositoryFacts, cfg *config.BuildConfig) bool {
	if cfg.LatestBranch == "" {
		return false
	}
	branch, ok := facts.Branch.Get()
	return ok && branch == cfg.LatestBranch
}

// versionCandidates returns the version-like tag sources in emission order:
// the exact Git tag at HEAD first, then the configured version override.
func versionCandidates(facts model.RepositoryFacts, cfg *config.BuildConfig) []string {
	var out []string
	if tag, ok := facts.ExactTag.Get(); ok {
		out = append(out, tag)
	}
	out = append(out, cfg.Version)
	return out
}

// expandSemVer emits the tags for one classified version value.
//
// Pre-release versions get exactly one tag, the original string: a rollup
// tag like "2.0" must always point at the newest release of that line, and
// a pre-release is not a release. Release versions get the full
// major.minor.patch tag plus rollup tags up to the configured level.
func expandSemVer(set *tagSet, value, suffix string, level config.VersionLevel) {
	v := semver.Parse(value)

	if v.IsPreRelease() {
		set.add(value + suffix)
		return
	}

	set.add(fmt.Sprintf("%d.%d.%d%s", v.Major, v.Minor, v.Patch, suffix))
	if level.IncludesMinor() {
		set.add(fmt.Sprintf("%d.%d%s", v.Major, v.Minor, suffix))
	}
	if level.IncludesMajor() {
		set.add(fmt.Sprintf("%d%s", v.Major, suffix))
	}
}

// ImageRefs composes the full image references "registry/repository:tag"
// for every planned tag, preserving tag order.
func ImageRefs(registry, repository string, tags []string) []string {
	base := RepositoryRef(registry, repository)
	refs := make([]string, 0, len(tags))
	for _, tag := range tags {
		refs = append(refs, base+":"+tag)
	}
	return refs
}

// RepositoryRef composes the image name without a tag, used for
// repository-wide pushes and image listing.
func RepositoryRef(registry, repository string) string {
	return strings.TrimRight(registry, "/") + "/" + repository
}
