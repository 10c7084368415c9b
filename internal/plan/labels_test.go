package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/model"
)

// TestBuildLabelsAt_AllSources verifies the full label set with every
// source populated, and that explicit configuration wins over facts.
func TestBuildLabelsAt_AllSources(t *testing.T) {
	facts := model.RepositoryFacts{
		Branch:      model.StringOf("master"),
		ExactTag:    model.StringOf("v1.2.3"),
		CommitFull:  "0123456789abcdef0123456789abcdef01234567",
		CommitShort: "0123456",
		RemoteURL:   model.StringOf("https://github.com/52North/sos.git"),
		Committer:   model.StringOf("Jane Doe <jane@example.org>"),
	}
	cfg := &config.BuildConfig{
		Vendor:     "52°North GmbH",
		License:    "GPL-2.0",
		Maintainer: "ops@52north.org",
		URL:        "https://52north.org/",
		Version:    "2.0.0",
	}
	buildDate := time.Date(2026, 8, 23, 14, 30, 5, 0, time.UTC)

	labels := BuildLabelsAt(facts, cfg, buildDate)

	assert.Equal(t, map[string]string{
		LabelSchemaVersion: "1.0",
		LabelBuildDate:     "2026-08-23T14:30:05Z",
		LabelVendor:        "52°North GmbH",
		LabelLicense:       "GPL-2.0",
		LabelVCSURL:        "https://github.com/52North/sos.git",
		LabelMaintainer:    "ops@52north.org",
		LabelURL:           "https://52north.org/",
		LabelVCSRef:        "0123456789abcdef0123456789abcdef01234567",
		LabelVersion:       "2.0.0",
	}, labels)
}

// TestBuildLabelsAt_Fallbacks verifies the fallback chains: maintainer from
// the committer, url and version from repository facts.
func TestBuildLabelsAt_Fallbacks(t *testing.T) {
	facts := model.RepositoryFacts{
		ExactTag:   model.StringOf("v1.2.3"),
		CommitFull: "0123456789abcdef0123456789abcdef01234567",
		RemoteURL:  model.StringOf("https://github.com/52North/sos.git"),
		Committer:  model.StringOf("Jane Doe <jane@x.com>"),
	}
	cfg := &config.BuildConfig{Vendor: config.DefaultVendor}

	labels := BuildLabelsAt(facts, cfg, time.Now())

	assert.Equal(t, "Jane Doe <jane@x.com>", labels[LabelMaintainer])
	assert.Equal(t, "https://github.com/52North/sos.git", labels[LabelURL])
	assert.Equal(t, "https://github.com/52North/sos.git", labels[LabelVCSURL])
	assert.Equal(t, "v1.2.3", labels[LabelVersion])
}

// TestBuildLabelsAt_MaintainerConfigWins verifies that a configured
// maintainer beats the committer.
func TestBuildLabelsAt_MaintainerConfigWins(t *testing.T) {
	facts := model.RepositoryFacts{
		CommitFull: "abc",
		Committer:  model.StringOf("Jane Doe <jane@x.com>"),
	}
	cfg := &config.BuildConfig{Maintainer: "ops@52north.org"}

	labels := BuildLabelsAt(facts, cfg, time.Now())

	assert.Equal(t, "ops@52north.org", labels[LabelMaintainer])
}

// TestBuildLabelsAt_AbsentSourcesOmitted verifies that labels without a
// non-empty source are not emitted at all.
func TestBuildLabelsAt_AbsentSourcesOmitted(t *testing.T) {
	facts := model.RepositoryFacts{CommitFull: "abc", CommitShort: "a"}
	cfg := &config.BuildConfig{}

	labels := BuildLabelsAt(facts, cfg, time.Now())

	assert.NotContains(t, labels, LabelVendor)
	assert.NotContains(t, labels, LabelLicense)
	assert.NotContains(t, labels, LabelVCSURL)
	assert.NotContains(t, labels, LabelMaintainer)
	assert.NotContains(t, labels, LabelURL)
	assert.NotContains(t, labels, LabelVersion)

	// Only the two always-present labels plus vcs-ref remain.
	assert.Len(t, labels, 3)
	assert.Equal(t, "abc", labels[LabelVCSRef])
}

// TestBuildLabelsAt_Idempotent verifies identical output for identical
// inputs, including the frozen build date.
func TestBuildLabelsAt_Idempotent(t *testing.T) {
	facts := model.RepositoryFacts{
		CommitFull: "abc",
		RemoteURL:  model.StringOf("https://example.org/repo.git"),
	}
	cfg := &config.BuildConfig{Vendor: config.DefaultVendor}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, BuildLabelsAt(facts, cfg, at), BuildLabelsAt(facts, cfg, at))
}
