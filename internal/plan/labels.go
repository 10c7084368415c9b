package plan

import (
	"time"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/model"
)

// Label key constants for the image metadata labels. The org.label-schema
// namespace follows the label-schema.org convention; "maintainer" is the
// classic Docker key that replaced the deprecated MAINTAINER instruction.
const (
	// LabelSchemaVersion is always present with the value "1.0".
	LabelSchemaVersion = "org.label-schema.schema-version"

	// LabelBuildDate is the UTC build timestamp, captured once per build.
	LabelBuildDate = "org.label-schema.build-date"

	// LabelVendor names the organization producing the image.
	LabelVendor = "org.label-schema.vendor"

	// LabelLicense names the license the image contents ship under.
	LabelLicense = "org.label-schema.license"

	// LabelVCSURL is the version-control URL the image was built from.
	LabelVCSURL = "org.label-schema.vcs-url"

	// LabelVCSRef is the full commit hash the image was built from.
	LabelVCSRef = "org.label-schema.vcs-ref"

	// LabelURL is the project homepage.
	LabelURL = "org.label-schema.url"

	// LabelVersion is the human-readable image version.
	LabelVersion = "org.label-schema.version"

	// LabelMaintainer identifies who maintains the image.
	LabelMaintainer = "maintainer"
)

// schemaVersion is the label-schema.org schema revision we emit.
const schemaVersion = "1.0"

// buildDateFormat renders timestamps as 2006-01-02T15:04:05Z. Equivalent to
// RFC 3339 at second precision for UTC times.
const buildDateFormat = "2006-01-02T15:04:05Z"

// BuildLabels assembles the image metadata labels, stamping the build date
// with the current UTC time. Call it once per invocation so every tag of
// the build shares a single timestamp.
func BuildLabels(facts model.RepositoryFacts, cfg *config.BuildConfig) map[string]string {
	return BuildLabelsAt(facts, cfg, time.Now())
}

// BuildLabelsAt is BuildLabels with an explicit build timestamp. A label is
// present iff its source chain produces a non-empty value:
//
//	vendor     ← config vendor
//	license    ← config license
//	vcs-url    ← remote URL
//	maintainer ← config maintainer, else committer
//	url        ← config url, else remote URL
//	vcs-ref    ← commit hash
//	version    ← config version, else exact Git tag
func BuildLabelsAt(facts model.RepositoryFacts, cfg *config.BuildConfig, buildDate time.Time) map[string]string {
	labels := map[string]string{
		LabelSchemaVersion: schemaVersion,
		LabelBuildDate:     buildDate.UTC().Format(buildDateFormat),
	}

	put := func(key, value string) {
		if value != "" {
			labels[key] = value
		}
	}

	put(LabelVendor, cfg.Vendor)
	put(LabelLicense, cfg.License)
	put(LabelVCSURL, facts.RemoteURL.Value())
	put(LabelMaintainer, firstNonEmpty(cfg.Maintainer, facts.Committer.Value()))
	put(LabelURL, firstNonEmpty(cfg.URL, facts.RemoteURL.Value()))
	put(LabelVCSRef, facts.CommitFull)
	put(LabelVersion, firstNonEmpty(cfg.Version, facts.ExactTag.Value()))

	return labels
}

// firstNonEmpty returns the first non-empty string, or "".
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
