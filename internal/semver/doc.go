// Package semver classifies and parses the version-like strings that drive
// tag expansion.
//
// The accepted grammar is intentionally looser than SemVer 2.0.0: an optional
// leading "v", one or more dot-separated numeric groups (so "1" and "1.2" are
// valid, with missing components defaulting to zero), and an optional
// pre-release label introduced by the first dash. Strict SemVer libraries
// reject or renormalize these short forms, which is why this package exists.
package semver
