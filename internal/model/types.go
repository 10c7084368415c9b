package model

import "fmt"

// OptionalString is an explicit present/absent string value.
//
// Repository facts distinguish "no exact tag at this commit" from "an exact
// tag that happens to be empty", so the usual empty-string-as-null trick is
// not good enough. The zero value is absent.
type OptionalString struct {
	value   string
	present bool
}

// StringOf returns a present OptionalString holding v.
func StringOf(v string) OptionalString {
	return OptionalString{value: v, present: true}
}

// NoString returns an absent OptionalString. Equivalent to the zero value;
// the constructor exists for readable call sites.
func NoString() OptionalString {
	return OptionalString{}
}

// Present reports whether a value is set.
func (o OptionalString) Present() bool {
	return o.present
}

// Value returns the held string, or "" when absent.
func (o OptionalString) Value() string {
	return o.value
}

// Get returns the held string and whether it is present,
// in the comma-ok style of map lookups.
func (o OptionalString) Get() (string, bool) {
	return o.value, o.present
}

// OrElse returns the held string when present, otherwise def.
func (o OptionalString) OrElse(def string) string {
	if o.present {
		return o.value
	}
	return def
}

// RepositoryFacts is a read-only snapshot of the Git repository state for a
// single invocation, supplied by the repository inspector. Commit hashes are
// always available for a non-empty repository; everything else may be absent
// (detached HEAD has no branch, most commits carry no exact tag, a local-only
// repository has no remote).
type RepositoryFacts struct {
	// Branch is the current branch name, absent on detached HEAD.
	Branch OptionalString

	// ExactTag is a tag pointing exactly at HEAD, absent otherwise.
	ExactTag OptionalString

	// CommitFull is the full 40-character commit hash of HEAD.
	CommitFull string

	// CommitShort is the abbreviated commit hash of HEAD.
	CommitShort string

	// RemoteURL is the URL of the "origin" remote, absent without one.
	RemoteURL OptionalString

	// Committer is the committer of HEAD in "Name <email>" form.
	Committer OptionalString
}

// ExitCode defines the CLI exit codes. These allow CI pipelines to
// distinguish configuration mistakes from external tool failures.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates invalid configuration: bad version level,
	// missing repository path, unresolved repository name, or an empty
	// planned tag set.
	ExitConfigError ExitCode = 2

	// ExitGitError indicates the repository inspector failed: the path is
	// not a Git repository or its state could not be read.
	ExitGitError ExitCode = 3

	// ExitDockerError indicates a Docker operation (build, login, push,
	// remove) failed or the daemon is not reachable.
	ExitDockerError ExitCode = 4
)

// CLIError is an error carrying an exit code, so the CLI layer can translate
// domain failures into process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
