// Package git implements the repository inspector: it extracts the
// point-in-time facts (branch, exact tag, commit, remote, committer) that
// drive tag planning and labeling. It uses go-git rather than shelling out,
// so the tool works without a git binary and the inspector stays injectable
// for testing.
package git
