// Package plan contains the pure core of docker-build: deriving the set of
// image tags from repository facts and configuration, and assembling the
// image metadata labels. Nothing in this package touches Git or Docker,
// which keeps the tag algebra testable in isolation.
package plan
