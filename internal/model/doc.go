// Package model defines the domain types shared across the docker-build CLI:
// the immutable repository facts snapshot, optional string values, and the
// error/exit-code model used to translate failures into process exit codes.
package model
