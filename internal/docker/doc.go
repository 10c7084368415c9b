// Package docker implements the image builder collaborator: building and
// pushing images through the docker CLI, and querying/removing local images
// through the Docker Engine SDK.
//
// The split is deliberate. "docker build" through the SDK requires tarring
// the build context by hand and loses BuildKit progress output, so build,
// login, and push shell out to the CLI the user already has. Listing local
// images (for the repository-wide push shortcut) and removing them (prune)
// are clean API calls, so they go through the SDK client with automatic
// socket detection.
package docker
