// Package build orchestrates the pipeline: plan tags, build labels, log in
// when credentials are present, run the single docker build, push, and
// prune. It owns the fatal-versus-best-effort decisions; the actual Git and
// Docker work lives behind injected collaborators.
package build
