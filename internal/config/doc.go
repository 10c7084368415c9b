// Package config defines the immutable build configuration and its
// resolution chain: command-line flags take precedence over DOCKER_BUILD_*
// environment variables, which take precedence over an optional
// .docker-build.json defaults file (JSONC), which takes precedence over
// built-in defaults.
package config
