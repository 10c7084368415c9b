package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names, one per command-line flag. CI systems set
// these job-wide so the docker-build invocation itself stays short.
const (
	EnvBuildArgs    = "DOCKER_BUILD_ARGS"
	EnvContext      = "DOCKER_BUILD_CONTEXT"
	EnvDockerfile   = "DOCKER_BUILD_DOCKERFILE"
	EnvLatest       = "DOCKER_BUILD_LATEST"
	EnvLatestBranch = "DOCKER_BUILD_LATEST_BRANCH"
	EnvLicense      = "DOCKER_BUILD_LICENSE"
	EnvMaintainer   = "DOCKER_BUILD_MAINTAINER"
	EnvPassword     = "DOCKER_BUILD_PASSWORD"
	EnvPrune        = "DOCKER_BUILD_PRUNE"
	EnvPull         = "DOCKER_BUILD_PULL"
	EnvPush         = "DOCKER_BUILD_PUSH"
	EnvVersionLevel = "DOCKER_BUILD_VERSION_LEVEL"
	EnvNoCommit     = "DOCKER_BUILD_NO_COMMIT"
	EnvNoBranch     = "DOCKER_BUILD_NO_BRANCH"
	EnvRepository   = "DOCKER_BUILD_REPOSITORY"
	EnvRegistry     = "DOCKER_BUILD_REGISTRY"
	EnvSuffix       = "DOCKER_BUILD_SUFFIX"
	EnvUsername     = "DOCKER_BUILD_USERNAME"
	EnvURL          = "DOCKER_BUILD_URL"
	EnvVersion      = "DOCKER_BUILD_VERSION"
	EnvVendor       = "DOCKER_BUILD_VENDOR"
)

// LoadDotEnv loads the first of .env, .env.local into the process
// environment. Variables already set in the real environment are never
// overridden (godotenv.Load semantics). A missing file is fine.
func LoadDotEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if err := godotenv.Load(name); err == nil {
			return
		}
	}
}

// EnvString returns the value of key, or "" when unset.
func EnvString(key string) string {
	return os.Getenv(key)
}

// EnvBool interprets the value of key as a boolean flag. Only "true" and
// "1" (case-insensitive) count as set; everything else, including unset,
// is false.
func EnvBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1":
		return true
	default:
		return false
	}
}

// EnvList splits a comma-separated environment value into its non-empty
// elements. Used for DOCKER_BUILD_ARGS, where a single variable has to
// carry a repeatable flag.
func EnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
