// flags.go defines the shared configuration flag set used by the build and
// plan commands, and the resolution of flag, environment, and defaults-file
// values into one immutable BuildConfig.
package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/model"
)

// configFlags holds the raw flag values before resolution. Both subcommands
// register the identical set, so a pipeline can switch between "plan" and
// "build" without touching its arguments.
type configFlags struct {
	buildArgs    []string
	context      string
	dockerfile   string
	latest       bool
	latestBranch string
	license      string
	maintainer   string
	password     string
	prune        bool
	pull         bool
	push         bool
	versionLevel string
	noCommit     bool
	noBranch     bool
	repository   string
	registry     string
	suffix       string
	username     string
	url          string
	version      string
	vendor       string
}

// register binds the configuration flags to cmd. Defaults shown in help are
// the built-in ones; environment and defaults-file values apply during
// resolve, so an unset flag does not mask them.
func (f *configFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringArrayVar(&f.buildArgs, "build-arg", nil, "Build argument KEY=VALUE passed to docker build (repeatable)")
	flags.StringVar(&f.context, "context", "", "Docker build context path (default: repository path)")
	flags.StringVarP(&f.dockerfile, "file", "f", config.DefaultDockerfile, "Path to the Dockerfile")
	flags.BoolVar(&f.latest, "latest", false, "Always tag the image as latest")
	flags.StringVar(&f.latestBranch, "latest-branch", "", "Branch that gets the latest tag when checked out")
	flags.StringVar(&f.license, "license", "", "License label value")
	flags.StringVar(&f.maintainer, "maintainer", "", "Maintainer label value (default: committer of HEAD)")
	flags.StringVar(&f.password, "password", "", "Registry password")
	flags.BoolVar(&f.prune, "prune", false, "Remove the built images locally after the run")
	flags.BoolVar(&f.pull, "pull", false, "Always attempt to pull newer base images")
	flags.BoolVar(&f.push, "push", false, "Push all tags to the registry after building")
	flags.StringVar(&f.versionLevel, "version-level", config.DefaultVersionLevel.String(), "Rollup ceiling for version tags (major|minor|patch)")
	flags.BoolVar(&f.noCommit, "no-commit", false, "Do not tag with the commit hashes")
	flags.BoolVar(&f.noBranch, "no-branch", false, "Do not tag with the branch name")
	flags.StringVar(&f.repository, "repository", "", "Image repository name (default: derived from remote or directory)")
	flags.StringVar(&f.registry, "registry", config.DefaultRegistry, "Registry host the image name is composed with")
	flags.StringVar(&f.suffix, "suffix", "", "Suffix appended to every tag (e.g. alpine)")
	flags.StringVar(&f.username, "username", "", "Registry username")
	flags.StringVar(&f.url, "url", "", "Project URL label value (default: remote URL)")
	flags.StringVar(&f.version, "version", "", "Version to tag the image with (expanded like an exact Git tag)")
	flags.StringVar(&f.vendor, "vendor", config.DefaultVendor, "Vendor label value")
}

// resolve merges flag, environment, defaults-file, and built-in values into
// a validated BuildConfig. Precedence per setting: an explicitly set flag
// wins, then the DOCKER_BUILD_* variable, then .docker-build.json, then the
// built-in default carried by the flag.
func (f *configFlags) resolve(cmd *cobra.Command, args []string) (*config.BuildConfig, error) {
	// .env values become regular environment variables, without
	// overriding anything the caller exported.
	config.LoadDotEnv()

	file, err := config.LoadFile(".")
	if err != nil {
		return nil, err
	}

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}
	repoPath, err = filepath.Abs(repoPath)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError, "failed to resolve repository path", err)
	}

	changed := cmd.Flags().Changed

	str := func(name, flagVal, envKey, fileVal string) string {
		if changed(name) {
			return flagVal
		}
		if v := config.EnvString(envKey); v != "" {
			return v
		}
		if fileVal != "" {
			return fileVal
		}
		return flagVal
	}
	boolean := func(name string, flagVal bool, envKey string) bool {
		if changed(name) {
			return flagVal
		}
		if config.EnvString(envKey) != "" {
			return config.EnvBool(envKey)
		}
		return flagVal
	}

	buildArgs := f.buildArgs
	if !changed("build-arg") {
		if envArgs := config.EnvList(config.EnvBuildArgs); envArgs != nil {
			buildArgs = envArgs
		} else if len(file.BuildArgs) > 0 {
			buildArgs = file.BuildArgs
		}
	}

	level, err := config.ParseVersionLevel(
		str("version-level", f.versionLevel, config.EnvVersionLevel, file.VersionLevel))
	if err != nil {
		return nil, err
	}

	cfg := &config.BuildConfig{
		RepoPath:     repoPath,
		Context:      str("context", f.context, config.EnvContext, file.Context),
		Dockerfile:   str("file", f.dockerfile, config.EnvDockerfile, file.Dockerfile),
		BuildArgs:    buildArgs,
		Latest:       boolean("latest", f.latest, config.EnvLatest),
		LatestBranch: str("latest-branch", f.latestBranch, config.EnvLatestBranch, ""),
		NoCommit:     boolean("no-commit", f.noCommit, config.EnvNoCommit),
		NoBranch:     boolean("no-branch", f.noBranch, config.EnvNoBranch),
		VersionLevel: level,
		TagSuffix:    str("suffix", f.suffix, config.EnvSuffix, file.Suffix),
		Version:      str("version", f.version, config.EnvVersion, ""),
		Vendor:       str("vendor", f.vendor, config.EnvVendor, file.Vendor),
		License:      str("license", f.license, config.EnvLicense, file.License),
		Maintainer:   str("maintainer", f.maintainer, config.EnvMaintainer, file.Maintainer),
		URL:          str("url", f.url, config.EnvURL, file.URL),
		Registry:     str("registry", f.registry, config.EnvRegistry, file.Registry),
		Repository:   str("repository", f.repository, config.EnvRepository, file.Repository),
		Username:     str("username", f.username, config.EnvUsername, ""),
		Password:     str("password", f.password, config.EnvPassword, ""),
		Pull:         boolean("pull", f.pull, config.EnvPull),
		Push:         boolean("push", f.push, config.EnvPush),
		Prune:        boolean("prune", f.prune, config.EnvPrune),
	}

	// The build context defaults to the repository itself.
	if cfg.Context == "" {
		cfg.Context = repoPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
