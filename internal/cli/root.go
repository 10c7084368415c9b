// Package cli implements the cobra-based commands for docker-build.
//
// The root command only provides help text and global flags; the actual
// work happens in the "build" and "plan" subcommands defined in their own
// files within this package.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/52north/docker-build/internal/model"
)

// Global flag variables shared across all subcommands. These are bound to
// cobra persistent flags on the root command, which makes them available
// to every subcommand automatically.
var (
	// jsonOutput switches command output to JSON for machine consumption.
	jsonOutput bool

	// verbose enables detailed progress output on stderr.
	verbose bool
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docker-build",
		Short: "Build and tag Docker images from Git repository state",
		Long: `docker-build derives a deterministic set of image tags from the state of a
Git repository — branch, exact tag, commit hash, and semantic version — and
runs a single docker build producing all of them, with label-schema metadata
labels filled in from the repository and configuration.

Every option can also be set through a DOCKER_BUILD_* environment variable
or a .docker-build.json defaults file next to the working directory.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewBuildCommand())
	rootCmd.AddCommand(NewPlanCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes. It inspects errors
// returned by cobra commands and translates them into OS exit codes:
// CLIError types carry their own code, everything else exits 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		// errors.As rather than a type assertion, so a CLIError wrapped
		// somewhere along the way still carries its exit code out.
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
func IsJSONOutput() bool {
	return jsonOutput
}
