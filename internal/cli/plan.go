// plan.go implements the "docker-build plan" command: a dry run that prints
// the tags, image references, and labels a build would produce, without
// touching Docker.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/52north/docker-build/internal/config"
	"github.com/52north/docker-build/internal/git"
	"github.com/52north/docker-build/internal/model"
	"github.com/52north/docker-build/internal/plan"
)

// planResult is the serializable dry-run output.
type planResult struct {
	Repository string            `json:"repository" yaml:"repository"`
	Tags       []string          `json:"tags" yaml:"tags"`
	Images     []string          `json:"images" yaml:"images"`
	Labels     map[string]string `json:"labels" yaml:"labels"`
	Push       bool              `json:"push" yaml:"push"`
	Prune      bool              `json:"prune" yaml:"prune"`
}

// NewPlanCommand creates the "plan" cobra command.
func NewPlanCommand() *cobra.Command {
	flags := &configFlags{}
	output := "text"

	cmd := &cobra.Command{
		Use:   "plan [repository-path]",
		Short: "Show the tags and labels a build would produce",
		Long: `Compute the image tags, full image references, and metadata labels for the
given repository without building anything. Useful for verifying CI tagging
policy before wiring it into a pipeline.

Examples:
  docker-build plan
  docker-build plan --version 2.1.0 --version-level major
  docker-build plan --output yaml ~/checkouts/sos`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runPlan(cfg, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text|json|yaml)")
	return cmd
}

// runPlan computes and prints the dry-run result.
func runPlan(cfg *config.BuildConfig, output string) error {
	facts, err := git.NewInspector(cfg.RepoPath).Facts()
	if err != nil {
		return err
	}
	if err := cfg.ResolveRepository(facts.RemoteURL); err != nil {
		return err
	}

	tags := plan.PlanTags(facts, cfg)
	if len(tags) == 0 {
		return model.NewCLIError(model.ExitConfigError,
			"no image tags could be determined — every tag source is disabled or absent")
	}

	result := planResult{
		Repository: plan.RepositoryRef(cfg.Registry, cfg.Repository),
		Tags:       tags,
		Images:     plan.ImageRefs(cfg.Registry, cfg.Repository, tags),
		Labels:     plan.BuildLabels(facts, cfg),
		Push:       cfg.Push,
		Prune:      cfg.Prune,
	}

	// The global --json flag wins over --output for consistency with the
	// rest of the CLI.
	if IsJSONOutput() {
		output = "json"
	}

	switch output {
	case "text":
		printPlanText(result)
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("invalid output format %q (valid: text, json, yaml)", output))
	}
	return nil
}

// printPlanText renders the plan as human-readable text.
func printPlanText(result planResult) {
	fmt.Printf("Image: %s\n", result.Repository)

	fmt.Println("\nTags:")
	for _, image := range result.Images {
		fmt.Printf("  %s\n", image)
	}

	fmt.Println("\nLabels:")
	for _, key := range sortedLabelKeys(result.Labels) {
		fmt.Printf("  %s=%s\n", key, result.Labels[key])
	}

	if result.Push || result.Prune {
		fmt.Println()
		if result.Push {
			fmt.Println("Push: all tags after building")
		}
		if result.Prune {
			fmt.Println("Prune: remove images after the run")
		}
	}
}

// sortedLabelKeys returns the label keys in ascending order for stable
// text output.
func sortedLabelKeys(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}
