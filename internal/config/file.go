package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/52north/docker-build/internal/model"
)

// DefaultsFileName is the optional per-project defaults file, looked up in
// the working directory. The file is JSONC, so it may carry comments.
const DefaultsFileName = ".docker-build.json"

// FileConfig holds the defaults a project can commit alongside its
// Dockerfile. Only string-valued settings are supported here; behavioral
// switches (push, prune, latest, ...) stay on the command line and in the
// environment, where CI pipelines control them per job.
type FileConfig struct {
	Registry     string   `json:"registry,omitempty"`
	Repository   string   `json:"repository,omitempty"`
	Vendor       string   `json:"vendor,omitempty"`
	License      string   `json:"license,omitempty"`
	Maintainer   string   `json:"maintainer,omitempty"`
	URL          string   `json:"url,omitempty"`
	Suffix       string   `json:"suffix,omitempty"`
	VersionLevel string   `json:"versionLevel,omitempty"`
	Dockerfile   string   `json:"dockerfile,omitempty"`
	Context      string   `json:"context,omitempty"`
	BuildArgs    []string `json:"buildArgs,omitempty"`
}

// LoadFile reads the defaults file from dir. A missing file is not an error;
// the returned config is simply empty. A present but malformed file is a
// configuration error, since silently ignoring it would be confusing.
func LoadFile(dir string) (*FileConfig, error) {
	path := filepath.Join(dir, DefaultsFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileConfig{}, nil
		}
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	// jsonc.ToJSON strips comments and trailing commas, after which the
	// content is plain JSON.
	var cfg FileConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", path), err)
	}

	if cfg.VersionLevel != "" {
		if _, err := ParseVersionLevel(cfg.VersionLevel); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
