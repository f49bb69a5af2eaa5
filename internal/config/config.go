package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mgpai22/bcutsrt/internal/workspace"
	"gopkg.in/yaml.v3"
)

// looked up in the working directory when no path is given
const DefaultFile = "bcutsrt.yaml"

const (
	EnvDraftsDir   = "BCUTSRT_DRAFTS_DIR"
	EnvWorkspace   = "BCUTSRT_WORKSPACE"
	EnvStrictTrack = "BCUTSRT_STRICT_TRACK"
)

// Config captures where drafts and the staging area live and how tracks are
// resolved.
type Config struct {
	// Bcut draft directory holding draftInfo.json
	DraftsDir string `yaml:"drafts_dir"`
	// root of input/, backup/ and completed/
	WorkspaceDir string `yaml:"workspace_dir"`
	// refuse to create a subtitle track in .json drafts
	StrictTrack bool `yaml:"strict_track"`
	Verbose     bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		DraftsDir:    workspace.DefaultDraftsDir(),
		WorkspaceDir: ".",
	}
}

// Load builds the configuration from defaults, the YAML file at path, .env
// files and the environment, in that order. An empty path reads DefaultFile
// if it exists. Without envFiles a .env in the working directory is loaded
// when present.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultFile
	}
	if err := cfg.readFile(path, optional); err != nil {
		return Config{}, err
	}

	if len(envFiles) == 0 {
		_ = godotenv.Load() // best-effort
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	cfg.DraftsDir = expandHome(cfg.DraftsDir)
	cfg.WorkspaceDir = expandHome(cfg.WorkspaceDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDraftsDir); ok && v != "" {
		c.DraftsDir = v
	}
	if v, ok := lookup(EnvWorkspace); ok && v != "" {
		c.WorkspaceDir = v
	}
	if v, ok := lookup(EnvStrictTrack); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvStrictTrack, v, err)
		}
		c.StrictTrack = strict
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.WorkspaceDir) == "" {
		return errors.New("workspace_dir must not be empty")
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
