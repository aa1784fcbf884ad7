package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ProviderConfig holds connection details for the hosted retrieval provider.
// The API key itself is never stored here; APIKeyEnv only names the variable
// used to prefill the key prompt.
type ProviderConfig struct {
	BaseURL     string `yaml:"base_url" toml:"base_url" validate:"required,url"`
	APIKeyEnv   string `yaml:"api_key_env" toml:"api_key_env"`
	Model       string `yaml:"model" toml:"model" validate:"required"`
	TimeoutSecs int    `yaml:"timeout_secs" toml:"timeout_secs" validate:"gte=0"`
}

// KnowledgeBaseConfig controls how remote collections are named and managed.
type KnowledgeBaseConfig struct {
	NamePrefix       string `yaml:"name_prefix" toml:"name_prefix" validate:"required"`
	DeleteOnReset    bool   `yaml:"delete_on_reset" toml:"delete_on_reset"`
	WaitForIndexing  bool   `yaml:"wait_for_indexing" toml:"wait_for_indexing"`
	PollIntervalMs   int    `yaml:"poll_interval_ms" toml:"poll_interval_ms" validate:"gt=0"`
	IndexTimeoutSecs int    `yaml:"index_timeout_secs" toml:"index_timeout_secs" validate:"gt=0"`
}

// IngestConfig configures transient file handling during uploads.
type IngestConfig struct {
	TempDir string `yaml:"temp_dir" toml:"temp_dir"`
}

// UIConfig configures the terminal front end.
type UIConfig struct {
	MarkdownStyle string `yaml:"markdown_style" toml:"markdown_style"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Path  string `yaml:"path" toml:"path"`
	Level string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Provider      ProviderConfig      `yaml:"provider" toml:"provider"`
	KnowledgeBase KnowledgeBaseConfig `yaml:"knowledge_base" toml:"knowledge_base"`
	Ingest        IngestConfig        `yaml:"ingest" toml:"ingest"`
	UI            UIConfig            `yaml:"ui" toml:"ui"`
	Log           LogConfig           `yaml:"log" toml:"log"`
}

// Timeout returns the provider client timeout; zero keeps the client default.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// APIKey reads the key from the configured environment variable, if any.
func (c ProviderConfig) APIKey() string {
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

func (c KnowledgeBaseConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c KnowledgeBaseConfig) IndexTimeout() time.Duration {
	return time.Duration(c.IndexTimeoutSecs) * time.Second
}

// Load reads a config from a specified path. Files ending in .toml are read
// as TOML, everything else as YAML. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if isTOML(path) {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks a config after defaults have been applied.
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadDefault tries ./config.yaml first, then ~/.config/docchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/docchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(cfg); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	dir, err := defaultUserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultUserDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docchat"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Provider.Model == "" {
		cfg.Provider.Model = "gpt-4o-mini"
	}
	if cfg.KnowledgeBase.NamePrefix == "" {
		cfg.KnowledgeBase.NamePrefix = "knowledge_base_"
	}
	if cfg.KnowledgeBase.PollIntervalMs == 0 {
		cfg.KnowledgeBase.PollIntervalMs = 1000
	}
	if cfg.KnowledgeBase.IndexTimeoutSecs == 0 {
		cfg.KnowledgeBase.IndexTimeoutSecs = 60
	}
	if cfg.UI.MarkdownStyle == "" {
		cfg.UI.MarkdownStyle = "dark"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Path == "" {
		if dir, err := defaultUserDir(); err == nil {
			cfg.Log.Path = filepath.Join(dir, "docchat.log")
		} else {
			cfg.Log.Path = filepath.Join(os.TempDir(), "docchat.log")
		}
	}
}
