// Package config holds the CoDoc configuration, loaded with viper from
// an optional config.yaml, environment variables and a local .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LLMConfig selects and tunes the language-model provider.
type LLMConfig struct {
	// Provider is "groq" or "ollama".
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	// BaseURL overrides the provider endpoint (Groq API root or Ollama host).
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
}

// AnalysisConfig defines the analysis parameters.
type AnalysisConfig struct {
	MaxExplorationIterations int   `mapstructure:"max_exploration_iterations"`
	MaxDirectoryDepth        int   `mapstructure:"max_directory_depth"`
	MaxFileReadSize          int64 `mapstructure:"max_file_read_size"`
	MaxPromptLength          int   `mapstructure:"max_prompt_length"`
	MaxFileRetryAttempts     int   `mapstructure:"max_file_retry_attempts"`
}

// ExplorerConfig defines what the project explorer skips.
type ExplorerConfig struct {
	IgnoreDirs       []string `mapstructure:"ignore_dirs"`
	IgnorePrefixes   []string `mapstructure:"ignore_prefixes"`
	IgnoreExtensions []string `mapstructure:"ignore_extensions"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig defines the serve-mode configuration.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CacheConfig defines the analysis result cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// GitHubConfig defines the GitHub API client configuration.
type GitHubConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Config is the top-level configuration struct.
type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Server   ServerConfig   `mapstructure:"server"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "groq",
			Model:          "llama-3.1-8b-instant",
			BaseURL:        "",
			TimeoutSeconds: 60,
			MaxTokens:      2000,
			Temperature:    0.3,
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
		Analysis: AnalysisConfig{
			MaxExplorationIterations: 3,
			MaxDirectoryDepth:        4,
			MaxFileReadSize:          100 * 1024,
			MaxPromptLength:          24000,
			MaxFileRetryAttempts:     3,
		},
		Explorer: ExplorerConfig{
			IgnoreDirs: []string{
				".git", "node_modules", "vendor", "dist", "build",
				"__pycache__", ".idea", ".vscode", "target",
			},
			IgnorePrefixes: []string{"."},
			IgnoreExtensions: []string{
				".png", ".jpg", ".jpeg", ".gif", ".ico", ".pdf",
				".zip", ".tar", ".gz", ".exe", ".bin", ".so", ".dylib",
				".lock", ".sum",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Server: ServerConfig{Port: 8080},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(ConfigDir(), "cache.db"),
		},
	}
}

// SetDefaults registers the built-in defaults with viper.
func SetDefaults() {
	d := Default()

	viper.SetDefault("llm.provider", d.LLM.Provider)
	viper.SetDefault("llm.model", d.LLM.Model)
	viper.SetDefault("llm.base_url", d.LLM.BaseURL)
	viper.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)
	viper.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	viper.SetDefault("llm.temperature", d.LLM.Temperature)

	viper.SetDefault("github.base_url", d.GitHub.BaseURL)

	viper.SetDefault("analysis.max_exploration_iterations", d.Analysis.MaxExplorationIterations)
	viper.SetDefault("analysis.max_directory_depth", d.Analysis.MaxDirectoryDepth)
	viper.SetDefault("analysis.max_file_read_size", d.Analysis.MaxFileReadSize)
	viper.SetDefault("analysis.max_prompt_length", d.Analysis.MaxPromptLength)
	viper.SetDefault("analysis.max_file_retry_attempts", d.Analysis.MaxFileRetryAttempts)

	viper.SetDefault("explorer.ignore_dirs", d.Explorer.IgnoreDirs)
	viper.SetDefault("explorer.ignore_prefixes", d.Explorer.IgnorePrefixes)
	viper.SetDefault("explorer.ignore_extensions", d.Explorer.IgnoreExtensions)

	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
	viper.SetDefault("logging.output", d.Logging.Output)

	viper.SetDefault("server.port", d.Server.Port)

	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.path", d.Cache.Path)
}

// Init wires viper up: .env, defaults, config file and CODOC_* env vars.
// The config file is optional; a missing file is not an error.
func Init(cfgFile string) error {
	// A .env in the working directory feeds GROQ_API_KEY / GITHUB_TOKEN
	// without shell exports.
	_ = godotenv.Load()

	SetDefaults()

	viper.SetEnvPrefix("CODOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ConfigDir())
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load reads the configuration from viper into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the tool cannot work with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "groq", "ollama":
	default:
		return fmt.Errorf("llm.provider must be \"groq\" or \"ollama\", got %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if c.Analysis.MaxPromptLength <= 0 {
		return fmt.Errorf("analysis.max_prompt_length must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}

// ConfigDir returns the per-user config directory for codoc.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codoc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codoc"
	}
	return filepath.Join(home, ".config", "codoc")
}
