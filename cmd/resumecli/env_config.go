package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-resumecli/internal/config"
	"github.com/alnah/go-resumecli/internal/hints"
)

// Environment variable names. RESUME_SOURCE_FILE and RESUME_TEMPLATE keep
// the names the hosted renderer used, so existing setups work unchanged.
const (
	envSourceFile = "RESUME_SOURCE_FILE"
	envTemplate   = "RESUME_TEMPLATE"

	envPrefix     = "RESUMECLI_"
	envConfigPath = "RESUMECLI_CONFIG"
	envAddr       = "RESUMECLI_ADDR"
	envAssetPath  = "RESUMECLI_ASSET_PATH"
	envLogLevel   = "RESUMECLI_LOG_LEVEL"
	envLogFormat  = "RESUMECLI_LOG_FORMAT"
	envTimeout    = "RESUMECLI_TIMEOUT"
	envPageSize   = "RESUMECLI_PAGE_SIZE"
	envWorkers    = "RESUMECLI_WORKERS"
	envContainer  = hints.ContainerEnv
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // RESUMECLI_CONFIG
	Source     string // RESUME_SOURCE_FILE
	Template   string // RESUME_TEMPLATE
	Addr       string // RESUMECLI_ADDR
	AssetPath  string // RESUMECLI_ASSET_PATH
	LogLevel   string // RESUMECLI_LOG_LEVEL
	LogFormat  string // RESUMECLI_LOG_FORMAT
	Timeout    string // RESUMECLI_TIMEOUT
	PageSize   string // RESUMECLI_PAGE_SIZE
	Workers    int    // RESUMECLI_WORKERS
}

// knownEnvVars lists valid RESUMECLI_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath: true,
	envAddr:       true,
	envAssetPath:  true,
	envLogLevel:   true,
	envLogFormat:  true,
	envTimeout:    true,
	envPageSize:   true,
	envWorkers:    true,
	envContainer:  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv(envConfigPath),
		Source:     os.Getenv(envSourceFile),
		Template:   os.Getenv(envTemplate),
		Addr:       os.Getenv(envAddr),
		AssetPath:  os.Getenv(envAssetPath),
		LogLevel:   os.Getenv(envLogLevel),
		LogFormat:  os.Getenv(envLogFormat),
		Timeout:    os.Getenv(envTimeout),
		PageSize:   os.Getenv(envPageSize),
	}

	if workers := os.Getenv(envWorkers); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for every unrecognized RESUMECLI_*
// variable, catching typos like RESUMECLI_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig layers environment values over the config file.
// Priority: CLI flags > env vars > config file > defaults; flags are
// applied afterwards by the command.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Source != "" {
		cfg.Source = env.Source
	}
	if env.Template != "" {
		cfg.Template = env.Template
	}
	if env.Addr != "" {
		cfg.Preview.Addr = env.Addr
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
