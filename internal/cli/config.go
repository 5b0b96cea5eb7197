package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend  = "backend"
	cfgKeyDataDir  = "data_dir"
	cfgKeyLogLevel = "log_level"
	cfgKeyPrompt   = "prompt"

	envPrefix = "HBNB"

	defaultBackend  = types.BackendJSON
	defaultLogLevel = "warn"
)

// Prompt modes. always prompts on piped input as well as on a terminal.
const (
	promptAuto   = "auto"
	promptAlways = "always"
	promptNever  = "never"
)

// settings is the resolved configuration of one hbnb invocation.
type settings struct {
	configDir string
	store     types.Config
	logLevel  slog.Level
	prompt    string
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. A missing config.yaml is
// not an error. Backend, log level and prompt mode can be overridden by
// HBNB_BACKEND, HBNB_LOG_LEVEL and HBNB_PROMPT.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), ""); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyPrompt, promptAlways)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	// data_dir is not bound here: HBNB_DATA_DIR ranks below config.yaml and
	// is handled by paths.ResolveDataDir.
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyBackend, cfgKeyLogLevel, cfgKeyPrompt} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveSettings combines flags, config.yaml and the environment.
func resolveSettings(flags *rootFlags) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	s := &settings{
		configDir: configDir,
		store: types.Config{
			Backend: strings.ToLower(v.GetString(cfgKeyBackend)),
			DataDir: dataDir,
		},
		prompt: strings.ToLower(v.GetString(cfgKeyPrompt)),
	}
	if err := s.store.Validate(); err != nil {
		return nil, fmt.Errorf("backend %q: %w", s.store.Backend, err)
	}
	if err := s.logLevel.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	switch s.prompt {
	case promptAuto, promptAlways, promptNever:
	default:
		return nil, fmt.Errorf("prompt %q: want always, auto or never", s.prompt)
	}
	return s, nil
}

// newLogger returns a text logger on w filtered at level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
