package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/hbnb/internal/paths"
	"github.com/mesh-intelligence/hbnb/internal/store"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend  string `yaml:"backend"`
	LogLevel string `yaml:"log_level"`
	Prompt   string `yaml:"prompt"`
	DataDir  string `yaml:"data_dir,omitempty"`
}

const configHeader = "# hbnb configuration\n"

func newInitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize hbnb storage",
		Long:  "Create the configuration and data directories, then initialize the storage file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}
}

func runInit(cmd *cobra.Command, flags *rootFlags) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return userError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	// An explicit --data-dir is recorded so later runs find the same data.
	if err := writeConfigIfMissing(filepath.Join(configDir, configFileExt), flags.dataDir); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	s, err := resolveSettings(flags)
	if err != nil {
		return userError(err)
	}

	st := store.New(types.DefaultRegistry(), newLogger(cmd.ErrOrStderr(), s.logLevel))
	if err := st.Attach(s.store); err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := st.Save(); err != nil {
		st.Detach()
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := st.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "hbnb initialized (%s backend in %s)\n", s.store.Backend, s.store.DataDir)
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:  defaultBackend,
		LogLevel: defaultLogLevel,
		Prompt:   promptAlways,
		DataDir:  dataDir,
	}
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return err
		}
		cfg.DataDir = abs
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), data...), 0o644)
}
