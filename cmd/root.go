package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/clientbook/internal/app"
	"github.com/zjrosen/clientbook/internal/config"
	"github.com/zjrosen/clientbook/internal/log"
)

func init() {
	// Query the terminal background before Bubble Tea owns stdin so the
	// OSC 11 reply does not leak into text inputs.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

const envPrefix = "CLIENTBOOK"

var (
	version        = "dev"
	cfgFile        string
	configFilePath string
	dataDir        string
	backendName    string
	debugFlag      bool
	cfg            config.Config
	logCleanup     func()
)

var rootCmd = &cobra.Command{
	Use:   "clientbook",
	Short: "A terminal client registry",
	Long: `A terminal user interface for registering business clients: list, search,
create, edit and delete records identified by their tax id.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runApp,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/clientbook/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "",
		"directory holding the client data (default: ~/.clientbook)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "",
		`storage backend: "file", "sqlite" or "memory"`)
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log to the data directory (or set CLIENTBOOK_DEBUG)")
	rootCmd.Flags().Bool("no-auto-refresh", false,
		"disable automatic reload when the data file changes")
}

// resolveConfigPath picks the config file. Lookup order:
//  1. --config
//  2. .clientbook/config.yaml (current directory)
//  3. ~/.config/clientbook/config.yaml
func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if _, err := os.Stat(filepath.Join(".clientbook", "config.yaml")); err == nil {
		return filepath.Join(".clientbook", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".clientbook", "config.yaml")
	}
	return filepath.Join(home, ".config", "clientbook", "config.yaml")
}

func newViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	defaults := config.Defaults()
	v.SetDefault("storage.backend", defaults.Storage.Backend)
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("storage.cache_ttl", defaults.Storage.CacheTTL)
	v.SetDefault("auto_refresh", defaults.AutoRefresh)
	v.SetDefault("ui.notification_timeout", defaults.UI.NotificationTimeout)
	v.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	v.SetDefault("ui.date_format", defaults.UI.DateFormat)
	v.SetDefault("validation.trim_required", defaults.Validation.TrimRequired)
	v.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	v.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	v.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if f := cmd.Flag("data"); f != nil {
		_ = v.BindPFlag("storage.dir", f)
	}
	if f := cmd.Flag("backend"); f != nil {
		_ = v.BindPFlag("storage.backend", f)
	}
	return v
}

// loadConfig reads the config file, writing the commented default on first
// run, then applies env and flag overrides and validates the result.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	v := newViper(cmd)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		// Continue with defaults when the file cannot be written.
		if writeErr := config.WriteDefaultConfig(path); writeErr == nil {
			_ = v.ReadInConfig()
		}
	}

	var loaded config.Config
	if err := v.Unmarshal(&loaded); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	configFilePath = path

	return initDebugLog()
}

func initDebugLog() error {
	if !debugFlag && os.Getenv(envPrefix+"_DEBUG") == "" {
		return nil
	}
	if logCleanup != nil {
		return nil
	}
	dir := cfg.DataDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	logPath := filepath.Join(dir, "debug.log")
	cleanup, err := log.Init(logPath)
	if err != nil {
		return fmt.Errorf("initializing debug log: %w", err)
	}
	logCleanup = cleanup
	log.Info(log.CatConfig, "clientbook starting", "version", version, "config", configFilePath,
		"backend", cfg.Storage.Backend, "dataDir", dir)
	return nil
}

func runApp(cmd *cobra.Command, _ []string) error {
	if noAutoRefresh, _ := cmd.Flags().GetBool("no-auto-refresh"); noAutoRefresh {
		cfg.AutoRefresh = false
	}

	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	zone.NewGlobal()
	model := app.New(app.Options{
		Store:     b.store,
		Config:    cfg,
		WatchPath: b.watchPath,
		Cache:     b.cached,
	})
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
