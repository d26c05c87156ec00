package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	serverURL string
	cachePath string
	redisURL  string
	logLevel  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ecourts-console",
	Short: "Terminal-first case review client for the eCourts backend",
	Long: `ecourts-console is a terminal client for a law-firm case-management
backend. It fetches the case list from the server, filters it client-side,
and drives bulk review and calendar actions over the server API.

Features:
- Tabbed case views (all, petitioner, respondent, unassigned, upcoming, reviewed, changed)
- Client-side text, date-range and advanced filtering
- Bulk mark-reviewed / remove-from-reviewed actions
- Calendar event creation and deletion for selected cases
- Local snapshot cache for offline browsing
- Optional Redis-based refresh notifications between consoles`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ecourts-console.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "eCourts backend base URL")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "./data/ecourts-console.db", "Local snapshot cache path")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis URL for refresh notifications (empty disables)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	// Bind flags to viper
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("cache.path", rootCmd.PersistentFlags().Lookup("cache"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ecourts-console" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ecourts-console")
	}

	viper.SetEnvPrefix("ECOURTS")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in and keep watching it.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		viper.OnConfigChange(func(e fsnotify.Event) {
			fmt.Fprintln(os.Stderr, "Config file changed:", e.Name)
		})
		viper.WatchConfig()
	}

	// Set defaults
	viper.SetDefault("server.url", "http://localhost:5000")
	viper.SetDefault("cache.path", "./data/ecourts-console.db")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("notify.max_visible", 5)
	viper.SetDefault("ui.theme", "dark")
}

// Config represents the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
	Notify NotifyConfig `mapstructure:"notify"`
	UI     UIConfig     `mapstructure:"ui"`
}

type ServerConfig struct {
	URL string `mapstructure:"url"`
}

type CacheConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type NotifyConfig struct {
	MaxVisible int `mapstructure:"max_visible"`
}

type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// Validate checks the configuration before any command runs against it.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.URL, validation.Required, is.URL),
	); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validation.ValidateStruct(&c.Notify,
		// Required keeps the bounds from being skipped on the zero value.
		validation.Field(&c.Notify.MaxVisible, validation.Required, validation.Min(1), validation.Max(20)),
	); err != nil {
		return fmt.Errorf("notify config: %w", err)
	}
	if err := validation.ValidateStruct(&c.UI,
		validation.Field(&c.UI.Theme, validation.In("dark", "light")),
	); err != nil {
		return fmt.Errorf("ui config: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration values
func GetConfig() (Config, error) {
	cfg := Config{
		Server: ServerConfig{URL: viper.GetString("server.url")},
		Cache:  CacheConfig{Path: viper.GetString("cache.path")},
		Redis:  RedisConfig{URL: viper.GetString("redis.url")},
		Log:    LogConfig{Level: viper.GetString("log.level")},
		Notify: NotifyConfig{MaxVisible: viper.GetInt("notify.max_visible")},
		UI:     UIConfig{Theme: viper.GetString("ui.theme")},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
