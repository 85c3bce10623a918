package cmd

import (
	"github.com/bastiangx/t9serve/internal/logger"
	"github.com/bastiangx/t9serve/pkg/config"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configFlag  string
	debugFlag   bool
	backendFlag string

	appConfig  *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "t9serve",
	Short: "t9serve - keypad word prediction",
	Long: "Learns word frequencies from text corpora and maps phone keypad digit strings\n" +
		"to the words they can spell, ranked by how often each word was seen.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup runs before every command: logging first, then config, then flag overrides.
func setup(cmd *cobra.Command, args []string) error {
	logger.Setup(debugFlag)

	cfg, path, err := config.LoadConfigWithPriority(configFlag)
	if err != nil {
		return err
	}
	if backendFlag != "" {
		cfg.Index.Backend = backendFlag
	}
	if _, err := predict.ParseBackend(cfg.Index.Backend); err != nil {
		return usageError(err)
	}

	appConfig, configPath = cfg, path
	log.Debug("Config ready", "path", configPath, "backend", cfg.Index.Backend, "shards", cfg.Index.Shards)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config.toml (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "toggle debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "index backend: map or trie (default from config)")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
