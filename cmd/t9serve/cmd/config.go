package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/t9serve/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or reset the configuration",
	Long:  "Shows the active config.toml and its values. The file is created with defaults on first run.",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the active config file path",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.GetActiveConfigPath(configPath))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Rewrite the config file with default values",
	Args:  usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.RebuildConfigFile(configFlag)
		if err != nil {
			return fmt.Errorf("failed to rebuild config: %w", err)
		}
		log.Debugf("Rebuilt config at %s", path)
		fmt.Println(path)
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Printf("# %s\n", config.GetActiveConfigPath(configPath))
	return toml.NewEncoder(os.Stdout).Encode(appConfig)
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
