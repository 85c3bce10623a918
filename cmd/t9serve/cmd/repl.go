package cmd

import (
	"os"

	"github.com/bastiangx/t9serve/internal/cli"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl [corpus...]",
	Short: "Interactive prompt for testing lookups",
	Long: "Trains once on the given corpora (or [corpus] paths from the config) and then\n" +
		"answers digit strings typed on stdin. Mainly for testing and debugging.",
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	paths, err := corpusPaths(args)
	if err != nil {
		return err
	}
	p, err := buildPredictor(cmd.Context(), paths)
	if err != nil {
		return err
	}

	// the prompt draws with log.Print; no timestamps on it
	log.SetReportTimestamp(false)

	presenter := cli.NewPresenter(os.Stdout)
	presenter.ShowCounts = appConfig.CLI.ShowCounts
	presenter.Color = appConfig.CLI.Color
	presenter.Limit = appConfig.CLI.DefaultLimit

	handler := cli.NewInputHandler(p, presenter, appConfig.CLI.MaxDigits)
	if err := handler.Start(os.Stdin); err != nil {
		return err
	}
	log.Debugf("Prompt closed after %d queries", handler.Queries())
	return nil
}
