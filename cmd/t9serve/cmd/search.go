package cmd

import (
	"fmt"
	"os"

	"github.com/bastiangx/t9serve/internal/cli"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	searchLimit  int
	searchCounts bool
)

var searchCmd = &cobra.Command{
	Use:   "search <corpus> <digits>",
	Short: "Train on a corpus and look up one digit string",
	Long: "Trains on the corpus file and prints the words the digit string spells\n" +
		"exactly, then the longer words it is a prefix of, each ranked by count.\n" +
		"Exits 1 when nothing matches and 2 on a usage error.",
	Example: "  t9serve search corpus.txt 228",
	Args:    usageArgs(cobra.ExactArgs(2)),
	RunE:    runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", -1, "max words per bucket (default from config, 0 = all)")
	searchCmd.Flags().BoolVarP(&searchCounts, "counts", "c", false, "show occurrence counts")
}

// usageArgs maps argument validation failures to exit code 2.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(fmt.Errorf("%w\nusage: %s", err, cmd.UseLine()))
		}
		return nil
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	corpusPath, digits := args[0], args[1]
	if err := keypad.ValidateQuery(digits); err != nil {
		return usageError(err)
	}

	paths, err := corpusPaths([]string{corpusPath})
	if err != nil {
		return err
	}
	p, err := buildPredictor(cmd.Context(), paths)
	if err != nil {
		return err
	}

	presenter := cli.NewPresenter(os.Stdout)
	presenter.ShowCounts = searchCounts || appConfig.CLI.ShowCounts
	presenter.Color = appConfig.CLI.Color
	presenter.Limit = appConfig.CLI.DefaultLimit
	if searchLimit >= 0 {
		presenter.Limit = searchLimit
	}

	res, found := p.Search(digits)
	log.Debug("Searched", "digits", digits, "exact", len(res.Exact), "prefix", len(res.Prefix))
	if err := presenter.Render(digits, res, found); err != nil {
		return err
	}
	if !found {
		return errNoMatch
	}
	return nil
}
