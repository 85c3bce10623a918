package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/bastiangx/t9serve/internal/utils"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/cheynewallace/tabby"
	"github.com/spf13/cobra"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats [corpus...]",
	Short: "Train and print index statistics with the most frequent words",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "number of top words to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	paths, err := corpusPaths(args)
	if err != nil {
		return err
	}
	p, err := buildPredictor(cmd.Context(), paths)
	if err != nil {
		return err
	}

	stats := p.Stats()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	summary := tabby.NewCustom(w)
	summary.AddHeader("Files", "Backend", "Words", "Tokens", "Keys", "Max count")
	summary.AddLine(len(paths), p.Backend(),
		utils.FormatWithCommas(stats["words"]),
		utils.FormatWithCommas(stats["tokens"]),
		utils.FormatWithCommas(stats["keys"]),
		utils.FormatWithCommas(stats["maxCount"]))
	summary.Print()

	if statsTop <= 0 {
		return nil
	}
	fmt.Println()
	top := tabby.NewCustom(tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0))
	top.AddHeader("Rank", "Word", "Digits", "Count")
	for i, m := range topWords(p, statsTop) {
		code, err := keypad.Encode(m.Word)
		if err != nil {
			return err
		}
		top.AddLine(i+1, m.Word, code, utils.FormatWithCommas(m.Count))
	}
	top.Print()
	return nil
}

// topWords returns the n most frequent words, ties broken alphabetically.
func topWords(p *predict.Predictor, n int) []predict.Match {
	counts := p.Counts()
	matches := make([]predict.Match, 0, len(counts))
	for w, c := range counts {
		matches = append(matches, predict.Match{Word: w, Count: c})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Count != matches[j].Count {
			return matches[i].Count > matches[j].Count
		}
		return matches[i].Word < matches[j].Word
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
