// Package cli renders search results and runs the interactive keypad prompt.
package cli

import (
	"fmt"
	"io"

	"github.com/bastiangx/t9serve/internal/utils"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	countStyle = lipgloss.NewStyle().Faint(true)
)

// NoMatch is printed when the query reaches no trained word.
const NoMatch = "No match found"

// Presenter writes ranked results in the classic two-section layout:
//
//	Exact matches for 228:
//	cat
//	Prefix matches for 228:
//	cats
type Presenter struct {
	Out        io.Writer
	ShowCounts bool
	Color      bool
	Limit      int
}

// NewPresenter returns a plain presenter writing to out.
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{Out: out}
}

// Render prints res for query, or NoMatch when found is false.
func (p *Presenter) Render(query string, res predict.Result, found bool) error {
	if !found {
		_, err := fmt.Fprintln(p.Out, NoMatch)
		return err
	}
	res = res.Limit(p.Limit)

	sections := []struct {
		title   string
		matches []predict.Match
	}{
		{"Exact", res.Exact},
		{"Prefix", res.Prefix},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintln(p.Out, p.style(headerStyle, fmt.Sprintf("%s matches for %s:", s.title, query))); err != nil {
			return err
		}
		for _, m := range s.matches {
			if _, err := fmt.Fprintln(p.Out, p.line(m)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Presenter) line(m predict.Match) string {
	word := p.style(wordStyle, m.Word)
	if !p.ShowCounts {
		return word
	}
	return fmt.Sprintf("%s %s", word, p.style(countStyle, "("+utils.FormatWithCommas(m.Count)+")"))
}

func (p *Presenter) style(s lipgloss.Style, text string) string {
	if !p.Color {
		return text
	}
	return s.Render(text)
}
