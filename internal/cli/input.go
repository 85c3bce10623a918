package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/bastiangx/t9serve/internal/utils"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/log"
)

// InputHandler reads digit queries line by line and prints the matches.
// Lines starting with ':' are commands (:stats, :keys, :help).
type InputHandler struct {
	searcher  predict.ISearcher
	presenter *Presenter
	maxDigits int
	queries   int
}

// NewInputHandler creates a prompt over searcher. maxDigits <= 0 means unbounded.
func NewInputHandler(searcher predict.ISearcher, presenter *Presenter, maxDigits int) *InputHandler {
	return &InputHandler{
		searcher:  searcher,
		presenter: presenter,
		maxDigits: maxDigits,
	}
}

// Start loops until in is exhausted. EOF is a normal exit.
func (h *InputHandler) Start(in io.Reader) error {
	log.Print("t9serve prompt")
	log.Print("type keypad digits (2-9) and press Enter, :help for commands (Ctrl+D to exit):")

	reader := bufio.NewReader(in)
	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Queries returns how many searches were run.
func (h *InputHandler) Queries() int {
	return h.queries
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(line[1:])
		return
	}

	if err := keypad.ValidateQuery(line); err != nil {
		log.Errorf("Invalid query: %v", err)
		return
	}
	if h.maxDigits > 0 && len(line) > h.maxDigits {
		log.Errorf("Query too long: %d digits (max %d)", len(line), h.maxDigits)
		return
	}

	h.queries++
	start := time.Now()
	res, found := h.searcher.Search(line)
	log.Debugf("Took [ %v ] for query '%s'", time.Since(start), line)

	if err := h.presenter.Render(line, res, found); err != nil {
		log.Errorf("Writing results: %v", err)
	}
}

func (h *InputHandler) handleCommand(cmd string) {
	switch strings.TrimSpace(cmd) {
	case "stats":
		stats := h.searcher.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h.presenter.Out, "%-10s %s\n", k, utils.FormatWithCommas(stats[k]))
		}
	case "keys":
		for d := byte('2'); d <= '9'; d++ {
			fmt.Fprintf(h.presenter.Out, "%c %s\n", d, keypad.Letters(d))
		}
	case "help":
		fmt.Fprintln(h.presenter.Out, "digits   search, e.g. 228")
		fmt.Fprintln(h.presenter.Out, ":stats   index statistics")
		fmt.Fprintln(h.presenter.Out, ":keys    keypad layout")
		fmt.Fprintln(h.presenter.Out, ":help    this text")
	default:
		log.Warnf("Unknown command: %s", cmd)
	}
}
