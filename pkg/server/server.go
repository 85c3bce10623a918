package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bastiangx/t9serve/pkg/config"
	"github.com/bastiangx/t9serve/pkg/corpus"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Reloader builds a fresh predictor, typically by retraining on the configured corpora.
type Reloader func(ctx context.Context) (*predict.Predictor, error)

// Server handles msgpack IPC for keypad searches
type Server struct {
	current  atomic.Pointer[predict.Predictor]
	config   *config.Config
	reload   Reloader
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	mu       sync.Mutex
	requests int
}

// NewServer creates a server reading requests from in and writing responses to out.
// reload may be nil, in which case the reload action fails.
func NewServer(p *predict.Predictor, cfg *config.Config, reload Reloader, in io.Reader, out io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := bufio.NewWriter(out)
	s := &Server{
		config:  cfg,
		reload:  reload,
		decoder: msgpack.NewDecoder(bufio.NewReader(in)),
		writer:  w,
		encoder: msgpack.NewEncoder(w),
	}
	s.current.Store(p)
	return s
}

// Predictor returns the index currently serving requests.
func (s *Server) Predictor() *predict.Predictor {
	return s.current.Load()
}

// Swap replaces the serving index; in-flight searches finish on the old one.
func (s *Server) Swap(p *predict.Predictor) {
	if p == nil {
		return
	}
	s.current.Store(p)
	log.Debug("Index swapped", "words", p.Stats()["words"])
}

// Reload rebuilds the index with the configured Reloader and swaps it in.
func (s *Server) Reload(ctx context.Context) (*predict.Predictor, error) {
	if s.reload == nil {
		return nil, errors.New("reload is not configured")
	}
	p, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}
	s.Swap(p)
	return p, nil
}

// Start announces readiness and serves requests until the input ends.
// A request that cannot be decoded ends the session with an error,
// since the stream position is lost.
func (s *Server) Start() error {
	log.Debug("Starting server.")
	s.send(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.requests++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch strings.ToLower(req.Action) {
	case "", ActionSearch:
		s.handleSearch(req)
	case ActionStats:
		s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: s.Predictor().Stats()})
	case ActionLearn:
		s.handleLearn(req)
	case ActionReload:
		p, err := s.Reload(context.Background())
		if err != nil {
			log.Errorf("Reload failed: %v", err)
			s.sendError(req.ID, fmt.Sprintf("reload failed: %v", err), 500)
			return
		}
		s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: p.Stats()})
	case ActionHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSearch(req Request) {
	digits := req.Digits
	if err := keypad.ValidateQuery(digits); err != nil {
		s.sendError(req.ID, err.Error(), 400)
		log.Debug("Rejected query", "id", req.ID, "err", err)
		return
	}
	if maxDigits := s.config.Server.MaxDigits; maxDigits > 0 && len(digits) > maxDigits {
		s.sendError(req.ID, fmt.Sprintf("query exceeds maximum length of %d digits", maxDigits), 400)
		return
	}

	limit := req.Limit
	if maxLimit := s.config.Server.MaxLimit; maxLimit > 0 && (limit <= 0 || limit > maxLimit) {
		limit = maxLimit
	}

	start := time.Now()
	res, found := s.Predictor().Search(digits)
	res = res.Limit(limit)
	elapsed := time.Since(start)

	s.send(SearchResponse{
		ID:        req.ID,
		Exact:     toEntries(res.Exact),
		Prefix:    toEntries(res.Prefix),
		Found:     found,
		TimeTaken: elapsed.Microseconds(),
	})
}

func (s *Server) handleLearn(req Request) {
	if req.Text == "" {
		s.sendError(req.ID, "missing 'x' text to learn", 400)
		return
	}
	p := s.Predictor()
	if err := p.Train(corpus.Text(req.Text)); err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: p.Stats()})
}

func toEntries(matches []predict.Match) []MatchEntry {
	entries := make([]MatchEntry, len(matches))
	for i, m := range matches {
		entries[i] = MatchEntry{Word: m.Word, Count: m.Count}
	}
	return entries
}

// send encodes one response and flushes it.
func (s *Server) send(response any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
