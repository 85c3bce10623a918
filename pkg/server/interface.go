/*
Package server implements msgpack IPC for keypad word prediction.

Clients write msgpack maps to stdin and read msgpack maps from stdout, one value
after another with no framing. The server first announces itself:

	{"id": "", "status": "ready"}

# Search

A request without an action, or with "a": "search", looks up a digit string:

	{"id": "q1", "d": "228", "l": 5}

The response carries both buckets ranked by count, the found flag and the time
taken in microseconds:

	{"id": "q1", "e": [{"w": "cat", "c": 3}, {"w": "act", "c": 1}], "p": [{"w": "cats", "c": 1}], "f": true, "t": 12}

A query no trained word starts with is not an error; it answers with "f": false
and empty buckets.

# Other actions

	{"id": "s1", "a": "stats"}              -> {"id": "s1", "status": "ok", "stats": {"words": 5, ...}}
	{"id": "l1", "a": "learn", "x": "text"} -> stats after training on text
	{"id": "r1", "a": "reload"}             -> stats of the freshly built index
	{"id": "h1", "a": "health"}             -> {"id": "h1", "status": "ok"}

Failures answer with ErrorResponse, e.g. {"id": "q2", "err": "...", "code": 400}.
*/
package server

// Actions understood by the server.
const (
	ActionSearch = "search"
	ActionStats  = "stats"
	ActionLearn  = "learn"
	ActionReload = "reload"
	ActionHealth = "health"
)

// Request is the single inbound message shape; fields unused by an action are ignored.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a,omitempty"`
	Digits string `msgpack:"d,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Text   string `msgpack:"x,omitempty"`
}

// MatchEntry - one ranked candidate
type MatchEntry struct {
	Word  string `msgpack:"w"`
	Count int    `msgpack:"c"`
}

// SearchResponse - both buckets for a digit string
type SearchResponse struct {
	ID        string       `msgpack:"id"`
	Exact     []MatchEntry `msgpack:"e"`
	Prefix    []MatchEntry `msgpack:"p"`
	Found     bool         `msgpack:"f"`
	TimeTaken int64        `msgpack:"t"`
}

// StatusResponse - ready/health/ok replies, optionally with index stats
type StatusResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"err"`
	Code  int    `msgpack:"code"`
}
