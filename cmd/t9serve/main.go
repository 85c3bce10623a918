// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the t9serve keypad prediction CLI and IPC server.

t9serve learns word frequencies from plain text corpora and answers phone keypad
digit strings with the words they can spell. Every letter maps to one digit
(2=abc, 3=def, 4=ghi, 5=jkl, 6=mno, 7=pqrs, 8=tuv, 9=wxyz); a query returns the
words whose full encoding equals the digits, followed by the longer words the
digits are a prefix of, each group ranked by how often the word was seen.

# Usage

Look up one digit string, the classic way:

	t9serve search corpus.txt 228

prints

	Exact matches for 228:
	cat
	act
	Prefix matches for 228:
	cats

and exits 1 with "No match found" when nothing matches, or 2 on a usage error.

Try lookups interactively:

	t9serve repl corpus.txt more.txt

Serve msgpack requests on stdin/stdout, retraining when a corpus changes:

	t9serve serve --watch corpus.txt

# Configuration

Runtime configuration lives in a TOML file under the user config dir
(~/.config/t9serve/config.toml), created with defaults on first run:

	[server]
	max_limit = 64
	max_digits = 32
	watch = false
	debounce_ms = 250

	[index]
	backend = "map"
	shards = 4

	[cli]
	default_limit = 0
	show_counts = false
	color = true

	[corpus]
	paths = []

Corpus paths may be globs and are resolved relative to the config file. The
index backend is either "map", one word set per digit prefix, or "trie", a
patricia trie keyed by full encodings.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout:

	{"id": "q1", "d": "228", "l": 5}

answers with

	{"id": "q1", "e": [{"w": "cat", "c": 3}], "p": [{"w": "cats", "c": 1}], "f": true, "t": 12}

See package server for the full set of actions.

# Flags

	--config string   path to config.toml
	-d, --debug       debug logging on stderr
	--backend string  map or trie, overrides [index] backend
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/t9serve/cmd/t9serve/cmd"
	"github.com/charmbracelet/log"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	if err := cmd.Execute(); err != nil {
		if !cmd.Silent(err) {
			log.Error(err)
		}
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
