package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/t9serve/internal/watch"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/bastiangx/t9serve/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var serveWatch bool

var serveCmd = &cobra.Command{
	Use:   "serve [corpus...]",
	Short: "Run the msgpack IPC server on stdin/stdout",
	Long: "Trains on the corpora (or [corpus] paths from the config) and answers msgpack\n" +
		"requests on stdin. With --watch the index is rebuilt whenever a corpus file\n" +
		"changes; searches keep using the previous index until the new one is ready.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&serveWatch, "watch", "w", false, "retrain when a corpus file changes (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	paths, err := corpusPaths(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	p, err := buildPredictor(ctx, paths)
	if err != nil {
		return err
	}
	reload := func(ctx context.Context) (*predict.Predictor, error) {
		return buildPredictor(ctx, paths)
	}
	srv := server.NewServer(p, appConfig, reload, os.Stdin, os.Stdout)

	watching := serveWatch || appConfig.Server.Watch
	if watching {
		debounce := time.Duration(appConfig.Server.DebounceMs) * time.Millisecond
		w, err := watch.NewWatcher(paths, debounce)
		if err != nil {
			return fmt.Errorf("failed to watch corpora: %w", err)
		}
		defer w.Stop()
		w.Watch(func() {
			next, err := srv.Reload(ctx)
			if err != nil {
				log.Errorf("Retrain failed, keeping previous index: %v", err)
				return
			}
			log.Infof("Retrained: %d words", next.Stats()["words"])
		})
	}

	showStartupInfo(paths, p, watching)

	if err := srv.Start(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(paths []string, p *predict.Predictor, watching bool) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := p.Stats()
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "  t9serve  ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("corpora: %d file(s), %d words, backend %s", len(paths), stats["words"], p.Backend())
	if watching {
		log.Info("watching corpora for changes")
	}
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")
}
