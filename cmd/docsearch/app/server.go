// Package app provides the docsearch server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shreeshail-sp/docsearch/cmd/docsearch/app/options"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/app"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/config"
	"github.com/Shreeshail-sp/docsearch/pkg/infra/logger"
)

// commandDesc is the description of the command.
const commandDesc = `DocSearch Service

A retrieval service for uploaded documents.

This server provides:
  - PDF, DOCX and TXT text extraction
  - Overlapping chunking with vector embeddings
  - Semantic similarity search over indexed chunks
  - Extractive answers built from the retrieved sentences`

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	return app.NewApp(
		app.WithName(docsearch.Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
		app.WithWatchFunc(func(w *config.Watcher) {
			logger.NewReloadableLogger(opts.LogOptions).RegisterWithWatcher(w, "logger", "log")
		}),
	)
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
// A second signal exits immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
