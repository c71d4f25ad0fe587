// Package main is the entry point for the taskchat CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskchat/internal/backend/googletasks"
	"taskchat/internal/backend/sqlite"
	"taskchat/internal/cli"
	"taskchat/internal/commands"
	"taskchat/internal/config"
	"taskchat/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, openStore)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// openStore opens the configured backend. Conversations always live in
// the local SQLite database; tasks go to Google Tasks when configured.
func openStore(ctx context.Context, cfg *config.Config) (service.Service, error) {
	store, err := sqlite.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}

	if cfg.Settings.Store.Backend != config.BackendGoogleTasks {
		return store, nil
	}

	if !cfg.HasOAuthClient() {
		store.Close()
		return nil, fmt.Errorf("oauth_client.json not found in %s: %w", cfg.Dir, service.ErrUnauthorized)
	}
	if !cfg.HasToken() {
		store.Close()
		return nil, fmt.Errorf("not logged in (run: taskchat login): %w", service.ErrUnauthorized)
	}

	remote, err := googletasks.New(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return service.Compose(remote, store), nil
}
