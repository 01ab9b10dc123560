package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"umkm-pos/internal/client"
	"umkm-pos/internal/config"
	"umkm-pos/internal/logger"
	"umkm-pos/internal/session"
)

// env is what every command needs: the API client and a session manager
// wired over the same credential store.
type env struct {
	cfg     *config.ClientConfig
	log     zerolog.Logger
	client  *client.Client
	manager *session.Manager
}

func newEnv() (*env, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	log := logger.InitWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	path := cfg.CredentialsPath
	if path == "" {
		if path, err = client.DefaultCredentialsPath(); err != nil {
			return nil, err
		}
	}
	store, err := client.OpenFileStore(path)
	if err != nil {
		return nil, err
	}

	cl := client.New(cfg.APIURL, cfg.Timeout, store, log)
	resolver := session.NewResolver(client.NewProfileSource(cl), log)
	return &env{
		cfg:     cfg,
		log:     log,
		client:  cl,
		manager: session.NewManager(resolver, cl, store, log),
	}, nil
}

// signedIn bootstraps the manager and requires an authenticated session.
func (e *env) signedIn(ctx context.Context) (session.Snapshot, error) {
	if err := e.manager.Bootstrap(ctx); err != nil {
		return session.Snapshot{}, err
	}
	snap := e.manager.Current()
	if snap.State != session.StateAuthenticated {
		return snap, client.ErrNotSignedIn
	}
	return snap, nil
}
