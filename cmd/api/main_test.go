package main

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"

	"umkm-pos/internal/repository"
)

func TestCORSOrigins(t *testing.T) {
	c := qt.New(t)
	c.Assert(corsOrigins(nil), qt.DeepEquals, []string{"*"})
	c.Assert(corsOrigins([]string{"https://kasir.toko.id"}), qt.DeepEquals, []string{"https://kasir.toko.id"})
}

type idleSessions struct {
	repository.SessionRepository
}

func TestPruneSessionsStopsOnCancel(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pruneSessions(ctx, idleSessions{}, zerolog.Nop())
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		c.Fatal("pruneSessions did not return after cancel")
	}
}
