package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"tgdrive/internal/config"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DatabaseURL: ":memory:", TablePrefix: "test_"}

	s, err := Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if s.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", s.Backend)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := s.Users.Create(ctx, 5); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if err := s.ClearData(ctx); err != nil {
		t.Fatalf("ClearData() error = %v", err)
	}
	if err := s.DropSchema(ctx); err != nil {
		t.Fatalf("DropSchema() error = %v", err)
	}
}
