package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"tgdrive/internal/config"
	"tgdrive/internal/events"
	"tgdrive/internal/repository/store"
	authSvc "tgdrive/internal/service/auth"
	"tgdrive/internal/service/drive"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.Open(ctx, &config.Config{DatabaseURL: ":memory:", TablePrefix: "test_"}, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	publisher := events.NoopPublisher{}
	authorizer := authSvc.NewOwnerBasedAuthorizer(st.Folders, st.Files)
	accounts := drive.NewAccountService(st.Users, st.Folders, st.TxManager, publisher, logger)
	folders := drive.NewFolderService(st.Users, st.Folders, st.TxManager, authorizer, publisher, logger)

	paths := []string{"Docs", "Docs/Work", "Orphan/Child", "Photos"}

	created, err := seed(ctx, accounts, folders, 3, paths)
	if err != nil {
		t.Fatalf("seed() error = %v", err)
	}
	if created != 3 {
		t.Errorf("created = %d, want 3 (orphan skipped)", created)
	}

	again, err := seed(ctx, accounts, folders, 3, paths)
	if err != nil {
		t.Fatalf("second seed() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second run created %d folders, want 0", again)
	}

	all, err := st.Folders.ListByUser(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("folders = %d, want Home plus 3", len(all))
	}

	user, err := st.Users.Get(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if user.LastOpenedFolderID == nil || *user.LastOpenedFolderID != *user.RootFolderID {
		t.Error("seed should leave the user in the root folder")
	}
}
