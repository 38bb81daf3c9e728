package sqlite

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/repositories"
)

type testStore struct {
	users   repositories.UserRepository
	folders repositories.FolderRepository
	files   repositories.FileRepository
	tx      repositories.TransactionManager
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(":memory:", logger)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })

	tables := NewTableNames("test_")
	if err := EnsureSchema(context.Background(), db, tables); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}

	config := &RepositoryConfig{DB: db, Tables: tables, Logger: logger}
	return &testStore{
		users:   NewUserRepository(config),
		folders: NewFolderRepository(config),
		files:   NewFileRepository(config),
		tx:      NewTransactionManager(config),
	}
}

func (s *testStore) mustFolder(t *testing.T, userID int64, name string, parentID *int64) *models.Folder {
	t.Helper()
	folder, err := s.folders.Create(context.Background(), userID, name, parentID)
	if err != nil {
		t.Fatalf("create folder %q: %v", name, err)
	}
	return folder
}

func (s *testStore) mustFile(t *testing.T, userID int64, name string, folderID int64) *models.File {
	t.Helper()
	file := &models.File{
		ActualFileID: "payload-" + name,
		Name:         name,
		MimeType:     "text/plain",
		Size:         42,
		UserID:       userID,
		MessageID:    7,
		FolderID:     folderID,
	}
	if err := s.files.Create(context.Background(), file); err != nil {
		t.Fatalf("create file %q: %v", name, err)
	}
	return file
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.users.Get(ctx, 100); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get() before create error = %v, want ErrNotFound", err)
	}

	id, err := s.users.Create(ctx, 100)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != 100 {
		t.Errorf("Create() = %d, want 100", id)
	}

	user, err := s.users.Get(ctx, 100)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user.RootFolderID != nil || user.LastOpenedFolderID != nil {
		t.Errorf("new user has folder references: %+v", user)
	}

	if _, err := s.users.Create(ctx, 100); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("second Create() error = %v, want ErrConflict", err)
	}
}

func TestUserRepository_SetFolders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.users.Create(ctx, 1); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	root := s.mustFolder(t, 1, "Home", nil)
	child := s.mustFolder(t, 1, "docs", &root.ID)

	if err := s.users.SetRootFolder(ctx, 1, root.ID); err != nil {
		t.Fatalf("SetRootFolder() error = %v", err)
	}
	if err := s.users.SetLastOpenedFolder(ctx, 1, child.ID); err != nil {
		t.Fatalf("SetLastOpenedFolder() error = %v", err)
	}

	user, err := s.users.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user.RootFolderID == nil || *user.RootFolderID != root.ID {
		t.Errorf("RootFolderID = %v, want %d", user.RootFolderID, root.ID)
	}
	if user.LastOpenedFolderID == nil || *user.LastOpenedFolderID != child.ID {
		t.Errorf("LastOpenedFolderID = %v, want %d", user.LastOpenedFolderID, child.ID)
	}

	if err := s.users.SetRootFolder(ctx, 999, root.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("SetRootFolder() for missing user error = %v, want ErrNotFound", err)
	}
}

func TestFolderRepository_CreateThenChildrenContainsItOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := s.mustFolder(t, 1, "Home", nil)
	s.mustFile(t, 1, "notes.txt", root.ID)
	a := s.mustFolder(t, 1, "a", &root.ID)
	b := s.mustFolder(t, 1, "b", &root.ID)

	children, err := s.folders.GetChildren(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetChildren() error = %v", err)
	}

	count := 0
	for _, f := range children.Folders {
		if f.ID == b.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("folder %d appears %d times, want 1", b.ID, count)
	}

	entries := children.Entries()
	if len(entries) != 3 {
		t.Fatalf("Entries() len = %d, want 3", len(entries))
	}
	// folders first, insertion order, then files
	if entries[0].EntryID() != a.ID || entries[1].EntryID() != b.ID {
		t.Errorf("folder order = [%d %d], want [%d %d]", entries[0].EntryID(), entries[1].EntryID(), a.ID, b.ID)
	}
	if _, ok := entries[2].(models.File); !ok {
		t.Errorf("last entry is %T, want models.File", entries[2])
	}
}

func TestFolderRepository_RenameChangesOnlyName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := s.mustFolder(t, 1, "Home", nil)
	folder := s.mustFolder(t, 1, "old", &root.ID)

	if err := s.folders.Rename(ctx, folder.ID, "new"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	got, err := s.folders.Get(ctx, folder.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "new" {
		t.Errorf("Name = %q, want %q", got.Name, "new")
	}
	if got.ID != folder.ID || got.UserID != folder.UserID || got.ParentID == nil || *got.ParentID != root.ID {
		t.Errorf("rename changed more than the name: before %+v after %+v", folder, got)
	}

	if err := s.folders.Rename(ctx, 12345, "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Rename() missing folder error = %v, want ErrNotFound", err)
	}
}

func TestFolderRepository_FindByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := s.mustFolder(t, 1, "Home", nil)
	music := s.mustFolder(t, 1, "music", &root.ID)
	s.mustFolder(t, 1, "dup", &root.ID)
	s.mustFolder(t, 1, "dup", &music.ID)
	s.mustFolder(t, 2, "music", nil)

	t.Run("single match scoped to user", func(t *testing.T) {
		got, err := s.folders.FindByName(ctx, 1, "music")
		if err != nil {
			t.Fatalf("FindByName() error = %v", err)
		}
		if got.ID != music.ID {
			t.Errorf("FindByName() id = %d, want %d", got.ID, music.ID)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := s.folders.FindByName(ctx, 1, "video"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ambiguous", func(t *testing.T) {
		_, err := s.folders.FindByName(ctx, 1, "dup")
		var conflict *domain.ConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("error = %v, want *ConflictError", err)
		}
	})
}

func TestFolderRepository_DeleteRemovesSubtree(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.users.Create(ctx, 1); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	root := s.mustFolder(t, 1, "Home", nil)
	target := s.mustFolder(t, 1, "target", &root.ID)
	sub := s.mustFolder(t, 1, "sub", &target.ID)
	deep := s.mustFolder(t, 1, "deep", &sub.ID)
	sibling := s.mustFolder(t, 1, "sibling", &root.ID)
	f1 := s.mustFile(t, 1, "a.txt", target.ID)
	f2 := s.mustFile(t, 1, "b.txt", deep.ID)
	kept := s.mustFile(t, 1, "c.txt", sibling.ID)

	if err := s.users.SetLastOpenedFolder(ctx, 1, deep.ID); err != nil {
		t.Fatalf("SetLastOpenedFolder() error = %v", err)
	}

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		return s.folders.Delete(ctx, target.ID)
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	for _, id := range []int64{target.ID, sub.ID, deep.ID} {
		if _, err := s.folders.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("folder %d still present (err = %v)", id, err)
		}
	}
	for _, id := range []int64{f1.ID, f2.ID} {
		if _, err := s.files.Get(ctx, id); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("file %d still present (err = %v)", id, err)
		}
	}
	if _, err := s.folders.Get(ctx, sibling.ID); err != nil {
		t.Errorf("sibling folder removed: %v", err)
	}
	if _, err := s.files.Get(ctx, kept.ID); err != nil {
		t.Errorf("sibling file removed: %v", err)
	}

	user, err := s.users.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if user.LastOpenedFolderID != nil {
		t.Errorf("LastOpenedFolderID = %d, want nil after delete", *user.LastOpenedFolderID)
	}
}

func TestFolderRepository_DeleteMissing(t *testing.T) {
	s := newTestStore(t)
	if err := s.folders.Delete(context.Background(), 77); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := s.mustFolder(t, 1, "Home", nil)
	child := s.mustFolder(t, 1, "child", &root.ID)
	boom := errors.New("boom")

	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folders.Delete(ctx, child.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx() error = %v, want %v", err, boom)
	}

	if _, err := s.folders.Get(ctx, child.ID); err != nil {
		t.Errorf("folder deleted despite rollback: %v", err)
	}
}

func TestFileRepository_MoveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	root := s.mustFolder(t, 1, "Home", nil)
	other := s.mustFolder(t, 1, "other", &root.ID)
	file := s.mustFile(t, 1, "song.mp3", root.ID)
	s.mustFile(t, 2, "foreign.bin", s.mustFolder(t, 2, "Home", nil).ID)

	if err := s.files.SetParent(ctx, file.ID, other.ID); err != nil {
		t.Fatalf("SetParent() error = %v", err)
	}
	got, err := s.files.Get(ctx, file.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.FolderID != other.ID {
		t.Errorf("FolderID = %d, want %d", got.FolderID, other.ID)
	}
	if got.ActualFileID != "payload-song.mp3" || got.Size != 42 {
		t.Errorf("metadata not round-tripped: %+v", got)
	}

	files, err := s.files.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(files) != 1 {
		t.Errorf("ListByUser() len = %d, want 1", len(files))
	}

	if err := s.files.Create(ctx, &models.File{Name: "orphan", UserID: 1, FolderID: 9999}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Create() with missing folder error = %v, want ErrNotFound", err)
	}
}

func TestClearDataAndDropSchema(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := Open(":memory:", logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = Close(db) })

	tables := NewTableNames("test_")
	if err := EnsureSchema(ctx, db, tables); err != nil {
		t.Fatal(err)
	}
	config := &RepositoryConfig{DB: db, Tables: tables, Logger: logger}
	users, folders := NewUserRepository(config), NewFolderRepository(config)

	if _, err := users.Create(ctx, 1); err != nil {
		t.Fatal(err)
	}
	root, err := folders.Create(ctx, 1, "Home", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := folders.Create(ctx, 1, "child", &root.ID); err != nil {
		t.Fatal(err)
	}
	if err := users.SetRootFolder(ctx, 1, root.ID); err != nil {
		t.Fatal(err)
	}

	if err := ClearData(ctx, db, tables); err != nil {
		t.Fatalf("ClearData() error = %v", err)
	}
	if _, err := users.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("user after clear: error = %v, want ErrNotFound", err)
	}
	if all, _ := folders.ListByUser(ctx, 1); len(all) != 0 {
		t.Errorf("folders after clear = %d, want 0", len(all))
	}

	if err := DropSchema(ctx, db, tables); err != nil {
		t.Fatalf("DropSchema() error = %v", err)
	}
	if err := EnsureSchema(ctx, db, tables); err != nil {
		t.Fatalf("EnsureSchema() after drop error = %v", err)
	}
}
