package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"tgdrive/internal/domain/models"
	"tgdrive/internal/domain/services"
	"tgdrive/internal/session"
)

// slowTransport holds every DeleteMessage call briefly and records how many overlap
type slowTransport struct {
	*fakeTransport
	mu     sync.Mutex
	active int
	peak   int
	calls  int
}

func (s *slowTransport) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	s.mu.Lock()
	s.active++
	s.calls++
	if s.active > s.peak {
		s.peak = s.active
	}
	s.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	s.mu.Lock()
	s.active--
	s.mu.Unlock()
	return s.fakeTransport.DeleteMessage(ctx, chatID, messageID)
}

// panickingFolders fails every folder lookup with a panic
type panickingFolders struct {
	services.FolderService
}

func (panickingFolders) GetFolder(context.Context, int64, int64) (*models.Folder, error) {
	panic("folder store exploded")
}

func newTestDispatcher(folders services.FolderService, transport Transport, limit int) *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inputs := session.NewInputRegistry()
	b := New(nil, folders, nil, inputs, transport, 10, time.Minute, logger)
	return NewDispatcher(b, inputs, limit, logger)
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	transport := &slowTransport{fakeTransport: newFakeTransport()}
	d := newTestDispatcher(nil, transport, 3)

	data := EncodeCommands(Cmd(VerbDeleteMe), Cmd(VerbDeleteMe))
	for i := range 30 {
		d.Dispatch(context.Background(), Intent{
			Kind:      IntentButton,
			UserID:    int64(i + 1),
			ChatID:    int64(i + 1),
			MessageID: int64(i + 1),
			Data:      data,
		})
	}
	d.Wait()

	transport.mu.Lock()
	defer transport.mu.Unlock()
	if transport.calls != 60 {
		t.Errorf("DeleteMessage calls = %d, want 60", transport.calls)
	}
	if transport.peak > 3 {
		t.Errorf("peak concurrent handlers = %d, want at most 3", transport.peak)
	}
	if transport.peak < 1 {
		t.Errorf("peak concurrent handlers = %d, want at least 1", transport.peak)
	}
}

func TestDispatcher_RecoversPanic(t *testing.T) {
	transport := newFakeTransport()
	d := newTestDispatcher(panickingFolders{}, transport, 1)

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), Intent{
			Kind:   IntentButton,
			UserID: 5,
			ChatID: 5,
			Data:   EncodeCommands(Cmd(VerbSelectFolder, 1)),
		})
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() did not return after a handler panic")
	}

	texts := transport.texts()
	if len(texts) != 1 {
		t.Fatalf("messages = %v, want exactly one", texts)
	}
	if !strings.HasPrefix(texts[0], "❌") {
		t.Errorf("message = %q, want an error message", texts[0])
	}
	if transport.last().chatID != 5 {
		t.Errorf("message went to chat %d, want 5", transport.last().chatID)
	}

	// the slot was released
	d.Dispatch(context.Background(), Intent{Kind: IntentButton, UserID: 5, ChatID: 5, MessageID: 9, Data: EncodeCommands(Cmd(VerbDeleteMe))})
	d.Wait()
	transport.mu.Lock()
	defer transport.mu.Unlock()
	if len(transport.deleted) != 1 {
		t.Errorf("deleted = %v, want one delete after the panic", transport.deleted)
	}
}
