package watching

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-autoload/autoload/internal/logging"
)

type recordingDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func (d *recordingDispatcher) Dispatch(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, e)
}

func (d *recordingDispatcher) snapshot() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

func TestCoalesceMergesBurstsIntoOneEvent(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	w := &Watcher{
		logger:     logging.RootLogger,
		dispatcher: dispatcher,
		recognized: func(string) bool { return true },
		pending:    make(map[string]Kind),
		done:       make(chan struct{}),
	}

	w.coalesce("/tmp/app/user.py", Modified)
	w.coalesce("/tmp/app/user.py", Modified)
	w.coalesce("/tmp/app/user.py", Modified)

	time.Sleep(3 * coalescingWindow)

	events := dispatcher.snapshot()
	if len(events) != 1 {
		t.Fatalf("expected exactly one coalesced event, got %v", events)
	}
	if events[0].Path != "/tmp/app/user.py" || events[0].Kind != Modified {
		t.Fatalf("unexpected event: %v", events[0])
	}
}

func TestCoalesceDeletionWinsOverEarlierModification(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	w := &Watcher{
		logger:     logging.RootLogger,
		dispatcher: dispatcher,
		recognized: func(string) bool { return true },
		pending:    make(map[string]Kind),
		done:       make(chan struct{}),
	}

	w.coalesce("/tmp/app/user.py", Modified)
	w.coalesce("/tmp/app/user.py", Deleted)

	time.Sleep(3 * coalescingWindow)

	events := dispatcher.snapshot()
	if len(events) != 1 || events[0].Kind != Deleted {
		t.Fatalf("expected a single deletion event, got %v", events)
	}
}

func TestWatcherObservesRealFilesystemWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "user.py")
	if err := os.WriteFile(path, []byte("class User: pass"), 0o644); err != nil {
		t.Fatal(err)
	}

	dispatcher := &recordingDispatcher{}
	w, err := New([]string{root}, func(p string) bool {
		return filepath.Ext(p) == ".py"
	}, dispatcher, logging.RootLogger)
	if err != nil {
		t.Fatalf("unable to create watcher: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("class User:\n    VERSION = \"2\""), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(dispatcher.snapshot()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	events := dispatcher.snapshot()
	if len(events) == 0 {
		t.Fatal("expected at least one event for the modified file")
	}
}
