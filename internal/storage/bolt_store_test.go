package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
	bolt "go.etcd.io/bbolt"
)

func TestBoltJournalRecordsNewestFirst(t *testing.T) {
	raw, err := openBolt(filepath.Join(t.TempDir(), "journal.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	journal := raw.(*boltJournal)
	defer journal.Close()

	base := time.Now().UTC()
	for i, path := range []string{"get_case/1", "add_result/7", "close_run/9"} {
		ex := testrail.Exchange{
			Method:     "GET",
			Path:       path,
			StatusCode: 200,
			OK:         true,
			OccurredAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := journal.Record(ex); err != nil {
			t.Fatalf("Record(%s): %v", path, err)
		}
	}

	got, err := journal.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Path != "close_run/9" || got[1].Path != "add_result/7" {
		t.Fatalf("unexpected order: %s, %s", got[0].Path, got[1].Path)
	}

	all, err := journal.Recent(0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d (%v)", len(all), err)
	}
}

func TestBoltJournalKeepsSameInstantEntries(t *testing.T) {
	raw, err := openBolt(filepath.Join(t.TempDir(), "journal.db"), normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	defer raw.Close()

	at := time.Now().UTC()
	for i := 0; i < 3; i++ {
		if err := raw.Record(testrail.Exchange{Path: "get_tests/1", OccurredAt: at}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := raw.Recent(0)
	if err != nil || len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d (%v)", len(got), err)
	}
}

func TestBoltJournalExpiresEntries(t *testing.T) {
	opts := Options{
		EntryTTL:        1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}
	raw, err := openBolt(filepath.Join(t.TempDir(), "journal.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	journal := raw.(*boltJournal)
	defer journal.Close()

	if err := journal.Record(testrail.Exchange{Path: "get_run/1"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	journal.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	got, err := journal.Recent(0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected expired entry to be hidden, got %d", len(got))
	}

	if err := journal.maybeCleanupExpired(time.Now()); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	var remaining int
	_ = journal.db.View(func(tx *bolt.Tx) error {
		remaining = tx.Bucket([]byte(exchangeBucket)).Stats().KeyN
		return nil
	})
	if remaining != 0 {
		t.Fatalf("expected expired entry to be deleted, %d remain", remaining)
	}
}

func TestNewJournalSupportsNoop(t *testing.T) {
	journal, err := NewJournal("none", "", Options{})
	if err != nil {
		t.Fatalf("NewJournal none: %v", err)
	}
	if err := journal.Record(testrail.Exchange{}); err != nil {
		t.Fatalf("noop journal Record: %v", err)
	}
}

func TestNewJournalRejectsUnknownType(t *testing.T) {
	if _, err := NewJournal("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported journal type")
	}
	if _, err := NewJournal("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing bbolt path")
	}
}

func TestBoltJournalSecondWriterReportsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	opts := Options{LockTimeout: 50 * time.Millisecond}

	first, err := NewJournal("bbolt", path, opts)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	defer first.Close()

	_, err = NewJournal("bbolt", path, opts)
	if !errors.Is(err, ErrJournalLocked) {
		t.Fatalf("expected ErrJournalLocked, got %v", err)
	}
}

func TestBoltJournalReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	empty, err := NewJournal("bbolt", path, Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("read-only open of missing file: %v", err)
	}
	if got, err := empty.Recent(0); err != nil || len(got) != 0 {
		t.Fatalf("expected empty history, got %v, %v", got, err)
	}

	writer, err := NewJournal("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("open writer: %v", err)
	}
	if err := writer.Record(testrail.Exchange{Method: "POST", Path: "close_run/3", OK: true}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}

	readers := make([]Journal, 2)
	for i := range readers {
		r, err := NewJournal("bbolt", path, Options{ReadOnly: true, LockTimeout: 50 * time.Millisecond})
		if err != nil {
			t.Fatalf("reader %d: %v", i, err)
		}
		defer r.Close()
		readers[i] = r
	}

	got, err := readers[1].Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Path != "close_run/3" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if err := readers[0].Record(testrail.Exchange{Path: "get_run/1"}); err == nil {
		t.Fatalf("expected read-only journal to refuse writes")
	}
}
