package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/testrail-gateway/internal/config"
	"github.com/Adda-Baaj/testrail-gateway/pkg/httpclient"
	"github.com/Adda-Baaj/testrail-gateway/pkg/publishers"
)

type okResponse struct{ body string }

func (r okResponse) Body() []byte    { return []byte(r.body) }
func (r okResponse) StatusCode() int { return http.StatusOK }

type stubTransport struct{}

func (stubTransport) Do(context.Context, httpclient.Request) (httpclient.Response, error) {
	return okResponse{body: `{"id":1}`}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		BaseURL:                "https://example.testrail.io",
		Username:               "user",
		Password:               "secret",
		Timeout:                time.Second,
		JournalType:            "bbolt",
		JournalPath:            filepath.Join(t.TempDir(), "journal.db"),
		JournalTTL:             time.Hour,
		JournalCleanupInterval: time.Hour,
	}
}

func TestGatewayJournalsExchanges(t *testing.T) {
	gw, err := NewGateway(context.Background(), testConfig(t), nil, WithTransport(stubTransport{}))
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	defer gw.Close()

	ctx := context.Background()
	if _, err := gw.Client().Cases.GetCase(ctx, 1).Wait(); err != nil {
		t.Fatalf("GetCase: %v", err)
	}
	if _, err := gw.Client().Runs.CloseRun(ctx, 2).Wait(); err != nil {
		t.Fatalf("CloseRun: %v", err)
	}

	history, err := gw.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 journal entries, got %d", len(history))
	}
	if history[0].Path != "close_run/2" || history[1].Path != "get_case/1" {
		t.Fatalf("unexpected history order: %s, %s", history[0].Path, history[1].Path)
	}
}

func TestGatewayPublishesWriteExchanges(t *testing.T) {
	var (
		mu     sync.Mutex
		events []publishers.Event
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
			t.Errorf("decode event: %v", err)
		}
		mu.Lock()
		events = append(events, evt)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	pubFile := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: " + hook.URL + "\n"
	if err := os.WriteFile(pubFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := testConfig(t)
	cfg.JournalType = "none"
	cfg.PublishersFile = pubFile

	gw, err := NewGateway(context.Background(), cfg, nil, WithTransport(stubTransport{}))
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}
	defer gw.Close()

	ctx := context.Background()
	if _, err := gw.Client().Tests.GetTests(ctx, 3, nil).Wait(); err != nil {
		t.Fatalf("GetTests: %v", err)
	}
	if _, err := gw.Client().Results.AddResult(ctx, 4, map[string]int{"status_id": 1}).Wait(); err != nil {
		t.Fatalf("AddResult: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	if events[0].Operation != "add_result" || events[0].Path != "add_result/4" || !events[0].OK {
		t.Fatalf("unexpected event %+v", events[0])
	}
}

func writePublishersFile(t *testing.T, hookURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := "publishers:\n  - id: hook\n    type: http\n    http:\n      url: " + hookURL + "\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return path
}

func TestSlowWebhookDoesNotDelayResult(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan struct{}, 1)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		delivered <- struct{}{}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	cfg := testConfig(t)
	cfg.PublishersFile = writePublishersFile(t, hook.URL)

	gw, err := NewGateway(context.Background(), cfg, nil, WithTransport(stubTransport{}))
	if err != nil {
		t.Fatalf("NewGateway: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := gw.Client().Runs.CloseRun(ctx, 8).Await(ctx); err != nil {
		close(release)
		gw.Close()
		t.Fatalf("CloseRun did not settle while the webhook was blocked: %v", err)
	}

	history, err := gw.History(1)
	if err != nil || len(history) != 1 || history[0].Path != "close_run/8" {
		t.Fatalf("expected journaled close_run before settlement, got %+v, %v", history, err)
	}

	close(release)
	if err := gw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-delivered:
	default:
		t.Fatalf("expected Close to wait for the queued delivery")
	}
}

func TestConcurrentGatewaysShareJournalPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.JournalLockTimeout = 50 * time.Millisecond

	first, err := NewGateway(context.Background(), cfg, nil, WithTransport(stubTransport{}))
	if err != nil {
		t.Fatalf("first gateway: %v", err)
	}
	defer first.Close()

	second, err := NewGateway(context.Background(), cfg, nil, WithTransport(stubTransport{}))
	if err != nil {
		t.Fatalf("second gateway should fall back to an unjournaled run: %v", err)
	}
	defer second.Close()

	ctx := context.Background()
	if _, err := second.Client().Cases.GetCase(ctx, 5).Wait(); err != nil {
		t.Fatalf("GetCase on second gateway: %v", err)
	}
	if _, err := first.Client().Cases.GetCase(ctx, 6).Wait(); err != nil {
		t.Fatalf("GetCase on first gateway: %v", err)
	}

	history, err := first.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Path != "get_case/6" {
		t.Fatalf("unexpected journal contents %+v", history)
	}
}

func TestOpenJournalReadOnlyWithoutAPISettings(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseURL = ""

	journal, err := OpenJournal(cfg, nil, true)
	if err != nil {
		t.Fatalf("OpenJournal: %v", err)
	}
	defer journal.Close()
	if got, err := journal.Recent(5); err != nil || len(got) != 0 {
		t.Fatalf("expected empty history, got %+v, %v", got, err)
	}
}

func TestNewGatewayRejectsEmptyBaseURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.BaseURL = ""
	cfg.JournalType = "none"
	if _, err := NewGateway(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}

func TestNewGatewayRejectsNilConfig(t *testing.T) {
	if _, err := NewGateway(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
