package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/testrail-gateway/internal/config"
	"github.com/Adda-Baaj/testrail-gateway/internal/logger"
	"github.com/Adda-Baaj/testrail-gateway/internal/storage"
	"github.com/Adda-Baaj/testrail-gateway/pkg/httpclient"
	"github.com/Adda-Baaj/testrail-gateway/pkg/publishers"
	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
)

// Gateway wires the TestRail client together with the exchange journal and
// the event publishers.
type Gateway struct {
	cfg     *config.Config
	client  *testrail.Client
	journal storage.Journal
	fanout  *publishers.Fanout
	log     logger.Logger
}

// Option customizes gateway construction.
type Option func(*options)

type options struct {
	transport httpclient.Client
}

// WithTransport replaces the resty transport, mainly for tests.
func WithTransport(t httpclient.Client) Option {
	return func(o *options) { o.transport = t }
}

// NewGateway builds a gateway runtime from config.
func NewGateway(ctx context.Context, cfg *config.Config, log logger.Logger, opts ...Option) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	journal, err := OpenJournal(cfg, log, false)
	if errors.Is(err, storage.ErrJournalLocked) {
		log.WarnObj("journal in use by another process, exchanges from this run are not journaled", "journal_path", cfg.JournalPath)
		journal, err = storage.Nop(), nil
	}
	if err != nil {
		return nil, err
	}

	fanout, err := buildFanout(ctx, cfg, log)
	if err != nil {
		journal.Close()
		return nil, err
	}

	client, err := testrail.New(testrail.Options{
		BaseURL:            cfg.BaseURL,
		Username:           cfg.Username,
		Password:           cfg.Password,
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		HTTPClient:         o.transport,
		Logger:             log,
		Observers:          []testrail.Observer{journalObserver{journal: journal, log: log}, fanout},
	})
	if err != nil {
		_ = fanout.Close(context.Background())
		journal.Close()
		return nil, fmt.Errorf("init testrail client: %w", err)
	}
	if cfg.InsecureSkipVerify {
		log.WarnObj("tls certificate verification disabled for testrail client", "api_url", client.APIURL())
	}

	return &Gateway{
		cfg:     cfg,
		client:  client,
		journal: journal,
		fanout:  fanout,
		log:     log,
	}, nil
}

// OpenJournal opens the configured exchange journal. Read-only journals share
// the file with other readers; a writer needs it exclusively and fails with
// storage.ErrJournalLocked once cfg.JournalLockTimeout passes.
func OpenJournal(cfg *config.Config, log logger.Logger, readOnly bool) (storage.Journal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}

	journal, err := storage.NewJournal(cfg.JournalType, cfg.JournalPath, storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
		LockTimeout:     cfg.JournalLockTimeout,
		ReadOnly:        readOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.DebugObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"read_only":                readOnly,
		"entry_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})
	return journal, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	opts := []publishers.FanoutOption{publishers.WithDeliveryTimeout(cfg.PublishTimeout)}
	path := cfg.PublishersFile
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil, log, opts...), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs, log, opts...), nil
}

// Client returns the wired TestRail client.
func (g *Gateway) Client() *testrail.Client { return g.client }

// History returns up to limit journaled exchanges, newest first.
func (g *Gateway) History(limit int) ([]testrail.Exchange, error) {
	if g == nil || g.journal == nil {
		return nil, fmt.Errorf("gateway is not initialized")
	}
	return g.journal.Recent(limit)
}

// Close waits for queued event deliveries, bounded by the publish timeout,
// and then releases the publishers and the journal.
func (g *Gateway) Close() error {
	if g == nil {
		return nil
	}

	var errs []error
	if g.fanout != nil {
		wait := g.cfg.PublishTimeout
		if wait <= 0 {
			wait = publishers.DefaultDeliveryTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		if err := g.fanout.Close(ctx); err != nil {
			g.log.ErrorObj("publishers close failed", "error", err.Error())
			errs = append(errs, err)
		}
	}
	if g.journal != nil {
		if err := g.journal.Close(); err != nil {
			g.log.ErrorObj("journal close failed", "error", err.Error())
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// journalObserver records every exchange; journal failures are logged only.
type journalObserver struct {
	journal storage.Journal
	log     logger.Logger
}

func (j journalObserver) Observe(_ context.Context, ex testrail.Exchange) {
	if err := j.journal.Record(ex); err != nil {
		j.log.ErrorObj("journal record failed", "journal_error", map[string]any{
			"path":  ex.Path,
			"error": err.Error(),
		})
	}
}
