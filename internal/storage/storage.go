package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/testrail-gateway/pkg/testrail"
)

// Package storage keeps a local journal of API exchanges.

// Journal records exchanges and lists the most recent ones.
type Journal interface {
	Close() error
	Record(ex testrail.Exchange) error
	Recent(limit int) ([]testrail.Exchange, error)
}

// ErrJournalLocked reports that another process holds the journal file.
var ErrJournalLocked = errors.New("journal is locked by another process")

// Options controls retention characteristics for concrete journal implementations.
// ReadOnly opens an existing journal for Recent only; a missing file yields an
// empty journal.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
	LockTimeout     time.Duration
	ReadOnly        bool
}

const (
	defaultEntryTTL        = 7 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
	defaultLockTimeout     = time.Second
)

// NewJournal creates the configured journal backend.
func NewJournal(typ, path string, opts Options) (Journal, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopJournal{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt journal requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported journal type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	return opts
}

// Nop returns a journal that records nothing.
func Nop() Journal { return noopJournal{} }

type noopJournal struct{}

func (noopJournal) Close() error                            { return nil }
func (noopJournal) Record(testrail.Exchange) error          { return nil }
func (noopJournal) Recent(int) ([]testrail.Exchange, error) { return nil, nil }
