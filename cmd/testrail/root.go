package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adda-Baaj/testrail-gateway/internal/app"
	"github.com/Adda-Baaj/testrail-gateway/internal/config"
	"github.com/Adda-Baaj/testrail-gateway/internal/logger"
	"github.com/Adda-Baaj/testrail-gateway/internal/storage"
)

// needsAnnotation marks what a command opens before it runs. Commands without
// it (help, completion, bare groups) load no configuration at all.
const needsAnnotation = "testrail/needs"

const (
	needsAPI     = "api"
	needsJournal = "journal"
)

// session holds the runtime built once per invocation.
type session struct {
	gateway *app.Gateway
	journal storage.Journal
	logOpen bool
}

// newCLI builds the command tree. The caller must close the returned session
// once execution finishes, whether or not the command failed.
func newCLI() (*cobra.Command, *session) {
	s := &session{}

	root := &cobra.Command{
		Use:           "testrail",
		Short:         "Call TestRail API v2 endpoints from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Annotations[needsAnnotation] {
			case needsAPI:
				return s.openGateway(cmd)
			case needsJournal:
				return s.openJournal()
			}
			return nil
		},
	}

	root.AddCommand(
		newGroupCmd("cases", "Test case endpoints", s, caseOps),
		newGroupCmd("projects", "Project endpoints", s, projectOps),
		newGroupCmd("results", "Test result endpoints", s, resultOps),
		newGroupCmd("runs", "Test run endpoints", s, runOps),
		newGroupCmd("suites", "Test suite endpoints", s, suiteOps),
		newGroupCmd("tests", "Test endpoints", s, testOps),
		newHistoryCmd(s),
	)
	return root, s
}

func (s *session) initLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.Init(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	s.logOpen = true
	logger.DebugObj("testrail cli starting", "config", cfg.Redacted())
	return log, nil
}

func (s *session) openGateway(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := s.initLogger(cfg)
	if err != nil {
		return err
	}

	gw, err := app.NewGateway(cmd.Context(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize gateway", "error", err.Error())
		return err
	}
	s.gateway = gw
	return nil
}

// openJournal opens the journal read-only, so history works without TestRail
// settings and alongside other readers.
func (s *session) openJournal() error {
	cfg, err := config.LoadLocal()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := s.initLogger(cfg)
	if err != nil {
		return err
	}

	journal, err := app.OpenJournal(cfg, log, true)
	if errors.Is(err, storage.ErrJournalLocked) {
		return fmt.Errorf("journal %s is being written by another testrail command, retry once it finishes", cfg.JournalPath)
	}
	if err != nil {
		return err
	}
	s.journal = journal
	return nil
}

func (s *session) close() error {
	defer func() {
		if s.logOpen {
			_ = logger.Close()
			s.logOpen = false
		}
	}()

	var errs []error
	if s.gateway != nil {
		errs = append(errs, s.gateway.Close())
		s.gateway = nil
	}
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
		s.journal = nil
	}
	return errors.Join(errs...)
}
