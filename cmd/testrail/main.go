// testrail is a command line front end for the TestRail API v2 client.
//
// Usage:
//
//	testrail cases get <case-id>
//	testrail cases list <project-id> [suite-id] [section-id] [--filter key=value ...]
//	testrail results add <test-id> --params result.yaml
//	testrail runs close <run-id>
//	testrail history [--limit n]
//
// Connection settings come from TESTRAIL_URL, TESTRAIL_USER and TESTRAIL_PASSWORD
// (optionally via configs/.env).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "testrail: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, s := newCLI()
	err := root.ExecuteContext(ctx)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}
