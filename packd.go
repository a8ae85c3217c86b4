// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kabletop/packd/internal/progresslog"
	"github.com/kabletop/packd/internal/version"
	"github.com/kabletop/packd/ledger"
)

// errInterrupted is returned when a shutdown signal stops a batch early.
var errInterrupted = errors.New("interrupted")

// loadSnapshot reads and decodes the transaction snapshot at path.
func loadSnapshot(path string) (*ledger.Tx, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tx, err := ledger.DecodeSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tx, nil
}

// verifySnapshots verifies each snapshot in turn and writes one verdict line
// per script group to w.  It returns the number of rejected groups.  The
// context is only checked between snapshots.
func verifySnapshots(ctx context.Context, v *verifier, paths []string, w io.Writer) (int, error) {
	var rejected int
	progress := progresslog.New("Verified", packLog)
	for i, path := range paths {
		if shutdownRequested(ctx) {
			return rejected, errInterrupted
		}

		tx, err := loadSnapshot(path)
		if err != nil {
			return rejected, err
		}
		packLog.Debugf("Verifying tx %x from %s", tx.Hash[:], path)

		verdicts := v.verifyTx(tx)
		if len(verdicts) == 0 {
			fmt.Fprintf(w, "%s: no script groups\n", path)
		}
		summary := progresslog.Snapshot{Groups: uint64(len(verdicts))}
		for j := range verdicts {
			verdict := &verdicts[j]
			switch {
			case verdict.Status == verdictSkipped:
				summary.Skipped++
			case verdict.Err != nil:
				summary.Rejected++
			}
			fmt.Fprintf(w, "%s: %v\n", path, verdict)
		}
		rejected += int(summary.Rejected)
		progress.LogProgress(path, summary, i == len(paths)-1)
	}
	return rejected, nil
}

// packdMain is the real main function for packd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func packdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	cfg, snapshots, err := loadConfig(appName, os.Args[1:])
	if err != nil {
		usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
		fmt.Fprintln(os.Stderr, err)
		var e errSuppressUsage
		if !errors.As(err, &e) {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Get a context that will be canceled when a shutdown signal has been
	// triggered from an OS signal such as SIGINT (Ctrl+C).
	ctx := shutdownListener()

	// Show version at startup.
	packLog.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	packLog.Infof("Home dir: %s", cfg.HomeDir)
	if cfg.NoFileLogging {
		packLog.Info("File logging disabled")
	}

	if len(snapshots) == 0 {
		err := errors.New("no snapshot files specified")
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintf(os.Stderr, "Use %s -h to show usage\n", appName)
		return err
	}

	v := newVerifier(cfg.hashFn, cfg.codes, cfg.CacheSize)
	rejected, err := verifySnapshots(ctx, v, snapshots, os.Stdout)
	if err != nil {
		packLog.Errorf("%v", err)
		return err
	}
	if rejected > 0 {
		return fmt.Errorf("%d script groups rejected", rejected)
	}
	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := packdMain(); err != nil {
		os.Exit(1)
	}
}
