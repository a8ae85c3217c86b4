// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package progresslog

import (
	"sync"
	"time"

	"github.com/decred/slog"
)

// logInterval is the minimum time between unforced progress messages.
const logInterval = 10 * time.Second

// pickNoun returns the singular or plural form of a noun depending on the
// provided count.
func pickNoun(n uint64, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

// Snapshot summarizes the verification of one transaction snapshot.
type Snapshot struct {
	Groups   uint64
	Rejected uint64
	Skipped  uint64
}

// Logger provides periodic logging of progress towards verifying a batch of
// snapshots.
type Logger struct {
	sync.Mutex
	subsystemLogger slog.Logger
	progressAction  string

	// lastLogTime tracks the last time a log statement was shown.
	lastLogTime time.Time

	// These fields accumulate information about snapshots between log
	// statements.
	receivedSnapshots uint64
	receivedGroups    uint64
	receivedRejected  uint64
	receivedSkipped   uint64
}

// New returns a new snapshot progress logger.
func New(progressAction string, logger slog.Logger) *Logger {
	return &Logger{
		lastLogTime:     time.Now(),
		progressAction:  progressAction,
		subsystemLogger: logger,
	}
}

// LogProgress accumulates details for the provided snapshot and periodically
// (every 10 seconds) logs an information message to show progress to the user
// along with duration and totals included.
//
// The force flag may be used to force a log message to be shown regardless of
// the time the last one was shown.
//
// The progress message is templated as follows:
//
//	{progressAction} {numProcessed} {snapshots|snapshot} in the last
//	{timePeriod} ({numGroups} {script groups|script group}, {numRejected}
//	rejected, {numSkipped} skipped, last {lastSnapshot})
func (l *Logger) LogProgress(name string, snapshot Snapshot, forceLog bool) {
	l.Lock()
	defer l.Unlock()

	l.receivedSnapshots++
	l.receivedGroups += snapshot.Groups
	l.receivedRejected += snapshot.Rejected
	l.receivedSkipped += snapshot.Skipped
	now := time.Now()
	duration := now.Sub(l.lastLogTime)
	if !forceLog && duration < logInterval {
		return
	}

	// Log information about batch progress.
	l.subsystemLogger.Infof("%s %d %s in the last %0.2fs (%d %s, %d "+
		"rejected, %d skipped, last %s)", l.progressAction,
		l.receivedSnapshots, pickNoun(l.receivedSnapshots, "snapshot",
			"snapshots"), duration.Seconds(),
		l.receivedGroups, pickNoun(l.receivedGroups, "script group",
			"script groups"),
		l.receivedRejected, l.receivedSkipped, name)

	l.receivedSnapshots = 0
	l.receivedGroups = 0
	l.receivedRejected = 0
	l.receivedSkipped = 0
	l.lastLogTime = now
}

// SetLastLogTime updates the last time data was logged to the provided time.
func (l *Logger) SetLastLogTime(time time.Time) {
	l.Lock()
	l.lastLogTime = time
	l.Unlock()
}
