package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sathishnaik786/Employee-Management-System-sub000/core"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/lifecycle"
	"github.com/Sathishnaik786/Employee-Management-System-sub000/core/snapshot"
)

// Logger records log calls; it satisfies core.Logger.
type Logger struct {
	mu       sync.Mutex
	Messages map[string][]string // level -> messages
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{Messages: make(map[string][]string)}
}

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages[level] = append(l.Messages[level], msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.log("debug", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.log("info", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.log("warn", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.log("error", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.log("fatal", msg) }

// Logged returns the messages logged at level.
func (l *Logger) Logged(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Messages[level]...)
}

// SnapshotCreator is any store that can seed snapshots.
type SnapshotCreator interface {
	CreateSnapshot(ctx context.Context, snap snapshot.Snapshot) (snapshot.Snapshot, error)
}

func CreateSnapshot(
	t *testing.T,
	repo SnapshotCreator,
	pt lifecycle.ProcessType,
	id string,
	status lifecycle.Status,
	title string,
	dueAt ...time.Time,
) snapshot.Snapshot {
	snap := snapshot.Snapshot{
		ID:        id,
		Process:   pt,
		Status:    status,
		Title:     title,
		UpdatedAt: time.Now().UTC(),
	}
	if len(dueAt) > 0 {
		due := dueAt[0].UTC()
		snap.DueAt = &due
	}
	snap, err := repo.CreateSnapshot(context.Background(), snap)
	if err != nil {
		t.Fatalf("CreateSnapshot() failed: %v", err)
	}
	return snap
}
