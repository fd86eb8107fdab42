package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/logger"
)

type fakeJournal struct {
	calls   int
	removed int
	err     error
}

func (f *fakeJournal) PruneDangling(ctx context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

func TestJournalGCCollect(t *testing.T) {
	log := logger.New("error", false)
	j := &fakeJournal{removed: 3}

	gc := NewJournalGC(j, log, time.Hour)
	if err := gc.Collect(context.Background()); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if j.calls != 1 {
		t.Errorf("PruneDangling calls = %d, want 1", j.calls)
	}
}

func TestJournalGCCollectError(t *testing.T) {
	log := logger.New("error", false)
	j := &fakeJournal{err: errors.New("redis down")}

	gc := NewJournalGC(j, log, time.Hour)
	if err := gc.Collect(context.Background()); err == nil {
		t.Error("Collect() should surface journal errors")
	}
}

func TestJournalGCNilJournal(t *testing.T) {
	log := logger.New("error", false)
	gc := NewJournalGC(nil, log, time.Hour)
	if err := gc.Collect(context.Background()); err != nil {
		t.Errorf("Collect() with nil journal should be a no-op, got %v", err)
	}
}
