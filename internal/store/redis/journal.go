package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/scribe/internal/domain"
)

const (
	// DefaultEntryTTL is how long journal entries are kept (30 days)
	DefaultEntryTTL = 30 * 24 * time.Hour
	// RecentMax caps the recent-publishes list length
	RecentMax = 200
)

// Entry is one recorded publish attempt. The journal is observability
// only: publishing never depends on it, and entries expire on their own.
type Entry struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Type      string               `json:"type"`
	Title     string               `json:"title"`
	CreatedBy string               `json:"created_by,omitempty"`
	Result    domain.PublishResult `json:"result"`
}

// Store handles Redis operations for the publish journal
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis journal store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Record stores one publish attempt and returns the assigned entry ID.
func (s *Store) Record(ctx context.Context, sub domain.PostSubmission, result domain.PublishResult) (string, error) {
	entry := Entry{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Type:      string(sub.Type),
		Title:     sub.Title,
		CreatedBy: sub.CreatedBy,
		Result:    result,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, EntryKey(entry.ID), data, DefaultEntryTTL)
	pipe.LPush(ctx, KeyRecent, entry.ID)
	pipe.LTrim(ctx, KeyRecent, 0, RecentMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to record publish: %w", err)
	}

	return entry.ID, nil
}

// Get retrieves a journal entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	data, err := s.client.Get(ctx, EntryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("journal entry not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal journal entry: %w", err)
	}
	return &entry, nil
}

// Recent returns up to limit entries, newest first. IDs whose entries
// already expired are skipped.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 || limit > RecentMax {
		limit = RecentMax
	}

	ids, err := s.client.LRange(ctx, KeyRecent, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent publishes: %w", err)
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := s.Get(ctx, id)
		if err != nil {
			// Expired entry still referenced by the list; the journal
			// GC removes these.
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// PruneDangling removes IDs from the recent list whose entries have
// expired. Returns the number of IDs removed.
func (s *Store) PruneDangling(ctx context.Context) (int, error) {
	ids, err := s.client.LRange(ctx, KeyRecent, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list journal ids: %w", err)
	}

	removed := 0
	for _, id := range ids {
		exists, err := s.client.Exists(ctx, EntryKey(id)).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to check journal entry: %w", err)
		}
		if exists == 0 {
			if err := s.client.LRem(ctx, KeyRecent, 0, id).Err(); err != nil {
				return removed, fmt.Errorf("failed to prune journal id: %w", err)
			}
			removed++
		}
	}
	return removed, nil
}
