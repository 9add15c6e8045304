package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteVerdictStorage {
	t.Helper()
	s := NewSQLiteStorage(filepath.Join(t.TempDir(), "moderation.db"))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveVerdictAndStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	verdicts := []Verdict{
		NewVerdict(uuid.NewString(), 100, 1, 10, 85, "link farm", ActionWarned),
		NewVerdict(uuid.NewString(), 100, 1, 11, 90, "again", ActionWarned),
		NewVerdict(uuid.NewString(), 100, 2, 12, 5, "", ActionCounted),
		NewVerdict(uuid.NewString(), 200, 2, 13, 0, "", ActionPromoted),
	}
	for _, v := range verdicts {
		require.NoError(t, s.SaveVerdict(ctx, v))
	}

	stats, err := s.StatsByChat(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, ChatStat{ChatID: 100, UserID: 1, Action: ActionWarned, Count: 2}, stats[0])
	assert.Equal(t, ChatStat{ChatID: 100, UserID: 2, Action: ActionCounted, Count: 1}, stats[1])
	assert.Equal(t, ChatStat{ChatID: 200, UserID: 2, Action: ActionPromoted, Count: 1}, stats[2])
}

func TestSaveVerdictDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	v := NewVerdict("fixed-id", 1, 1, 1, 0, "", ActionCounted)
	require.NoError(t, s.SaveVerdict(ctx, v))
	assert.Error(t, s.SaveVerdict(ctx, v))
}

func TestStatsByChatEmpty(t *testing.T) {
	s := newTestStorage(t)
	stats, err := s.StatsByChat(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}

func TestNewVerdictStampsTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	v := NewVerdict(uuid.NewString(), 1, 2, 3, 4, "n", ActionCounted)
	assert.True(t, v.CreatedAt.After(before))
}
