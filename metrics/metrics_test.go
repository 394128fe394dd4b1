package metrics

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "posts.csv"))
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Upsert(PostRecord{PostID: "p1", Date: "2026-08-29", Views: 100}))
	require.NoError(t, s.Upsert(PostRecord{PostID: "p2", Date: "2026-08-29", Views: 50}))
	require.NoError(t, s.Upsert(PostRecord{PostID: "p1", Date: "2026-08-29", Views: 250}))

	rows, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	got, err := s.Get("p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 250, got.Views)
}

func TestUpsertRequiresPostID(t *testing.T) {
	s := newStore(t)
	assert.Error(t, s.Upsert(PostRecord{Date: "2026-08-29"}))
}

func TestGetMissingReturnsNil(t *testing.T) {
	s := newStore(t)
	got, err := s.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListByDateAndSummarize(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(PostRecord{PostID: "a", Date: "2026-09-01", Views: 10, Likes: 2, EmailSignups: 1}))
	require.NoError(t, s.Upsert(PostRecord{PostID: "b", Date: "2026-09-01", Views: 30, Likes: 4}))
	require.NoError(t, s.Upsert(PostRecord{PostID: "c", Date: "2026-09-02", Views: 99}))

	posts, err := s.ListByDate("2026-09-01")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	sum, err := s.Summarize("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, DailySummary{
		Date:              "2026-09-01",
		TotalPosts:        2,
		TotalViews:        40,
		TotalLikes:        6,
		TotalEmailSignups: 1,
	}, sum)
}

func TestExportWeek(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(PostRecord{PostID: "a", Date: "2026-09-01", Week: 1, Views: 5}))
	require.NoError(t, s.Upsert(PostRecord{PostID: "b", Date: "2026-09-08", Week: 2, Views: 7}))

	out := filepath.Join(t.TempDir(), "week1.csv")
	require.NoError(t, s.ExportWeek(1, out))

	exported, err := NewStore(out).ReadAll()
	require.NoError(t, err)
	require.Len(t, exported, 1)
	assert.Equal(t, "a", exported[0].PostID)

	// An empty week still produces a header-only file.
	empty := filepath.Join(t.TempDir(), "week9.csv")
	require.NoError(t, s.ExportWeek(9, empty))
	none, err := NewStore(empty).ReadAll()
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFloatFieldsRoundTrip(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Upsert(PostRecord{PostID: "r", Date: "2026-09-03", Retention3s: 0.82, CTR: 0.031}))

	got, err := s.Get("r")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.82, got.Retention3s, 1e-9)
	assert.InDelta(t, 0.031, got.CTR, 1e-9)
}
