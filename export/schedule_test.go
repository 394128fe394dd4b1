package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fantasy-tiktok-engine/batch"
)

func seedManifest(t *testing.T, outRoot string, week, n int) {
	t.Helper()
	entries := make([]batch.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, batch.Entry{
			Player: fmt.Sprintf("Player %02d", i),
			Week:   week,
			Kind:   "start-sit",
			Path:   fmt.Sprintf("Player_%02d__start-sit.md", i),
		})
	}
	path := filepath.Join(batch.WeekDir(outRoot, week), "manifest.json")
	require.NoError(t, batch.WriteManifestAtomic(path, entries))
}

func readRows(t *testing.T, path string) []map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	header := recs[0]
	rows := make([]map[string]string, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		row := map[string]string{}
		for i, col := range header {
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func TestSchedulerManifestSpreadsTwoToThreePerDay(t *testing.T) {
	outRoot := t.TempDir()
	seedManifest(t, outRoot, 9, 14)

	csvPath, err := GenerateSchedulerManifest(9, "2025-09-29", "America/Los_Angeles", outRoot)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(batch.WeekDir(outRoot, 9), "scheduler_manifest.csv"), csvPath)

	rows := readRows(t, csvPath)
	require.Len(t, rows, 14)

	perDay := map[string]int{}
	for _, row := range rows {
		dt, err := time.Parse(time.RFC3339, row["scheduled_datetime"])
		require.NoError(t, err)
		perDay[dt.Format("2006-01-02")]++
		require.GreaterOrEqual(t, dt.Hour(), 9)
		require.LessOrEqual(t, dt.Hour(), 20)
	}
	require.Len(t, perDay, 7)
	for day, n := range perDay {
		require.GreaterOrEqual(t, n, 2, "day %s", day)
		require.LessOrEqual(t, n, 3, "day %s", day)
	}
}

func TestSchedulerManifestRowFields(t *testing.T) {
	outRoot := t.TempDir()
	seedManifest(t, outRoot, 3, 1)

	csvPath, err := GenerateSchedulerManifest(3, "2025-09-15", "UTC", outRoot)
	require.NoError(t, err)

	rows := readRows(t, csvPath)
	require.Len(t, rows, 1)
	row := rows[0]
	require.Equal(t, "start-sit — Player 00", row["title"])
	require.Equal(t, "Player 00 — start-sit (Week 3)", row["caption"])
	require.Equal(t, filepath.Join("videos", "Player_00__start-sit.mp4"), row["video_path"])
	require.Equal(t, filepath.Join("thumbnails", "Player_00__start-sit.jpg"), row["thumbnail_path"])
	require.Equal(t, "Player 00,start-sit", row["tags"])

	// a lone post lands at noon on the first day
	dt, err := time.Parse(time.RFC3339, row["scheduled_datetime"])
	require.NoError(t, err)
	require.Equal(t, "2025-09-15", dt.Format("2006-01-02"))
	require.Equal(t, 12, dt.Hour())
}

func TestSchedulerManifestMissingManifest(t *testing.T) {
	_, err := GenerateSchedulerManifest(9, "2025-09-29", "UTC", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "manifest not found")
}

func TestDailyCountsFallsBackToEvenSplit(t *testing.T) {
	counts := dailyCounts(10)
	require.Equal(t, []int{2, 2, 2, 1, 1, 1, 1}, counts)

	total := 0
	for _, n := range dailyCounts(25) {
		total += n
	}
	require.Equal(t, 25, total)
}
