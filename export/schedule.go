// Package export turns a week manifest into a posting schedule consumable by
// external scheduler tools.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fantasy-tiktok-engine/batch"
)

const (
	scheduleDays  = 7
	perDayMin     = 2
	perDayMax     = 3
	firstSlotHour = 9
	lastSlotHour  = 20
)

var schedulerColumns = []string{"scheduled_datetime", "title", "caption", "video_path", "thumbnail_path", "tags"}

// GenerateSchedulerManifest reads <outRoot>/week-<week>/manifest.json and
// writes scheduler_manifest.csv next to it, with posting datetimes spread
// evenly across seven days starting at startDate (YYYY-MM-DD). It aims for
// 2-3 posts per day when the entry count allows it. Returns the CSV path.
func GenerateSchedulerManifest(week int, startDate, timezone, outRoot string) (string, error) {
	weekDir := batch.WeekDir(outRoot, week)
	manifestPath := filepath.Join(weekDir, "manifest.json")
	if _, err := os.Stat(manifestPath); err != nil {
		return "", fmt.Errorf("manifest not found: %s", manifestPath)
	}
	entries := batch.ReadManifest(manifestPath)

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Warn().Str("timezone", timezone).Err(err).Msg("[export] unknown timezone, falling back to UTC")
		loc = time.UTC
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(schedulerColumns); err != nil {
		return "", err
	}

	counts := dailyCounts(len(entries))
	idx := 0
	for dayOffset := 0; dayOffset < scheduleDays; dayOffset++ {
		for _, slot := range daySlots(counts[dayOffset]) {
			if idx >= len(entries) {
				break
			}
			e := entries[idx]
			dt := time.Date(start.Year(), start.Month(), start.Day()+dayOffset, slot/60, slot%60, 0, 0, loc)
			stem := strings.TrimSuffix(filepath.Base(e.Path), filepath.Ext(e.Path))
			rec := []string{
				dt.Format(time.RFC3339),
				fmt.Sprintf("%s — %s", e.Kind, e.Player),
				fmt.Sprintf("%s — %s (Week %d)", e.Player, e.Kind, e.Week),
				filepath.Join("videos", stem+".mp4"),
				filepath.Join("thumbnails", stem+".jpg"),
				fmt.Sprintf("%s,%s", e.Player, e.Kind),
			}
			if err := w.Write(rec); err != nil {
				return "", err
			}
			idx++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	csvPath := filepath.Join(weekDir, "scheduler_manifest.csv")
	if err := os.WriteFile(csvPath, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write scheduler manifest: %w", err)
	}
	return csvPath, nil
}

// dailyCounts spreads total entries over the week. Counts that fit 2-3 per
// day start at 2 with the remainder rotated across days; anything else is
// split as evenly as possible with earlier days taking the extras.
func dailyCounts(total int) []int {
	counts := make([]int, scheduleDays)
	if total >= perDayMin*scheduleDays && total <= perDayMax*scheduleDays {
		for i := range counts {
			counts[i] = perDayMin
		}
		for i := 0; i < total-perDayMin*scheduleDays; i++ {
			counts[i%scheduleDays]++
		}
		return counts
	}
	for i := range counts {
		counts[i] = total / scheduleDays
	}
	for i := 0; i < total%scheduleDays; i++ {
		counts[i]++
	}
	return counts
}

// daySlots returns minutes-from-midnight for count posting slots, evenly
// spaced between 09:00 and 20:00. A single post lands at noon.
func daySlots(count int) []int {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []int{12 * 60}
	}
	step := float64(lastSlotHour-firstSlotHour) / float64(count-1)
	slots := make([]int, count)
	for i := range slots {
		h := float64(firstSlotHour) + step*float64(i)
		hour := int(h)
		minute := int((h - float64(hour)) * 60)
		slots[i] = hour*60 + minute
	}
	return slots
}
