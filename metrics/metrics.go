// Package metrics is a CSV-backed store for per-post engagement numbers.
// Metrics are advisory; store failures log and never break the pipeline
// stages that report into it.
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// PostRecord is one published post's engagement snapshot.
type PostRecord struct {
	PostID       string  `json:"post_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Player       string  `json:"player,omitempty"`
	Type         string  `json:"type,omitempty"`
	Views        int     `json:"views"`
	Likes        int     `json:"likes"`
	Comments     int     `json:"comments"`
	Shares       int     `json:"shares"`
	Retention3s  float64 `json:"retention_3s"`
	Retention10s float64 `json:"retention_10s"`
	CTR          float64 `json:"ctr"`
	EmailSignups int     `json:"email_signups"`
	UTMCampaign  string  `json:"utm_campaign,omitempty"`
	Week         int     `json:"week,omitempty"`
}

// DailySummary aggregates all posts recorded for one date.
type DailySummary struct {
	Date              string `json:"date"`
	TotalPosts        int    `json:"total_posts"`
	TotalViews        int    `json:"total_views"`
	TotalLikes        int    `json:"total_likes"`
	TotalComments     int    `json:"total_comments"`
	TotalShares       int    `json:"total_shares"`
	TotalEmailSignups int    `json:"total_email_signups"`
}

var columns = []string{
	"post_id", "date", "player", "type",
	"views", "likes", "comments", "shares",
	"retention_3s", "retention_10s", "ctr", "email_signups",
	"utm_campaign", "week",
}

// Store persists post records in one CSV file.
type Store struct {
	path string
}

func NewStore(csvPath string) *Store {
	return &Store{path: csvPath}
}

// ReadAll returns every stored record. A missing file is an empty store.
func (s *Store) ReadAll() ([]PostRecord, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse metrics store %s: %w", s.path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		idx[h] = i
	}
	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	out := make([]PostRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, PostRecord{
			PostID:       field(rec, "post_id"),
			Date:         field(rec, "date"),
			Player:       field(rec, "player"),
			Type:         field(rec, "type"),
			Views:        atoi(field(rec, "views")),
			Likes:        atoi(field(rec, "likes")),
			Comments:     atoi(field(rec, "comments")),
			Shares:       atoi(field(rec, "shares")),
			Retention3s:  atof(field(rec, "retention_3s")),
			Retention10s: atof(field(rec, "retention_10s")),
			CTR:          atof(field(rec, "ctr")),
			EmailSignups: atoi(field(rec, "email_signups")),
			UTMCampaign:  field(rec, "utm_campaign"),
			Week:         atoi(field(rec, "week")),
		})
	}
	return out, nil
}

// Upsert inserts or replaces the record with the same post id.
func (s *Store) Upsert(record PostRecord) error {
	if record.PostID == "" {
		return fmt.Errorf("metrics record needs a post_id")
	}
	rows, err := s.ReadAll()
	if err != nil {
		return err
	}
	replaced := false
	for i := range rows {
		if rows[i].PostID == record.PostID {
			rows[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		rows = append(rows, record)
	}
	return s.writeAll(rows)
}

// Get returns the record for a post id, or nil when absent.
func (s *Store) Get(postID string) (*PostRecord, error) {
	rows, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].PostID == postID {
			return &rows[i], nil
		}
	}
	return nil, nil
}

// ListByDate returns all records for one YYYY-MM-DD date.
func (s *Store) ListByDate(date string) ([]PostRecord, error) {
	rows, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []PostRecord
	for _, r := range rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

// Summarize aggregates one date into a DailySummary.
func (s *Store) Summarize(date string) (DailySummary, error) {
	posts, err := s.ListByDate(date)
	if err != nil {
		return DailySummary{}, err
	}
	sum := DailySummary{Date: date, TotalPosts: len(posts)}
	for _, p := range posts {
		sum.TotalViews += p.Views
		sum.TotalLikes += p.Likes
		sum.TotalComments += p.Comments
		sum.TotalShares += p.Shares
		sum.TotalEmailSignups += p.EmailSignups
	}
	return sum, nil
}

// ExportWeek writes the records for one week into a standalone CSV.
func (s *Store) ExportWeek(week int, outPath string) error {
	rows, err := s.ReadAll()
	if err != nil {
		return err
	}
	var filtered []PostRecord
	for _, r := range rows {
		if r.Week == week {
			filtered = append(filtered, r)
		}
	}
	out := &Store{path: outPath}
	return out.writeAll(filtered)
}

func (s *Store) writeAll(rows []PostRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.PostID, r.Date, r.Player, r.Type,
			strconv.Itoa(r.Views), strconv.Itoa(r.Likes), strconv.Itoa(r.Comments), strconv.Itoa(r.Shares),
			ftoa(r.Retention3s), ftoa(r.Retention10s), ftoa(r.CTR), strconv.Itoa(r.EmailSignups),
			r.UTMCampaign, strconv.Itoa(r.Week),
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
