// Package approval manages the external approval ledger and the gate that
// blocks unapproved entries from render and publish.
package approval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Row is one approval ledger record. All fields are strings: the ledger is
// CSV-first and reviewers edit it by hand.
type Row struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Player    string `json:"player"`
	Week      string `json:"week"`
	Approved  string `json:"approved"`
	Reviewer  string `json:"reviewer"`
	Note      string `json:"note"`
	UpdatedAt string `json:"updated_at"`
}

var ledgerColumns = []string{"id", "type", "player", "week", "approved", "reviewer", "note", "updated_at"}

// Ledger reads and writes the approval manifest (CSV with a JSON mirror).
type Ledger struct {
	CSVPath  string
	JSONPath string
}

func NewLedger(csvPath, jsonPath string) *Ledger {
	return &Ledger{CSVPath: csvPath, JSONPath: jsonPath}
}

// Read returns the ledger rows, preferring the CSV over the JSON mirror.
// A missing ledger is an empty one.
func (l *Ledger) Read() ([]Row, error) {
	if rows, err := l.readCSV(); err == nil {
		return rows, nil
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(l.JSONPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse approval ledger %s: %w", l.JSONPath, err)
	}
	return rows, nil
}

func (l *Ledger) readCSV() ([]Row, error) {
	f, err := os.Open(l.CSVPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse approval ledger %s: %w", l.CSVPath, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{
			ID:        field(rec, "id"),
			Type:      field(rec, "type"),
			Player:    field(rec, "player"),
			Week:      field(rec, "week"),
			Approved:  field(rec, "approved"),
			Reviewer:  field(rec, "reviewer"),
			Note:      field(rec, "note"),
			UpdatedAt: field(rec, "updated_at"),
		})
	}
	return rows, nil
}

// Write persists rows to the CSV and its JSON mirror.
func (l *Ledger) Write(rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(l.CSVPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(l.CSVPath)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(ledgerColumns); err != nil {
		f.Close()
		return err
	}
	for _, row := range rows {
		rec := []string{row.ID, row.Type, row.Player, row.Week, row.Approved, row.Reviewer, row.Note, row.UpdatedAt}
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
	if err := f.Close(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.JSONPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.JSONPath, data, 0644)
}

// Set marks an entry approved or rejected, creating a minimal row when the
// entry id is not present yet.
func (l *Ledger) Set(entryID string, approved bool, reviewer, note string) error {
	rows, err := l.Read()
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	value := "false"
	if approved {
		value = "true"
	}

	found := false
	for i := range rows {
		if rows[i].ID == entryID {
			rows[i].Approved = value
			rows[i].Reviewer = reviewer
			rows[i].Note = note
			rows[i].UpdatedAt = now
			found = true
		}
	}
	if !found {
		rows = append(rows, Row{
			ID:        entryID,
			Approved:  value,
			Reviewer:  reviewer,
			Note:      note,
			UpdatedAt: now,
		})
	}
	return l.Write(rows)
}

// Init seeds the ledger, overwriting any existing one.
func (l *Ledger) Init(sample []Row) error {
	return l.Write(sample)
}
