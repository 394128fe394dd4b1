package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Entry is one manifest record. Core fields are fixed; Extra carries any
// additional keys found in persisted manifests so they survive rewrites.
type Entry struct {
	Player string
	Week   int
	Kind   string
	Path   string
	Extra  map[string]any
}

var manifestCoreColumns = []string{"player", "week", "kind", "path"}

// MarshalJSON flattens core fields and extras into one object.
func (e Entry) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"player": e.Player,
		"week":   e.Week,
		"kind":   e.Kind,
		"path":   e.Path,
	}
	for k, v := range e.Extra {
		if _, core := m[k]; !core {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON splits an object back into core fields and extras.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	e.Player = stringValue(m["player"])
	e.Kind = stringValue(m["kind"])
	e.Path = stringValue(m["path"])
	e.Week = intValue(m["week"])
	for _, k := range manifestCoreColumns {
		delete(m, k)
	}
	if len(m) > 0 {
		e.Extra = m
	}
	return nil
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// intValue coerces a week value to int, defaulting to 0.
func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type entryKey struct {
	player string
	kind   string
	week   int
}

func keyOf(e Entry) entryKey {
	return entryKey{
		player: normalizeField(e.Player),
		kind:   normalizeField(e.Kind),
		week:   e.Week,
	}
}

// ReadManifest returns manifest entries. A missing or unparsable file is an
// empty manifest: reads never fail the pipeline.
func ReadManifest(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Str("path", path).Err(err).Msg("[manifest] unparsable manifest treated as empty")
		return nil
	}
	return entries
}

// Upsert inserts or replaces newEntry by its normalized (player, kind, week)
// key and returns the entries resorted by (week, player, kind). Existing
// entries are collapsed through the same keying, so a manifest that arrived
// with duplicate identity keys leaves with at most one entry per key (the
// last occurrence wins).
func Upsert(entries []Entry, newEntry Entry) []Entry {
	newEntry.Player = strings.TrimSpace(newEntry.Player)
	newEntry.Kind = strings.TrimSpace(newEntry.Kind)

	byKey := make(map[entryKey]Entry, len(entries)+1)
	for _, e := range entries {
		byKey[keyOf(e)] = e
	}
	byKey[keyOf(newEntry)] = newEntry

	out := make([]Entry, 0, len(byKey))
	for _, e := range byKey {
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if p, q := normalizeField(a.Player), normalizeField(b.Player); p != q {
			return p < q
		}
		return normalizeField(a.Kind) < normalizeField(b.Kind)
	})
	return out
}

// WriteManifestAtomic serializes entries to a temp file in the destination
// directory, syncs it, and renames it over the target. Readers never observe
// a partial manifest. Write failures are fatal to the caller.
func WriteManifestAtomic(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeFileAtomic(path, data)
}

// WriteManifestCSV mirrors entries to CSV: fixed core columns followed by
// the sorted union of extra keys across all entries.
func WriteManifestCSV(path string, entries []Entry) error {
	extraSet := map[string]bool{}
	for _, e := range entries {
		for k := range e.Extra {
			extraSet[k] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	header := append(append([]string{}, manifestCoreColumns...), extras...)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{e.Player, strconv.Itoa(e.Week), e.Kind, e.Path}
		for _, k := range extras {
			if v, ok := e.Extra[k]; ok && v != nil {
				rec = append(rec, stringValue(v))
			} else {
				rec = append(rec, "")
			}
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(sb.String()))
}

// writeFileAtomic is the shared temp+fsync+rename write.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
