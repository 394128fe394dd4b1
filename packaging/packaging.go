// Package packaging builds caption, hashtags and exportable metadata for a
// generated script. Output is deterministic when dry mode is enabled.
package packaging

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const captionMaxLen = 120

// Metadata is the packaging output persisted as <entry_id>.meta.json.
type Metadata struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Week      int            `json:"week"`
	Player    string         `json:"player,omitempty"`
	Caption   string         `json:"caption"`
	Hashtags  []string       `json:"hashtags"`
	CreatedAt string         `json:"created_at"`
	Source    string         `json:"source"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// seed returns a short deterministic hex string for the given parts.
func seed(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:10]
}

// BuildCaption renders "{Kind Title Case} — Week {week}", capped at 120
// characters. Dry mode prefixes a deterministic tag before truncation.
func BuildCaption(scriptText, kind string, week int, dryRun bool) string {
	base := fmt.Sprintf("%s — Week %d", titleCaseKind(kind), week)
	if dryRun {
		base = fmt.Sprintf("[dry-run-%s] %s", seed(kind, fmt.Sprint(week), scriptText), base)
	}
	if r := []rune(base); len(r) > captionMaxLen {
		return string(r[:captionMaxLen])
	}
	return base
}

// BuildHashtags returns the fixed tag set for a kind and week.
func BuildHashtags(kind string, week int) []string {
	tags := []string{"#FantasyFootball", "#NFL", fmt.Sprintf("#Week%d", week)}
	if norm := pascalCaseKind(kind); norm != "" {
		tags = append(tags, "#"+norm)
	}
	return tags
}

// BuildMetadata assembles the exportable record. The extra "approved" flag
// distinguishes review-only from publish-eligible records.
func BuildMetadata(id, kind string, week int, player, caption string, hashtags []string, extra map[string]any) Metadata {
	if id == "" {
		id = seed(kind, fmt.Sprint(week), player)
	}
	return Metadata{
		ID:        id,
		Kind:      kind,
		Week:      week,
		Player:    player,
		Caption:   caption,
		Hashtags:  hashtags,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Source:    "packaging",
		Extra:     extra,
	}
}

// ToExportable returns the compact JSON form for export/storage.
func ToExportable(m Metadata) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

func titleCaseKind(kind string) string {
	parts := strings.Split(kind, "-")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func pascalCaseKind(kind string) string {
	var sb strings.Builder
	for _, p := range strings.Split(kind, "-") {
		sb.WriteString(capitalize(p))
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
