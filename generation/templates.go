package generation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fantasy-tiktok-engine/config"
)

// Canonical content kinds. Hyphenated identifiers are canonical everywhere;
// underscored spellings are accepted at the boundary only.
var CanonicalKinds = []string{
	"start-sit",
	"waiver-wire",
	"top-performers",
	"biggest-busts",
	"trade-thermometer",
	"injury-pivot",
}

// Template filenames that do not follow the <kind>.md convention.
var templateFilenameOverrides = map[string]string{
	"start-sit":   "start_sit.md",
	"waiver-wire": "waiver_wire.md",
}

var kindAliases = map[string]string{
	"performers":  "top-performers",
	"busts":       "biggest-busts",
	"waiver_wire": "waiver-wire",
}

// NormalizeKind maps free-text kind tokens to canonical identifiers.
// Unrecognized tokens pass through unchanged so callers can detect invalid
// kinds downstream.
func NormalizeKind(token string) string {
	t := strings.TrimSpace(token)
	if canonical, ok := kindAliases[t]; ok {
		return canonical
	}
	hyphenated := strings.ReplaceAll(t, "_", "-")
	for _, k := range CanonicalKinds {
		if hyphenated == k {
			return k
		}
	}
	return t
}

// NormalizeKinds expands comma-separated tokens and normalizes each.
func NormalizeKinds(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		for _, part := range strings.Split(t, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			out = append(out, NormalizeKind(part))
		}
	}
	return out
}

// ResolveTemplate locates the template file for a kind: canonical dir by
// filename convention, then the legacy dir, then a default canonical path
// that need not exist.
func ResolveTemplate(cfg config.TemplatesConfig, kind string) string {
	fname, ok := templateFilenameOverrides[kind]
	if !ok {
		fname = kind + ".md"
	}

	candidates := []string{
		filepath.Join(cfg.CanonicalDir, fname),
		filepath.Join(cfg.CanonicalDir, kind+".md"),
		filepath.Join(cfg.CanonicalDir, strings.ReplaceAll(kind, "-", "_")+".md"),
		filepath.Join(cfg.LegacyDir, fname),
		filepath.Join(cfg.LegacyDir, kind+".md"),
		filepath.Join(cfg.LegacyDir, strings.ReplaceAll(kind, "-", "_")+".md"),
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return filepath.Join(cfg.CanonicalDir, fname)
}

// LoadTemplateText reads the resolved template, falling back to a minimal
// generic template when no file exists.
func LoadTemplateText(cfg config.TemplatesConfig, kind string) string {
	path := ResolveTemplate(cfg, kind)
	if data, err := os.ReadFile(path); err == nil {
		return string(data)
	}
	return fmt.Sprintf("# %s\n\nWeek {week} update for {player}.", kind)
}
