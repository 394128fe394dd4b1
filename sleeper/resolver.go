package sleeper

import (
	"encoding/csv"
	"os"
	"strings"
)

// Resolution is the outcome of one name lookup. Score is 0..100.
type Resolution struct {
	Name    string
	Score   float64
	Method  string
	Warning string
}

// Resolver maps free-text player names to canonical spellings via an alias
// CSV (canonical,alias,alias,... per line). A missing file is an empty
// resolver; unresolved names pass through with a warning.
type Resolver struct {
	aliases    map[string]string
	canonicals []string
}

func NewResolver(aliasesPath string) *Resolver {
	r := &Resolver{aliases: map[string]string{}}
	f, err := os.Open(aliasesPath)
	if err != nil {
		return r
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	records, err := rd.ReadAll()
	if err != nil {
		return r
	}
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		canonical := strings.TrimSpace(rec[0])
		if canonical == "" {
			continue
		}
		r.canonicals = append(r.canonicals, canonical)
		for _, alias := range rec[1:] {
			if a := strings.TrimSpace(alias); a != "" {
				r.aliases[strings.ToLower(a)] = canonical
			}
		}
	}
	return r
}

// Resolve finds the best canonical match for name: exact canonical, alias,
// then fuzzy similarity against the canonical list with a fixed threshold.
func (r *Resolver) Resolve(name string) Resolution {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Resolution{Method: "none", Warning: "empty input"}
	}
	for _, c := range r.canonicals {
		if c == trimmed {
			return Resolution{Name: c, Score: 100, Method: "exact"}
		}
	}
	if canonical, ok := r.aliases[strings.ToLower(trimmed)]; ok {
		return Resolution{Name: canonical, Score: 100, Method: "alias"}
	}

	const threshold = 75.0
	best := Resolution{Name: trimmed, Method: "passthrough", Warning: "no canonical match"}
	for _, c := range r.canonicals {
		if score := similarity(trimmed, c); score >= threshold && score > best.Score {
			best = Resolution{Name: c, Score: score, Method: "fuzzy"}
		}
	}
	return best
}

// similarity is a 0..100 ratio based on Levenshtein distance over the longer
// string, case-insensitive.
func similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 100
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return (1 - float64(levenshtein(a, b))/float64(longest)) * 100
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
