// Package guardrails enforces safety and content rules before scripts move
// downstream.
package guardrails

import (
	"fmt"
	"strings"
)

// Result is the outcome of a guardrail check.
type Result struct {
	OK     bool
	Reason string
}

// LengthResult is the outcome of a script length check.
type LengthResult struct {
	OK        bool
	Reason    string
	WordCount int
	Script    string
	Trimmed   bool
}

// LengthMode controls what happens when a script exceeds the word budget.
type LengthMode string

const (
	LengthFail LengthMode = "fail"
	LengthTrim LengthMode = "trim"
)

// AssertNotOut blocks content for players flagged OUT or on injured reserve.
// An unknown status is allowed.
func AssertNotOut(status string) Result {
	if status == "" {
		return Result{OK: true, Reason: "status unknown"}
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "out", "ir", "injured reserve":
		return Result{OK: false, Reason: fmt.Sprintf("Player status = %s", status)}
	}
	return Result{OK: true, Reason: fmt.Sprintf("Player status = %s", status)}
}

// EnforceLength checks a script against maxWords. LengthTrim returns a
// trimmed script instead of failing.
func EnforceLength(script string, maxWords int, mode LengthMode) LengthResult {
	words := strings.Fields(script)
	count := len(words)
	if count <= maxWords {
		return LengthResult{OK: true, Reason: "within_limit", WordCount: count, Script: script}
	}
	if mode != LengthTrim {
		return LengthResult{
			OK:        false,
			Reason:    fmt.Sprintf("too_long: %d words (max %d)", count, maxWords),
			WordCount: count,
			Script:    script,
		}
	}
	return LengthResult{
		OK:        true,
		Reason:    fmt.Sprintf("trimmed_to_%d", maxWords),
		WordCount: maxWords,
		Script:    strings.Join(words[:maxWords], " "),
		Trimmed:   true,
	}
}

// BettingAllowed gates betting language behind an explicit opt-in flag.
func BettingAllowed(enabled bool) Result {
	if enabled {
		return Result{OK: true, Reason: "betting enabled"}
	}
	return Result{OK: false, Reason: "betting features are disabled by default (set ENABLE_BETTING=true to opt-in)"}
}
