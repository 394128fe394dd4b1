package guardrails

import (
	"strings"
	"testing"
)

func TestAssertNotOut(t *testing.T) {
	tests := []struct {
		status string
		ok     bool
	}{
		{"", true},
		{"active", true},
		{"Questionable", true},
		{"OUT", false},
		{"out", false},
		{"IR", false},
		{"injured reserve", false},
	}
	for _, tt := range tests {
		if got := AssertNotOut(tt.status); got.OK != tt.ok {
			t.Errorf("AssertNotOut(%q).OK = %v, want %v", tt.status, got.OK, tt.ok)
		}
	}
}

func TestEnforceLengthWithinLimit(t *testing.T) {
	res := EnforceLength("one two three", 70, LengthFail)
	if !res.OK || res.WordCount != 3 || res.Trimmed {
		t.Fatalf("result = %+v", res)
	}
}

func TestEnforceLengthFailMode(t *testing.T) {
	long := strings.Repeat("word ", 100)
	res := EnforceLength(long, 70, LengthFail)
	if res.OK || res.WordCount != 100 {
		t.Fatalf("result = %+v", res)
	}
}

func TestEnforceLengthTrimMode(t *testing.T) {
	long := strings.Repeat("word ", 100)
	res := EnforceLength(long, 70, LengthTrim)
	if !res.OK || !res.Trimmed || res.WordCount != 70 {
		t.Fatalf("result = %+v", res)
	}
	if got := len(strings.Fields(res.Script)); got != 70 {
		t.Fatalf("trimmed script has %d words", got)
	}
}

func TestBettingAllowed(t *testing.T) {
	if BettingAllowed(false).OK {
		t.Fatal("betting should be disabled by default")
	}
	if !BettingAllowed(true).OK {
		t.Fatal("betting opt-in not honored")
	}
}
