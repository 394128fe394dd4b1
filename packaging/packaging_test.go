package packaging

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildCaption(t *testing.T) {
	got := BuildCaption("some script", "start-sit", 5, false)
	if got != "Start Sit — Week 5" {
		t.Fatalf("caption = %q", got)
	}
}

func TestBuildCaptionDryIsDeterministicAndTagged(t *testing.T) {
	a := BuildCaption("script body", "waiver-wire", 3, true)
	b := BuildCaption("script body", "waiver-wire", 3, true)
	if a != b {
		t.Fatalf("dry caption not deterministic: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "[dry-run-") {
		t.Fatalf("dry caption missing tag: %q", a)
	}
	// Different script text yields a different tag.
	c := BuildCaption("other body", "waiver-wire", 3, true)
	if a == c {
		t.Fatal("dry caption tag should depend on script text")
	}
}

func TestBuildCaptionLengthBound(t *testing.T) {
	long := strings.Repeat("trade-thermometer-", 20)
	for _, dry := range []bool{false, true} {
		got := BuildCaption("x", long, 18, dry)
		if n := len([]rune(got)); n > 120 {
			t.Fatalf("caption exceeds 120 chars (dry=%v): %d", dry, n)
		}
	}
}

func TestBuildCaptionTruncatesOnRunes(t *testing.T) {
	// A kind with multibyte characters must never be cut mid-rune.
	long := strings.Repeat("xé", 100)
	got := BuildCaption("x", long, 18, false)
	if !utf8.ValidString(got) {
		t.Fatalf("caption is not valid UTF-8: %q", got)
	}
	if n := len([]rune(got)); n != 120 {
		t.Fatalf("caption rune length = %d, want 120", n)
	}
}

func TestBuildHashtags(t *testing.T) {
	got := BuildHashtags("waiver-wire", 7)
	want := []string{"#FantasyFootball", "#NFL", "#Week7", "#WaiverWire"}
	if len(got) != len(want) {
		t.Fatalf("hashtags = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("hashtags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildMetadata(t *testing.T) {
	m := BuildMetadata("A__b__1", "start-sit", 1, "A", "cap", []string{"#NFL"}, map[string]any{"approved": true})
	if m.ID != "A__b__1" || m.Source != "packaging" {
		t.Fatalf("metadata = %+v", m)
	}
	if m.CreatedAt == "" {
		t.Fatal("created_at not set")
	}
	if m.Extra["approved"] != true {
		t.Fatal("extra.approved not carried")
	}

	// Empty id falls back to a deterministic derived id.
	d1 := BuildMetadata("", "start-sit", 1, "A", "cap", nil, nil)
	d2 := BuildMetadata("", "start-sit", 1, "A", "cap", nil, nil)
	if d1.ID == "" || d1.ID != d2.ID {
		t.Fatalf("derived id not deterministic: %q vs %q", d1.ID, d2.ID)
	}
}

func TestToExportableRoundTrips(t *testing.T) {
	m := BuildMetadata("id-1", "biggest-busts", 2, "P", "cap", BuildHashtags("biggest-busts", 2), nil)
	s, err := ToExportable(m)
	if err != nil {
		t.Fatal(err)
	}
	var back Metadata
	if err := json.Unmarshal([]byte(s), &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != m.ID || back.Caption != m.Caption {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
