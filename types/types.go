package types

import "fmt"

// PlanItem is one (player, kind, day-slot) assignment produced by the
// planner for a given week. Items are immutable once planned.
type PlanItem struct {
	Player   string `json:"player"`
	Kind     string `json:"kind"`
	Template string `json:"template,omitempty"`
	DaySlot  int    `json:"day_slot"`
	AvatarID string `json:"avatar_id,omitempty"`
	VoiceID  string `json:"voice_id,omitempty"`
}

// GenerateRecord is the output of the generation step for one plan item.
// EntryID is the canonical identity shared by approval, render and publish.
type GenerateRecord struct {
	EntryID    string `json:"entry_id"`
	Player     string `json:"player"`
	Kind       string `json:"kind"`
	Week       int    `json:"week"`
	ScriptPath string `json:"script_path"`
	ScriptText string `json:"script_text"`
}

// EntryID builds the canonical cross-step identity for a plan item.
func EntryID(player, kind string, week int) string {
	return fmt.Sprintf("%s__%s__%d", player, kind, week)
}

// ApproveRecord is the approval gate decision for one entry.
// Approver holds the matched ledger row fields, when a row matched.
type ApproveRecord struct {
	EntryID  string            `json:"entry_id"`
	Approved bool              `json:"approved"`
	Approver map[string]string `json:"approver,omitempty"`
}

// RenderRecord is the result of the render step.
type RenderRecord struct {
	EntryID   string `json:"entry_id"`
	AvatarDir string `json:"avatar_dir"`
	VideoPath string `json:"video_path,omitempty"`
}

// UploadRecord is one completed upload as persisted in the upload ledger.
// The three backend responses are stored together so a single ledger row
// captures the whole exchange.
type UploadRecord struct {
	EntryID    string `json:"entry_id"`
	UploadID   string `json:"upload_id"`
	Init       any    `json:"init,omitempty"`
	Upload     any    `json:"upload,omitempty"`
	Status     any    `json:"status,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

// PublishRecord is the result of the publish step.
type PublishRecord struct {
	EntryID    string        `json:"entry_id"`
	UploadMeta *UploadRecord `json:"upload_meta,omitempty"`
}

// UploadLedger is the persisted tiktok_uploads.json shape.
type UploadLedger struct {
	Uploads []UploadRecord `json:"uploads"`
	Skipped []string       `json:"skipped"`
}

// PlanRecord is the payload for a planned lifecycle event.
type PlanRecord struct {
	Week  int        `json:"week"`
	Kinds []string   `json:"kinds,omitempty"`
	Items []PlanItem `json:"items"`
}
