package approval

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fantasy-tiktok-engine/types"
)

// Gate decides whether an entry may proceed to render/publish, backed by
// the approval ledger. Blocked decisions leave an audit trail.
type Gate struct {
	ledger *Ledger
}

func NewGate(ledger *Ledger) *Gate {
	return &Gate{ledger: ledger}
}

// auditLine is one JSON line appended to audit/skipped.log.
type auditLine struct {
	TS       string `json:"ts"`
	EntryID  string `json:"entry_id"`
	Action   string `json:"action"`
	Reviewer string `json:"reviewer"`
	Note     string `json:"note"`
}

// Decide looks up the entry in the ledger: exact entry-id match first, then
// the first row whose (player, week, type) triple matches, in ledger order.
// On a blocked decision one audit line is appended under outRoot.
func (g *Gate) Decide(entryID, player, kind string, week int, outRoot string) (types.ApproveRecord, error) {
	rows, err := g.ledger.Read()
	if err != nil {
		return types.ApproveRecord{}, fmt.Errorf("read approval ledger: %w", err)
	}

	weekStr := strconv.Itoa(week)
	var matched *Row
	for i := range rows {
		r := &rows[i]
		if r.ID == entryID || (r.Player == player && r.Week == weekStr && r.Type == kind) {
			matched = r
			break
		}
	}

	rec := types.ApproveRecord{EntryID: entryID}
	if matched != nil {
		rec.Approved = isApproved(matched.Approved)
		rec.Approver = map[string]string{
			"id":         matched.ID,
			"reviewer":   matched.Reviewer,
			"note":       matched.Note,
			"updated_at": matched.UpdatedAt,
		}
	}

	if !rec.Approved {
		reviewer, note := "none", "not in manifest"
		if matched != nil {
			reviewer, note = matched.Reviewer, matched.Note
		}
		if err := appendAudit(outRoot, auditLine{
			TS:       time.Now().UTC().Format(time.RFC3339),
			EntryID:  entryID,
			Action:   "skipped",
			Reviewer: reviewer,
			Note:     note,
		}); err != nil {
			return rec, fmt.Errorf("write audit line: %w", err)
		}
	}
	return rec, nil
}

// isApproved accepts the truthy spellings reviewers use in the ledger.
func isApproved(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// appendAudit appends one JSON line to <outRoot>/audit/skipped.log. The log
// is append-only; it is never truncated here.
func appendAudit(outRoot string, line auditLine) error {
	auditDir := filepath.Join(outRoot, "audit")
	if err := os.MkdirAll(auditDir, 0755); err != nil {
		return err
	}
	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(auditDir, "skipped.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}
