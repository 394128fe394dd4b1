package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fantasy-tiktok-engine/types"
)

// Publish failure modes. Both are item-fatal.
var (
	ErrPublishBlocked = errors.New("publishing is blocked")
	ErrMissingCreds   = errors.New("missing TIKTOK_ACCESS_TOKEN or TIKTOK_OPEN_ID in environment")
)

const uploadLedgerName = "tiktok_uploads.json"

// readUploadLedger loads the week's upload ledger. Missing or unparsable
// files are an empty ledger.
func readUploadLedger(path string) types.UploadLedger {
	ledger := types.UploadLedger{Uploads: []types.UploadRecord{}, Skipped: []string{}}
	data, err := os.ReadFile(path)
	if err != nil {
		return ledger
	}
	_ = json.Unmarshal(data, &ledger)
	if ledger.Uploads == nil {
		ledger.Uploads = []types.UploadRecord{}
	}
	if ledger.Skipped == nil {
		ledger.Skipped = []string{}
	}
	return ledger
}

func writeUploadLedger(path string, ledger types.UploadLedger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal upload ledger: %w", err)
	}
	return writeFileAtomic(path, data)
}

// recordSkippedUpload notes a blocked entry in the ledger so an upload run
// leaves a trace even for items that never reached the publish stage.
func recordSkippedUpload(path, entryID string) error {
	ledger := readUploadLedger(path)
	for _, id := range ledger.Skipped {
		if id == entryID {
			return nil
		}
	}
	ledger.Skipped = append(ledger.Skipped, entryID)
	return writeUploadLedger(path, ledger)
}

// publishItem uploads one rendered entry. Preconditions are checked in
// order and each is a hard stop: metadata with an explicit publish_target in
// live mode, ledger idempotency by entry id, credentials in live mode. A
// replay for an already-uploaded entry id returns the existing record and
// performs no upload.
func (r *Runner) publishItem(ctx context.Context, gen types.GenerateRecord, weekDir string) (types.PublishRecord, error) {
	live := !r.Env.DryRun && r.Env.TikTokLive

	if live {
		if err := checkPublishTarget(filepath.Join(weekDir, gen.EntryID+".meta.json"), gen.EntryID); err != nil {
			return types.PublishRecord{}, err
		}
	}

	ledgerPath := filepath.Join(weekDir, uploadLedgerName)
	ledger := readUploadLedger(ledgerPath)
	for i := range ledger.Uploads {
		if ledger.Uploads[i].EntryID == gen.EntryID {
			return types.PublishRecord{EntryID: gen.EntryID, UploadMeta: &ledger.Uploads[i]}, nil
		}
	}

	if live && (r.Env.TikTokAccessToken == "" || r.Env.TikTokOpenID == "") {
		return types.PublishRecord{}, ErrMissingCreds
	}

	video, filename, err := r.videoBytes(gen, weekDir)
	if err != nil {
		return types.PublishRecord{}, err
	}

	accessToken := r.Env.TikTokAccessToken
	openID := r.Env.TikTokOpenID

	init, err := r.Upload.InitUpload(ctx, accessToken, openID, r.Cfg.Upload.Draft)
	if err != nil {
		return types.PublishRecord{}, fmt.Errorf("init upload %s: %w", gen.EntryID, err)
	}
	uploaded, err := r.Upload.UploadVideo(ctx, accessToken, openID, init.UploadID, video, filename)
	if err != nil {
		return types.PublishRecord{}, fmt.Errorf("upload video %s: %w", gen.EntryID, err)
	}
	status, err := r.Upload.CheckUploadStatus(ctx, accessToken, openID, init.UploadID)
	if err != nil {
		return types.PublishRecord{}, fmt.Errorf("check upload %s: %w", gen.EntryID, err)
	}

	rec := types.UploadRecord{
		EntryID:    gen.EntryID,
		UploadID:   init.UploadID,
		Init:       init,
		Upload:     uploaded,
		Status:     status,
		UploadedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ledger.Uploads = append(ledger.Uploads, rec)
	if err := writeUploadLedger(ledgerPath, ledger); err != nil {
		return types.PublishRecord{}, err
	}
	return types.PublishRecord{EntryID: gen.EntryID, UploadMeta: &rec}, nil
}

// checkPublishTarget refuses live publishes without an explicit, reviewed
// publish_target in the entry's metadata. Default approval alone must never
// become a live post.
func checkPublishTarget(metaPath, entryID string) error {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("refusing to publish %s: missing metadata: %w", entryID, err)
	}
	var meta map[string]any
	if err := json.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("refusing to publish %s: malformed metadata: %w", entryID, err)
	}
	target, _ := meta["publish_target"].(string)
	if target == "" {
		if extra, ok := meta["extra"].(map[string]any); ok {
			target, _ = extra["publish_target"].(string)
		}
	}
	if target == "" {
		return fmt.Errorf("%w: no publish_target in metadata for %s", ErrPublishBlocked, entryID)
	}
	return nil
}

// videoBytes prefers the rendered avatar artifact; when none exists it
// uploads an empty placeholder written next to the scripts.
func (r *Runner) videoBytes(gen types.GenerateRecord, weekDir string) ([]byte, string, error) {
	stem := fmt.Sprintf("%s__%s", SafePlayer(gen.Player), gen.Kind)
	avatarVideo := filepath.Join(weekDir, stem, "avatar", "video.mp4")
	if data, err := os.ReadFile(avatarVideo); err == nil {
		return data, filepath.Base(avatarVideo), nil
	}
	placeholder := filepath.Join(weekDir, stem+".mp4")
	if err := os.WriteFile(placeholder, nil, 0644); err != nil {
		return nil, "", fmt.Errorf("write placeholder upload %s: %w", gen.EntryID, err)
	}
	return []byte{}, filepath.Base(placeholder), nil
}
