package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fantasy-tiktok-engine/adapters"
	"fantasy-tiktok-engine/types"
)

// ErrRenderTimeout is returned when a render job does not complete within
// the polling budget. It is fatal for the item; no video artifact exists.
var ErrRenderTimeout = errors.New("render timed out")

// renderItem drives one avatar render job: submit, persist the submission
// response, poll to completion or timeout, write the video artifact. The
// status snapshot file is overwritten on every tick so a crash mid-poll
// leaves the latest known state on disk.
func (r *Runner) renderItem(ctx context.Context, gen types.GenerateRecord, item types.PlanItem, weekDir string) (types.RenderRecord, error) {
	avatarDir := filepath.Join(weekDir, fmt.Sprintf("%s__%s", SafePlayer(gen.Player), gen.Kind), "avatar")
	if err := os.MkdirAll(avatarDir, 0755); err != nil {
		return types.RenderRecord{}, fmt.Errorf("create avatar dir: %w", err)
	}

	req := adapters.RenderRequest{
		ScriptText: gen.ScriptText,
		AvatarID:   item.AvatarID,
		VoiceID:    item.VoiceID,
	}
	if req.AvatarID == "" {
		req.AvatarID = r.Cfg.Render.AvatarID
	}

	submit, err := r.Render.RenderTextToAvatar(ctx, req)
	if err != nil {
		return types.RenderRecord{}, fmt.Errorf("render submit %s: %w", gen.EntryID, err)
	}
	statusPath := filepath.Join(avatarDir, "render.json")
	if err := writeJSONSnapshot(statusPath, submit); err != nil {
		return types.RenderRecord{}, err
	}

	videoPath := filepath.Join(avatarDir, "video.mp4")
	rec := types.RenderRecord{EntryID: gen.EntryID, AvatarDir: avatarDir}

	if r.Env.DryRun {
		if err := os.WriteFile(videoPath, nil, 0644); err != nil {
			return rec, fmt.Errorf("write placeholder video: %w", err)
		}
		rec.VideoPath = videoPath
		return rec, nil
	}

	interval := time.Duration(r.Cfg.Render.PollIntervalSec) * time.Second
	deadline := time.Now().Add(time.Duration(r.Cfg.Render.MaxPollSec) * time.Second)

	for time.Now().Before(deadline) {
		status, err := r.Render.PollStatus(ctx, submit.VideoID)
		if err != nil {
			return rec, fmt.Errorf("render poll %s: %w", gen.EntryID, err)
		}
		if err := writeJSONSnapshot(statusPath, status); err != nil {
			return rec, err
		}

		if renderComplete(status) {
			payload, err := r.Render.Download(ctx, status.DownloadURL)
			if err != nil {
				// Download is best effort; a placeholder still marks completion.
				payload = nil
			}
			if err := os.WriteFile(videoPath, payload, 0644); err != nil {
				return rec, fmt.Errorf("write video artifact: %w", err)
			}
			rec.VideoPath = videoPath
			return rec, nil
		}

		select {
		case <-ctx.Done():
			return rec, ctx.Err()
		case <-time.After(interval):
		}
	}
	return rec, fmt.Errorf("%w: %s after %ds", ErrRenderTimeout, gen.EntryID, r.Cfg.Render.MaxPollSec)
}

func renderComplete(status adapters.RenderStatus) bool {
	return strings.Contains(strings.ToLower(status.Status), "complete") || status.Progress == 100
}

func writeJSONSnapshot(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}
