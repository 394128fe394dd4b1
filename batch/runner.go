// Package batch orchestrates the weekly content pipeline: plan, generate,
// approval gate, optional render, optional publish. Processing is strictly
// sequential; durable state lives in per-week files, never in memory.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"fantasy-tiktok-engine/adapters"
	"fantasy-tiktok-engine/approval"
	"fantasy-tiktok-engine/config"
	"fantasy-tiktok-engine/events"
	"fantasy-tiktok-engine/generation"
	"fantasy-tiktok-engine/guardrails"
	"fantasy-tiktok-engine/packaging"
	"fantasy-tiktok-engine/sleeper"
	"fantasy-tiktok-engine/types"
)

// ErrPlayerBlocked marks a plan item whose player the data agent flagged as
// OUT or on injured reserve. The item is skipped, not the run.
var ErrPlayerBlocked = errors.New("player blocked")

// Runner wires the backends, the approval gate and the event emitter for one
// or more pipeline runs.
type Runner struct {
	Cfg    *config.Config
	Env    config.Env
	Script adapters.ScriptBackend
	Render adapters.RenderBackend
	Upload adapters.UploadBackend
	Gate   *approval.Gate
	Data   *sleeper.Agent
}

// NewRunner builds a runner from config and the environment snapshot. Backend
// construction fails loudly when a live toggle is set without credentials.
func NewRunner(cfg *config.Config, env config.Env) (*Runner, error) {
	script, err := adapters.BuildScript(env)
	if err != nil {
		return nil, err
	}
	render, err := adapters.BuildRender(env)
	if err != nil {
		return nil, err
	}
	upload, err := adapters.BuildUpload(env)
	if err != nil {
		return nil, err
	}
	ledger := approval.NewLedger(cfg.Paths.ApprovalCSV, cfg.Paths.ApprovalJSON)
	return &Runner{
		Cfg:    cfg,
		Env:    env,
		Script: script,
		Render: render,
		Upload: upload,
		Gate:   approval.NewGate(ledger),
		Data:   sleeper.New(env, cfg.Paths.Cache),
	}, nil
}

// WeekDir is the per-week output directory under the output root.
func WeekDir(outRoot string, week int) string {
	return filepath.Join(outRoot, fmt.Sprintf("week-%d", week))
}

// SafePlayer makes a player name filesystem-safe.
func SafePlayer(player string) string {
	return strings.ReplaceAll(player, " ", "_")
}

// RunPipeline runs the full pipeline for one week. Render and publish are
// opt-in; the generate and approval stages always run. An item-fatal error
// aborts the run but leaves already-written manifest state intact.
func (r *Runner) RunPipeline(ctx context.Context, week int, kinds []string, doRender, doUpload bool, outdir string) error {
	if outdir == "" {
		outdir = r.Cfg.Paths.Output
	}
	runID := uuid.NewString()
	runLog := log.With().Str("run_id", runID).Int("week", week).Logger()
	emit := events.New(runLog)

	plan, err := PlanWeek(r.Cfg, week, kinds)
	if err != nil {
		return err
	}

	weekDir := WeekDir(outdir, week)
	if err := os.MkdirAll(weekDir, 0755); err != nil {
		return fmt.Errorf("create week dir: %w", err)
	}

	planRecord := types.PlanRecord{Week: week, Kinds: generation.NormalizeKinds(kinds), Items: plan}
	emit.Emit("plan", planRecord)
	if data, err := json.MarshalIndent(planRecord, "", "  "); err == nil {
		// Best-effort snapshot of the raw plan for later inspection.
		_ = os.WriteFile(filepath.Join(weekDir, "plan.json"), data, 0644)
	}

	manifestPath := filepath.Join(weekDir, "manifest.json")
	entries := ReadManifest(manifestPath)

	for _, item := range plan {
		if item.Kind == "" {
			continue
		}

		gen, err := r.generateItem(ctx, item, week, weekDir)
		if errors.Is(err, ErrPlayerBlocked) {
			runLog.Warn().Str("player", item.Player).Str("kind", item.Kind).Err(err).Msg("skipping blocked player")
			continue
		}
		if err != nil {
			return err
		}
		emit.Emit("generate", gen)

		entries = Upsert(entries, Entry{
			Player: item.Player,
			Week:   week,
			Kind:   item.Kind,
			Path:   filepath.Base(gen.ScriptPath),
		})
		if err := WriteManifestAtomic(manifestPath, entries); err != nil {
			return err
		}
		if err := WriteManifestCSV(filepath.Join(weekDir, "manifest.csv"), entries); err != nil {
			return err
		}

		decision, err := r.Gate.Decide(gen.EntryID, item.Player, item.Kind, week, weekDir)
		if err != nil {
			return err
		}
		emit.Emit("approve", decision)

		if !decision.Approved {
			if err := r.writeMetadata(gen, map[string]any{"approved": false}, weekDir); err != nil {
				return err
			}
			runLog.Info().Str("entry_id", gen.EntryID).Msg("skipped: not approved")
			if doUpload {
				if err := recordSkippedUpload(filepath.Join(weekDir, "tiktok_uploads.json"), gen.EntryID); err != nil {
					return err
				}
			}
			continue
		}

		extra := map[string]any{"approved": true}
		if decision.Approver != nil {
			extra["approver"] = decision.Approver
		}
		if err := r.writeMetadata(gen, extra, weekDir); err != nil {
			return err
		}

		if doRender {
			rendered, err := r.renderItem(ctx, gen, item, weekDir)
			if err != nil {
				return err
			}
			emit.Emit("render", rendered)
		}

		if doUpload {
			published, err := r.publishItem(ctx, gen, weekDir)
			if err != nil {
				return err
			}
			emit.Emit("publish", published)
		}
	}
	return nil
}

// generateItem runs the generation stage for one plan item: script text via
// the backend, length guardrail, deterministic script file under the week
// directory. The script write is intentionally not atomic; the content is
// re-derivable on the next run.
func (r *Runner) generateItem(ctx context.Context, item types.PlanItem, week int, weekDir string) (types.GenerateRecord, error) {
	extra := map[string]string{
		"day_slot": fmt.Sprint(item.DaySlot),
	}
	if item.AvatarID != "" {
		extra["avatar_id"] = item.AvatarID
	}
	if r.Data != nil {
		pctx := r.Data.FetchPlayerContext(ctx, item.Player, week, item.Kind)
		if pctx.Blocked {
			return types.GenerateRecord{}, fmt.Errorf("%w: %s: %s", ErrPlayerBlocked, item.Player, pctx.BlockReason)
		}
		for k, v := range pctx.TemplateVars() {
			extra[k] = v
		}
	}
	script, err := generation.GenerateScript(ctx, r.Script, r.Cfg, item.Kind, week, item.Player, extra)
	if err != nil {
		return types.GenerateRecord{}, err
	}

	if r.Cfg.Script.MaxWords > 0 {
		check := guardrails.EnforceLength(script, r.Cfg.Script.MaxWords, guardrails.LengthTrim)
		if check.Trimmed {
			log.Warn().Str("player", item.Player).Str("kind", item.Kind).Str("reason", check.Reason).Msg("script trimmed")
		}
		script = check.Script
	}

	filename := fmt.Sprintf("%s__%s.md", SafePlayer(item.Player), item.Kind)
	scriptPath := filepath.Join(weekDir, filename)
	if err := os.WriteFile(scriptPath, []byte(script), 0644); err != nil {
		return types.GenerateRecord{}, fmt.Errorf("write script %s: %w", filename, err)
	}

	return types.GenerateRecord{
		EntryID:    types.EntryID(item.Player, item.Kind, week),
		Player:     item.Player,
		Kind:       item.Kind,
		Week:       week,
		ScriptPath: scriptPath,
		ScriptText: script,
	}, nil
}

// writeMetadata builds packaging metadata for one entry and overwrites its
// meta file. Re-runs are deterministic apart from the created_at stamp.
func (r *Runner) writeMetadata(gen types.GenerateRecord, extra map[string]any, weekDir string) error {
	caption := packaging.BuildCaption(gen.ScriptText, gen.Kind, gen.Week, r.Env.DryRun)
	hashtags := packaging.BuildHashtags(gen.Kind, gen.Week)
	meta := packaging.BuildMetadata(gen.EntryID, gen.Kind, gen.Week, gen.Player, caption, hashtags, extra)
	out, err := packaging.ToExportable(meta)
	if err != nil {
		return fmt.Errorf("package %s: %w", gen.EntryID, err)
	}
	path := filepath.Join(weekDir, gen.EntryID+".meta.json")
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write metadata %s: %w", gen.EntryID, err)
	}
	return nil
}
