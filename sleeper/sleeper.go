// Package sleeper fetches player context from the Sleeper API with a local
// file cache. When the API is disabled or unreachable the agent falls back
// to a mocked context so the pipeline keeps working without secrets.
package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"fantasy-tiktok-engine/adapters"
	"fantasy-tiktok-engine/config"
	"fantasy-tiktok-engine/guardrails"
)

const (
	playersCacheTTL = 24 * time.Hour
	statsCacheTTL   = 6 * time.Hour
)

// PlayerContext is the structured context handed to script generation.
type PlayerContext struct {
	Player       string         `json:"player"`
	Week         int            `json:"week"`
	Kind         string         `json:"kind"`
	Blocked      bool           `json:"blocked,omitempty"`
	BlockReason  string         `json:"block_reason,omitempty"`
	Matchup      string         `json:"matchup,omitempty"`
	RosteredPct  float64        `json:"rostered_pct,omitempty"`
	Trend        string         `json:"trend,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	ResolvedName string         `json:"resolved_name,omitempty"`
	LastStats    map[string]any `json:"last_game_stats,omitempty"`
	Projection   map[string]any `json:"projection,omitempty"`
	Mocked       bool           `json:"mocked,omitempty"`
}

// TemplateVars flattens the context into template substitution variables.
func (c PlayerContext) TemplateVars() map[string]string {
	vars := map[string]string{
		"matchup":      c.Matchup,
		"trend":        c.Trend,
		"summary":      c.Summary,
		"rostered_pct": fmt.Sprintf("%.0f", c.RosteredPct),
	}
	if c.ResolvedName != "" {
		vars["resolved_name"] = c.ResolvedName
	}
	return vars
}

// Agent talks to the Sleeper API. Zero value is not usable; build with New.
type Agent struct {
	baseURL  string
	enabled  bool
	cacheDir string
	client   *adapters.Client
	resolver *Resolver
	now      func() time.Time
}

// New builds an agent from the environment snapshot. cacheRoot is the
// pipeline cache directory; sleeper data lives in its sleeper/ subdirectory.
func New(env config.Env, cacheRoot string) *Agent {
	return &Agent{
		baseURL:  strings.TrimRight(env.SleeperBaseURL, "/"),
		enabled:  env.SleeperEnabled,
		cacheDir: filepath.Join(cacheRoot, "sleeper"),
		client:   adapters.NewClient(10 * time.Second),
		resolver: NewResolver(filepath.Join(cacheRoot, "resolver", "aliases.csv")),
		now:      time.Now,
	}
}

type cacheEnvelope struct {
	CachedAt int64           `json:"_cached_at"`
	Data     json.RawMessage `json:"data"`
}

func (a *Agent) cacheLoad(name string, ttl time.Duration, out any) bool {
	data, err := os.ReadFile(filepath.Join(a.cacheDir, name))
	if err != nil {
		return false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	if a.now().Unix()-env.CachedAt >= int64(ttl.Seconds()) {
		return false
	}
	return json.Unmarshal(env.Data, out) == nil
}

func (a *Agent) cacheSave(name string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	env, err := json.Marshal(cacheEnvelope{CachedAt: a.now().Unix(), Data: payload})
	if err != nil {
		return
	}
	if err := os.MkdirAll(a.cacheDir, 0755); err != nil {
		return
	}
	path := filepath.Join(a.cacheDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, env, 0644); err != nil {
		return
	}
	_ = os.Rename(tmp, path)
}

type playerInfo struct {
	FullName     string         `json:"full_name"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Status       string         `json:"status"`
	InjuryStatus string         `json:"injury_status"`
	Fantasy      map[string]any `json:"fantasy"`
}

// players returns the league-wide player metadata, cached for 24 hours.
func (a *Agent) players(ctx context.Context) map[string]playerInfo {
	var cached map[string]playerInfo
	if a.cacheLoad("sleeper_players.json", playersCacheTTL, &cached) {
		return cached
	}
	if !a.enabled {
		return nil
	}
	var fresh map[string]playerInfo
	if err := a.client.DoJSON(ctx, "GET", a.baseURL+"/v1/players/nfl", nil, nil, &fresh); err != nil {
		log.Warn().Err(err).Msg("[sleeper] players fetch failed")
		return nil
	}
	a.cacheSave("sleeper_players.json", fresh)
	return fresh
}

type weeklyData struct {
	Stats      map[string]any `json:"stats"`
	Projection map[string]any `json:"projections"`
}

// weeklyStats returns per-player weekly stats and projections, cached for 6
// hours. Errors degrade to nil; the caller mocks what it cannot fetch.
func (a *Agent) weeklyStats(ctx context.Context, playerID string, year, week int) *weeklyData {
	name := fmt.Sprintf("%s_stats_%d_%d.json", playerID, year, week)
	var cached weeklyData
	if a.cacheLoad(name, statsCacheTTL, &cached) {
		return &cached
	}
	if !a.enabled {
		return nil
	}

	var proj map[string]any
	if err := a.client.DoJSON(ctx, "GET",
		fmt.Sprintf("%s/v1/projections/nfl/regular/%d/%d", a.baseURL, year, week), nil, nil, &proj); err != nil {
		proj = nil
	}
	var stats map[string]any
	if err := a.client.DoJSON(ctx, "GET",
		fmt.Sprintf("%s/v1/stats/nfl/regular/%d/%d", a.baseURL, year, week), nil, nil, &stats); err != nil {
		stats = nil
	}
	data := weeklyData{Stats: pick(stats, playerID), Projection: pick(proj, playerID)}
	a.cacheSave(name, data)
	return &data
}

func pick(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return nil
}

func findPlayerID(name string, players map[string]playerInfo) (string, playerInfo) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for id, info := range players {
		if strings.ToLower(info.FullName) == lower {
			return id, info
		}
		if strings.ToLower(info.FirstName+" "+info.LastName) == lower {
			return id, info
		}
	}
	return "", playerInfo{}
}

// FetchPlayerContext returns the context used by script generation. OUT/IR
// players come back blocked; anything the live path cannot supply comes
// back mocked rather than failing the pipeline.
func (a *Agent) FetchPlayerContext(ctx context.Context, player string, week int, kind string) PlayerContext {
	resolved := a.resolver.Resolve(player)
	out := PlayerContext{Player: player, Week: week, Kind: kind, ResolvedName: resolved.Name}

	players := a.players(ctx)
	if a.enabled && players != nil {
		lookup := player
		if resolved.Name != "" {
			lookup = resolved.Name
		}
		if id, info := findPlayerID(lookup, players); id != "" {
			status := info.Status
			if status == "" {
				status = info.InjuryStatus
			}
			if check := guardrails.AssertNotOut(status); !check.OK {
				out.Blocked = true
				out.BlockReason = check.Reason
				return out
			}

			weekly := a.weeklyStats(ctx, id, a.now().Year(), week)
			if weekly != nil {
				out.LastStats = weekly.Stats
				out.Projection = weekly.Projection
			}
			out.Matchup = "TBD"
			out.Trend = "steady"
			out.Summary = fmt.Sprintf("%s data from Sleeper", player)
			if pct, ok := info.Fantasy["ownership"].(float64); ok {
				out.RosteredPct = pct
			}
			return out
		}
	}

	return mockContext(out)
}

// mockContext fills deterministic placeholder data so local runs always have
// complete template variables.
func mockContext(base PlayerContext) PlayerContext {
	base.Mocked = true
	base.Matchup = "TBD"
	base.Trend = "steady"
	base.RosteredPct = 50
	base.Summary = fmt.Sprintf("%s outlook for week %d", base.Player, base.Week)
	return base
}
