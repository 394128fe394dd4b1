package sleeper

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-tiktok-engine/config"
)

func TestFetchPlayerContextMockedWhenDisabled(t *testing.T) {
	agent := New(config.Env{SleeperBaseURL: "https://api.sleeper.app"}, t.TempDir())

	ctx := agent.FetchPlayerContext(context.Background(), "Justin Jefferson", 3, "start-sit")
	assert.True(t, ctx.Mocked)
	assert.False(t, ctx.Blocked)
	assert.Equal(t, "Justin Jefferson", ctx.Player)
	assert.NotEmpty(t, ctx.Summary)
	assert.NotEmpty(t, ctx.TemplateVars()["matchup"])
}

func TestPlayersCacheRespectsTTL(t *testing.T) {
	cacheRoot := t.TempDir()
	agent := New(config.Env{SleeperBaseURL: "https://api.sleeper.app", SleeperEnabled: true}, cacheRoot)

	agent.cacheSave("sleeper_players.json", map[string]playerInfo{
		"123": {FullName: "Patrick Mahomes", Status: "active"},
	})

	var out map[string]playerInfo
	require.True(t, agent.cacheLoad("sleeper_players.json", playersCacheTTL, &out))
	assert.Equal(t, "Patrick Mahomes", out["123"].FullName)

	// A clock past the TTL invalidates the cache.
	agent.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	assert.False(t, agent.cacheLoad("sleeper_players.json", playersCacheTTL, &out))
}

func TestFetchPlayerContextBlocksOutPlayers(t *testing.T) {
	cacheRoot := t.TempDir()
	agent := New(config.Env{SleeperBaseURL: "https://api.sleeper.app", SleeperEnabled: true}, cacheRoot)

	// Seed the players cache so no network call happens.
	agent.cacheSave("sleeper_players.json", map[string]playerInfo{
		"42": {FullName: "Hurt Guy", Status: "out"},
	})

	ctx := agent.FetchPlayerContext(context.Background(), "Hurt Guy", 2, "start-sit")
	assert.True(t, ctx.Blocked)
	assert.Contains(t, ctx.BlockReason, "out")
}

func TestResolverAliasAndFuzzy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.csv")
	require.NoError(t, os.WriteFile(path, []byte("Justin Jefferson,JJettas,J. Jefferson\nPatrick Mahomes,Showtime\n"), 0644))

	r := NewResolver(path)

	res := r.Resolve("JJettas")
	assert.Equal(t, "Justin Jefferson", res.Name)
	assert.Equal(t, "alias", res.Method)

	res = r.Resolve("Justin Jefferson")
	assert.Equal(t, "exact", res.Method)

	res = r.Resolve("Patrik Mahomes")
	assert.Equal(t, "Patrick Mahomes", res.Name)
	assert.Equal(t, "fuzzy", res.Method)

	res = r.Resolve("Totally Unknown Player")
	assert.Equal(t, "passthrough", res.Method)
	assert.Equal(t, "Totally Unknown Player", res.Name)
}

func TestResolverMissingFileIsEmpty(t *testing.T) {
	r := NewResolver(filepath.Join(t.TempDir(), "absent.csv"))
	res := r.Resolve("Anyone")
	assert.Equal(t, "passthrough", res.Method)
}
