package adapters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-tiktok-engine/config"
)

func TestDryScriptBackendDeterministic(t *testing.T) {
	req := ScriptRequest{
		Prompt:      "Start or sit decision for Week 5",
		Audience:    "fantasy football",
		Tone:        "energetic",
		Model:       "gpt-4o-mini",
		MaxTokens:   512,
		Temperature: 0.7,
	}

	a, err := DryScriptBackend{}.GenerateScript(context.Background(), req)
	require.NoError(t, err)
	b, err := DryScriptBackend{}.GenerateScript(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "[dry-run] script:"))

	// Varying any request field changes the stub.
	req.Temperature = 0.8
	c, err := DryScriptBackend{}.GenerateScript(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDryRenderBackendCompletesImmediately(t *testing.T) {
	sub, err := DryRenderBackend{}.RenderTextToAvatar(context.Background(), RenderRequest{
		ScriptText: "hello world",
		AvatarID:   "av-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "dry-video-abc123", sub.VideoID)

	status, err := DryRenderBackend{}.PollStatus(context.Background(), sub.VideoID)
	require.NoError(t, err)
	assert.Equal(t, 100, status.Progress)
	assert.Contains(t, strings.ToLower(status.Status), "complete")
}

func TestDryUploadBackendFlow(t *testing.T) {
	d := NewDryUploadBackend(OAuthConfig{ClientKey: "ck", ClientSecret: "cs"})
	ctx := context.Background()

	init, err := d.InitUpload(ctx, "tok", "open-1", true)
	require.NoError(t, err)
	assert.Equal(t, "dry-upload-123", init.UploadID)
	assert.True(t, init.Draft)

	up, err := d.UploadVideo(ctx, "tok", "open-1", init.UploadID, []byte("abc"), "draft.mp4")
	require.NoError(t, err)
	assert.Equal(t, 3, up.Size)
	assert.Equal(t, "uploaded(dry)", up.Status)

	st, err := d.CheckUploadStatus(ctx, "tok", "open-1", init.UploadID)
	require.NoError(t, err)
	assert.Equal(t, "processed(dry)", st.Status)
}

func TestBuildLoginURLCarriesClientKeyAndState(t *testing.T) {
	d := NewDryUploadBackend(OAuthConfig{ClientKey: "ck-1", RedirectURI: "https://example.com/cb"})
	url := d.BuildLoginURL("state-xyz", []string{"user.info.basic", "video.upload"})
	assert.Contains(t, url, "client_key=ck-1")
	assert.Contains(t, url, "state=state-xyz")
	assert.Contains(t, url, "tiktok.com")
}

func TestWiringDryRunForcesStubs(t *testing.T) {
	env := config.Env{DryRun: true, HeyGenLive: true, TikTokLive: true, OpenAIEnabled: true}

	s, err := BuildScript(env)
	require.NoError(t, err)
	assert.IsType(t, DryScriptBackend{}, s)

	r, err := BuildRender(env)
	require.NoError(t, err)
	assert.IsType(t, DryRenderBackend{}, r)

	u, err := BuildUpload(env)
	require.NoError(t, err)
	assert.IsType(t, &DryUploadBackend{}, u)
}

func TestWiringLiveWithoutCredsFailsLoudly(t *testing.T) {
	_, err := BuildRender(config.Env{HeyGenLive: true})
	assert.Error(t, err)

	_, err = BuildUpload(config.Env{TikTokLive: true})
	assert.Error(t, err)

	_, err = BuildScript(config.Env{OpenAIEnabled: true})
	assert.Error(t, err)
}

func TestWiringLiveWithCreds(t *testing.T) {
	r, err := BuildRender(config.Env{HeyGenLive: true, HeyGenAPIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &HeyGenBackend{}, r)

	u, err := BuildUpload(config.Env{TikTokLive: true, TikTokClientKey: "ck", TikTokClientSecret: "cs"})
	require.NoError(t, err)
	assert.IsType(t, &TikTokBackend{}, u)
}
