// Adapter wiring: one place that decides, per backend, between the dry and
// live implementation. DRY_RUN wins over every live toggle; a live toggle
// without credentials is a construction error, never a silent stub.
package adapters

import (
	"fmt"

	"fantasy-tiktok-engine/config"
)

// BuildScript selects the script backend for this run.
func BuildScript(env config.Env) (ScriptBackend, error) {
	if env.DryRun || !env.OpenAIEnabled {
		return DryScriptBackend{}, nil
	}
	if env.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_ENABLED is set but OPENAI_API_KEY is missing")
	}
	return NewOpenAIBackend(env.OpenAIAPIKey), nil
}

// BuildRender selects the render backend for this run.
func BuildRender(env config.Env) (RenderBackend, error) {
	if env.DryRun || !env.HeyGenLive {
		return DryRenderBackend{}, nil
	}
	if env.HeyGenAPIKey == "" {
		return nil, fmt.Errorf("HEYGEN_LIVE is set but HEYGEN_API_KEY is missing")
	}
	return NewHeyGenBackend(env.HeyGenAPIKey), nil
}

// BuildUpload selects the upload backend for this run.
func BuildUpload(env config.Env) (UploadBackend, error) {
	cfg := OAuthConfig{
		ClientKey:    env.TikTokClientKey,
		ClientSecret: env.TikTokClientSecret,
		RedirectURI:  env.TikTokRedirectURI,
	}
	if env.DryRun || !env.TikTokLive {
		return NewDryUploadBackend(cfg), nil
	}
	return NewTikTokBackend(cfg)
}
