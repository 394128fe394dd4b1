// Package generation renders script prompts from kind templates and drives
// the script backend.
package generation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"fantasy-tiktok-engine/adapters"
	"fantasy-tiktok-engine/config"
)

var placeholderRE = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// RenderPrompt substitutes {key} placeholders from data. Missing keys render
// as empty strings; a formatting gap never fails the pipeline.
func RenderPrompt(template string, data map[string]string) string {
	return placeholderRE.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		return data[key]
	})
}

// GenerateScript resolves the kind's template, renders the prompt with the
// item context and asks the backend for the script text.
func GenerateScript(
	ctx context.Context,
	backend adapters.ScriptBackend,
	cfg *config.Config,
	kind string,
	week int,
	player string,
	extra map[string]string,
) (string, error) {
	template := LoadTemplateText(cfg.Templates, kind)

	data := map[string]string{
		"kind":   kind,
		"week":   strconv.Itoa(week),
		"player": player,
	}
	for k, v := range extra {
		data[k] = v
	}
	prompt := RenderPrompt(template, data)

	script, err := backend.GenerateScript(ctx, adapters.ScriptRequest{
		Prompt:      prompt,
		Audience:    cfg.Script.Audience,
		Tone:        cfg.Script.Tone,
		Model:       cfg.Script.Model,
		MaxTokens:   cfg.Script.MaxTokens,
		Temperature: cfg.Script.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate script for %s: %w", kind, err)
	}
	return script, nil
}
