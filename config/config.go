package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Planner   PlannerConfig   `yaml:"planner"`
	Templates TemplatesConfig `yaml:"templates"`
	Script    ScriptConfig    `yaml:"script"`
	Render    RenderConfig    `yaml:"render"`
	Upload    UploadConfig    `yaml:"upload"`
	Paths     PathsConfig     `yaml:"paths"`
}

type PlannerConfig struct {
	Players []string `yaml:"players"`
	Count   int      `yaml:"count"`
}

type TemplatesConfig struct {
	CanonicalDir string `yaml:"canonical_dir"`
	LegacyDir    string `yaml:"legacy_dir"`
}

type ScriptConfig struct {
	Model       string  `yaml:"model"`
	Tone        string  `yaml:"tone"`
	Audience    string  `yaml:"audience"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxWords    int     `yaml:"max_words"`
}

type RenderConfig struct {
	AvatarID        string `yaml:"avatar_id"`
	VoiceID         string `yaml:"voice_id"`
	PollIntervalSec int    `yaml:"poll_interval_sec"`
	MaxPollSec      int    `yaml:"max_poll_sec"`
}

type UploadConfig struct {
	Draft bool `yaml:"draft"`
}

type PathsConfig struct {
	Output       string `yaml:"output"`
	ApprovalCSV  string `yaml:"approval_csv"`
	ApprovalJSON string `yaml:"approval_json"`
	Cache        string `yaml:"cache"`
	MetricsCSV   string `yaml:"metrics_csv"`
}

// Default returns the built-in configuration used when no config file is
// supplied. Values mirror the documented persisted-state layout.
func Default() *Config {
	return &Config{
		Planner: PlannerConfig{
			Players: []string{
				"Bijan Robinson",
				"Justin Jefferson",
				"Patrick Mahomes",
				"Christian McCaffrey",
				"Travis Kelce",
				"Ja'Marr Chase",
				"Derrick Henry",
				"Austin Ekeler",
				"Jalen Hurts",
				"Tyreek Hill",
				"Amon-Ra St. Brown",
				"Stefon Diggs",
				"CeeDee Lamb",
				"A.J. Brown",
			},
			Count: 12,
		},
		Templates: TemplatesConfig{
			CanonicalDir: "templates/script_templates",
			LegacyDir:    "prompts/templates",
		},
		Script: ScriptConfig{
			Model:       "gpt-4o-mini",
			Tone:        "energetic",
			Audience:    "fantasy football",
			Temperature: 0.7,
			MaxTokens:   512,
			MaxWords:    70,
		},
		Render: RenderConfig{
			AvatarID:        "default-avatar-id",
			PollIntervalSec: 5,
			MaxPollSec:      90,
		},
		Upload: UploadConfig{Draft: true},
		Paths: PathsConfig{
			Output:       ".out",
			ApprovalCSV:  "approval/manifest.csv",
			ApprovalJSON: "approval/manifest.json",
			Cache:        ".cache",
			MetricsCSV:   ".metrics/posts.csv",
		},
	}
}

// Load reads a yaml config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
