package batch

import (
	"fmt"
	"math/rand"

	"fantasy-tiktok-engine/config"
	"fantasy-tiktok-engine/generation"
	"fantasy-tiktok-engine/types"
)

const (
	planMinItems = 10
	planMaxItems = 15
)

// PlanWeek builds the content plan for one week. The week number seeds the
// random source, so the same week always yields the same plan: same player
// order, same day slots.
func PlanWeek(cfg *config.Config, week int, kinds []string) ([]types.PlanItem, error) {
	if week <= 0 {
		return nil, fmt.Errorf("plan week %d: week must be positive", week)
	}
	players := cfg.Planner.Players
	if len(players) == 0 {
		return nil, fmt.Errorf("plan week %d: no players configured", week)
	}
	kinds = generation.NormalizeKinds(kinds)
	if len(kinds) == 0 {
		kinds = append([]string{}, generation.CanonicalKinds...)
	}

	count := cfg.Planner.Count
	if count < planMinItems {
		count = planMinItems
	}
	if count > planMaxItems {
		count = planMaxItems
	}

	rnd := rand.New(rand.NewSource(int64(week)))
	shuffled := append([]string{}, players...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	items := make([]types.PlanItem, 0, count)
	for i := 0; i < count; i++ {
		kind := kinds[i%len(kinds)]
		items = append(items, types.PlanItem{
			Player:   shuffled[i%len(shuffled)],
			Kind:     kind,
			Template: generation.ResolveTemplate(cfg.Templates, kind),
			DaySlot:  rnd.Intn(7),
			AvatarID: cfg.Render.AvatarID,
			VoiceID:  cfg.Render.VoiceID,
		})
	}
	return items, nil
}
