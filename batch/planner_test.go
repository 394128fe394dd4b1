package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasy-tiktok-engine/config"
)

func TestPlanWeekIsDeterministic(t *testing.T) {
	cfg := config.Default()
	a, err := PlanWeek(cfg, 5, nil)
	require.NoError(t, err)
	b, err := PlanWeek(cfg, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := PlanWeek(cfg, 6, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestPlanWeekCountClamp(t *testing.T) {
	cfg := config.Default()

	cfg.Planner.Count = 1
	plan, err := PlanWeek(cfg, 3, nil)
	require.NoError(t, err)
	assert.Len(t, plan, planMinItems)

	cfg.Planner.Count = 100
	plan, err = PlanWeek(cfg, 3, nil)
	require.NoError(t, err)
	assert.Len(t, plan, planMaxItems)
}

func TestPlanWeekNormalizesKindTokens(t *testing.T) {
	cfg := config.Default()
	plan, err := PlanWeek(cfg, 2, []string{"performers", "waiver_wire"})
	require.NoError(t, err)
	for _, item := range plan {
		assert.Contains(t, []string{"top-performers", "waiver-wire"}, item.Kind)
	}
}

func TestPlanWeekDaySlotRange(t *testing.T) {
	cfg := config.Default()
	plan, err := PlanWeek(cfg, 9, nil)
	require.NoError(t, err)
	for _, item := range plan {
		assert.GreaterOrEqual(t, item.DaySlot, 0)
		assert.LessOrEqual(t, item.DaySlot, 6)
	}
}

func TestPlanWeekRoundRobinKinds(t *testing.T) {
	cfg := config.Default()
	cfg.Planner.Count = 12
	plan, err := PlanWeek(cfg, 1, []string{"start-sit", "waiver-wire"})
	require.NoError(t, err)
	require.Len(t, plan, 12)
	for i, item := range plan {
		if i%2 == 0 {
			assert.Equal(t, "start-sit", item.Kind)
		} else {
			assert.Equal(t, "waiver-wire", item.Kind)
		}
	}
}

func TestPlanWeekRejectsBadInput(t *testing.T) {
	cfg := config.Default()
	_, err := PlanWeek(cfg, 0, nil)
	assert.Error(t, err)

	cfg.Planner.Players = nil
	_, err = PlanWeek(cfg, 1, nil)
	assert.Error(t, err)
}
