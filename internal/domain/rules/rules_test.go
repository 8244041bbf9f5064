package rules

import (
	"testing"
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
)

func TestWeightStageBands(t *testing.T) {
	cases := []struct {
		weight float64
		want   int
	}{
		{0, 1}, {140, 1}, {169.99, 1},
		{170, 2}, {199.9, 2},
		{200, 3}, {249.9, 3},
		{250, 4}, {299.9, 4},
		{300, 5}, {1_000_000, 5},
	}
	for _, c := range cases {
		if got := WeightStage(c.weight); got != c.want {
			t.Errorf("WeightStage(%v) = %d, want %d", c.weight, got, c.want)
		}
	}
}

func TestWeightStageMonotonic(t *testing.T) {
	prev := WeightStage(0)
	for w := 0.0; w <= 400; w += 0.5 {
		stage := WeightStage(w)
		if stage < prev {
			t.Fatalf("Stage decreased at %v: %d -> %d", w, prev, stage)
		}
		prev = stage
	}
}

func TestStageName(t *testing.T) {
	if StageName(1) != "Slim" || StageName(5) != "Very Fat" {
		t.Errorf("Unexpected stage names")
	}
	if StageName(0) != "Unknown" || StageName(6) != "Unknown" {
		t.Errorf("Out of range stages should be Unknown")
	}
}

func TestClampStat(t *testing.T) {
	if ClampStat(-5) != 0 || ClampStat(105) != 100 || ClampStat(42) != 42 {
		t.Errorf("ClampStat does not bound to [0,100]")
	}
}

func TestUpgradePrice(t *testing.T) {
	s := game.NewState()
	click, _ := item.GetUpgrade("click-multiplier")
	auto, _ := item.GetUpgrade("auto-eater")
	happy, _ := item.GetUpgrade("happiness-multiplier")

	if got := UpgradePrice(s, click); got != 1000 {
		t.Errorf("Click upgrade at power 1 should cost 1000, got %v", got)
	}
	s.Character.ClickPower = 2
	if got := UpgradePrice(s, click); got != 2000 {
		t.Errorf("Click upgrade at power 2 should cost 2000, got %v", got)
	}
	s.Character.ClickPower = 8
	if got := UpgradePrice(s, click); got != 8000 {
		t.Errorf("Click upgrade at power 8 should cost 8000, got %v", got)
	}

	if got := UpgradePrice(s, auto); got != 2000 {
		t.Errorf("Auto eater at level 0 should cost 2000, got %v", got)
	}
	s.Upgrades.AutoEater = 3
	if got := UpgradePrice(s, auto); got != 16000 {
		t.Errorf("Auto eater at level 3 should cost 16000, got %v", got)
	}

	// Happiness multiplier starts at level 1.
	if got := UpgradePrice(s, happy); got != 6000 {
		t.Errorf("Happiness multiplier at level 1 should cost 6000, got %v", got)
	}
}

func TestRebirthHelpers(t *testing.T) {
	if RebirthMultiplier(0) != 1 || RebirthMultiplier(3) != 2.5 {
		t.Errorf("Unexpected rebirth multiplier")
	}
	if HalveLevel(5, 0) != 2 || HalveLevel(1, 0) != 0 || HalveLevel(1, 1) != 1 || HalveLevel(6, 1) != 3 {
		t.Errorf("Unexpected HalveLevel results")
	}
}

func TestLotteryWinnings(t *testing.T) {
	cases := []struct {
		roll float64
		want float64
	}{
		{0, 50000}, {0.0499, 50000},
		{0.05, 10000}, {0.1499, 10000},
		{0.15, 3000}, {0.3499, 3000},
		{0.35, 1500}, {0.5499, 1500},
		{0.55, 0}, {0.9999, 0},
	}
	for _, c := range cases {
		if got := LotteryWinnings(c.roll); got != c.want {
			t.Errorf("LotteryWinnings(%v) = %v, want %v", c.roll, got, c.want)
		}
	}
}

func TestSameCalendarDay(t *testing.T) {
	loc := time.UTC
	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, loc)
	night := time.Date(2026, 3, 14, 23, 59, 0, 0, loc)
	next := time.Date(2026, 3, 15, 0, 1, 0, 0, loc)

	if !SameCalendarDay(morning, night) {
		t.Errorf("Same date should match")
	}
	if SameCalendarDay(night, next) {
		t.Errorf("Crossing midnight should not match")
	}
	if SameCalendarDay(time.Time{}, morning) {
		t.Errorf("Zero time should never match")
	}
}
