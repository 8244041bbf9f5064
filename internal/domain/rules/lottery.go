package rules

import "time"

const (
	LotteryCost     = 1000.0
	LotteryMaxDaily = 3
)

// lotteryTier pays Prize when the roll is below Below.
type lotteryTier struct {
	Below float64
	Prize float64
}

var lotteryTiers = []lotteryTier{
	{Below: 0.05, Prize: 50000},
	{Below: 0.15, Prize: 10000},
	{Below: 0.35, Prize: 3000},
	{Below: 0.55, Prize: 1500},
}

// LotteryWinnings maps a uniform roll in [0,1) to a prize.
func LotteryWinnings(roll float64) float64 {
	for _, tier := range lotteryTiers {
		if roll < tier.Below {
			return tier.Prize
		}
	}
	return 0
}

// SameCalendarDay compares the calendar dates of a and b in b's location.
// A zero a never matches.
func SameCalendarDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
