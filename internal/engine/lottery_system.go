package engine

import (
	"time"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
)

// PlayLottery spends LotteryCost for one draw. roll must be uniform in [0,1).
// The daily counter resets lazily, on the first attempt of a new calendar day.
func PlayLottery(s game.State, now time.Time, roll float64) game.State {
	plays := s.MiniGame.DailyPlays
	if !rules.SameCalendarDay(s.MiniGame.LastPlay, now) {
		plays = 0
	}

	if plays >= rules.LotteryMaxDaily || s.Currency.Calories < rules.LotteryCost {
		return s
	}

	next := s.Clone()
	next.Currency.Calories -= rules.LotteryCost
	next.MiniGame.LastPlay = now
	next.MiniGame.DailyPlays = plays + 1

	winnings := rules.LotteryWinnings(roll)
	next.Currency.Calories += winnings
	next.Stats.LotteryWinnings += winnings
	next.Stats.TotalCaloriesEarned += winnings
	return next
}

// LotteryPlaysLeft reports how many draws remain on now's calendar day.
func LotteryPlaysLeft(s game.State, now time.Time) int {
	if !rules.SameCalendarDay(s.MiniGame.LastPlay, now) {
		return rules.LotteryMaxDaily
	}
	left := rules.LotteryMaxDaily - s.MiniGame.DailyPlays
	if left < 0 {
		return 0
	}
	return left
}
