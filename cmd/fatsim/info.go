package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/fatsim/server/internal/domain/item"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/infra/storage"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the character and their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				st := s.engine.Snapshot()
				out := cmd.OutOrStdout()
				if !st.IsInitialized {
					fmt.Fprintln(out, "No character yet. Run `fatsim init <name>` first.")
					return nil
				}
				c := st.Character
				fmt.Fprintf(out, "%s (%s, skin tone %d)\n", c.Name, c.Gender, c.SkinTone)
				fmt.Fprintf(out, "Weight:      %s lbs (%s)\n", pounds(c.Weight), rules.StageName(c.WeightStage))
				fmt.Fprintf(out, "Health:      %.0f\n", c.Health)
				fmt.Fprintf(out, "Happiness:   %.0f\n", c.Happiness)
				fmt.Fprintf(out, "Energy:      %.0f\n", c.Energy)
				fmt.Fprintf(out, "Calories:    %s\n", calories(st.Currency.Calories))
				fmt.Fprintf(out, "Per click:   %s\n", humanize.Ftoa(math.Floor(rules.ClickCalorieFactor*rules.ClickMultiplier(st))))
				fmt.Fprintf(out, "Goal:        %s lbs\n", pounds(st.Rebirth.CurrentGoal))
				fmt.Fprintf(out, "Rebirths:    %d (x%s)\n", st.Rebirth.RebirthCount, humanize.Ftoa(st.Rebirth.TotalMultiplier))
				fmt.Fprintf(out, "Clicks:      %s\n", humanize.Comma(int64(st.Stats.ClickCount)))
				fmt.Fprintf(out, "Lottery:     %d plays left today\n", engine.LotteryPlaysLeft(st, time.Now()))
				if st.CanRebirth() {
					fmt.Fprintln(out, "Goal reached! Run `fatsim rebirth` to start over stronger.")
				}
				return nil
			})
		},
	}
}

func newShopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "List foods, cosmetics and upgrades with current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				st := s.engine.Snapshot()
				out := cmd.OutOrStdout()

				fmt.Fprintln(out, "FOOD\tPRICE\tWEIGHT\tHEALTH\tHAPPINESS\tENERGY")
				for _, f := range item.Foods {
					fmt.Fprintf(out, "%s\t%s\t%+.0f\t%+.0f\t%+.0f\t%+.0f\n", f.ID, calories(f.Price), f.WeightGain, f.HealthEffect, f.HappinessEffect, f.EnergyEffect)
				}

				fmt.Fprintln(out, "\nCOSMETIC\tTYPE\tPRICE\tOWNED")
				for _, c := range item.Cosmetics {
					owned := st.Cosmetics.Hairstyle == c.ID || st.Cosmetics.Clothing == c.ID || st.Cosmetics.HasAccessory(c.ID)
					fmt.Fprintf(out, "%s\t%s\t%s\t%t\n", c.ID, c.Type, calories(c.Price), owned)
				}

				fmt.Fprintln(out, "\nUPGRADE\tPRICE\tDESCRIPTION")
				for _, u := range item.Upgrades {
					fmt.Fprintf(out, "%s\t%s\t%s\n", u.ID, calories(engine.UpgradePrice(st, u)), u.Description)
				}
				return nil
			})
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and their completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, s *session) error {
				st := s.engine.Snapshot()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "ID\tDONE\tREWARD\tDESCRIPTION")
				for _, a := range st.Achievements {
					fmt.Fprintf(out, "%s\t%t\t%s\t%s\n", a.ID, a.Completed, calories(a.Reward), a.Description)
				}
				fmt.Fprintf(out, "%d of %d completed\n", st.CompletedAchievements(), len(st.Achievements))
				return nil
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent actions and lifetime totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be > 0")
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				rc := storage.NewReconstructor(s.events)
				recap, err := rc.GenerateRecap(ctx, s.key, limit)
				if err != nil {
					return err
				}
				totals, err := rc.RebuildTotals(ctx, s.key)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "TIME\tTYPE\tSUMMARY")
				for _, e := range recap {
					fmt.Fprintf(out, "%s\t%s\t%s\n", e.Timestamp, e.EventType, e.Summary)
				}
				fmt.Fprintf(out, "\nPurchases: %d, calories spent: %s, lottery: %d plays / %s won, rebirths: %d, achievements: %d\n",
					totals.Purchases, calories(totals.CaloriesSpent), totals.LotteryPlays, calories(totals.LotteryWon), totals.Rebirths, totals.Achievements)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent actions to show")
	return cmd
}
