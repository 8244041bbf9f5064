package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
)

func newInitCmd() *cobra.Command {
	var (
		gender   string
		skinTone int
	)
	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create (or rename) the character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := game.ValidateIdentity(args[0], game.Gender(gender), skinTone)
			if err != nil {
				return err
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				st, err := s.engine.Dispatch(ctx, engine.Action{
					Type:     engine.ActionInitialize,
					Name:     name,
					Gender:   game.Gender(gender),
					SkinTone: skinTone,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, skin tone %d) at %s lbs\n",
					st.Character.Name, st.Character.Gender, st.Character.SkinTone, pounds(st.Character.Weight))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&gender, "gender", string(game.GenderMale), "Character gender: male or female")
	cmd.Flags().IntVar(&skinTone, "skin-tone", game.MinSkinTone, "Skin tone 1-5")
	return cmd
}

func newClickCmd() *cobra.Command {
	var times int
	cmd := &cobra.Command{
		Use:   "click",
		Short: "Click the character to earn calories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if times < 1 {
				return fmt.Errorf("--times must be > 0")
			}
			return withSession(cmd, func(ctx context.Context, s *session) error {
				before := s.engine.Snapshot()
				after := before
				for i := 0; i < times; i++ {
					st, err := s.engine.Dispatch(ctx, engine.Action{Type: engine.ActionClick})
					if err != nil {
						return err
					}
					after = st
				}
				reportChange(cmd.OutOrStdout(), before, after)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&times, "times", "n", 1, "Number of clicks")
	return cmd
}

func newEatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eat <food-id>",
		Short: "Buy and eat a food",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndReport(cmd, engine.Action{Type: engine.ActionEat, ItemID: args[0]})
		},
	}
}

func newBuyCmd() *cobra.Command {
	buy := &cobra.Command{
		Use:   "buy",
		Short: "Buy cosmetics and upgrades",
	}
	buy.AddCommand(
		&cobra.Command{
			Use:   "cosmetic <id>",
			Short: "Buy and equip a cosmetic",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatchAndReport(cmd, engine.Action{Type: engine.ActionBuyCosmetic, ItemID: args[0]})
			},
		},
		&cobra.Command{
			Use:   "upgrade <id>",
			Short: "Buy one level of an upgrade",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return dispatchAndReport(cmd, engine.Action{Type: engine.ActionBuyUpgrade, ItemID: args[0]})
			},
		},
	)
	return buy
}

func newExerciseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exercise",
		Short: "Work out: lose weight, regain energy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndReport(cmd, engine.Action{Type: engine.ActionExercise})
		},
	}
}

func newRebirthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebirth",
		Short: "Start over with a permanent multiplier once the goal weight is reached",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndReport(cmd, engine.Action{Type: engine.ActionRebirth})
		},
	}
}

func newLotteryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lottery",
		Short: "Spend calories on a lottery ticket (three per day)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatchAndReport(cmd, engine.Action{Type: engine.ActionLottery})
		},
	}
}
