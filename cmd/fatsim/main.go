// Package main is a terminal front end for the Become Fat Simulator.
// Every invocation loads the save, applies one command and writes it back.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath  string
	saveKey string
	verbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fatsim",
		Short:         "fatsim plays Become Fat Simulator from your terminal",
		Long:          "fatsim drives the same game engine as the web server against a local SQLite save.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (default $FATSIM_DB_PATH)")
	root.PersistentFlags().StringVar(&saveKey, "save", "", "Save slot key (default $FATSIM_SAVE_KEY)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log engine activity to stderr")

	root.AddCommand(
		newInitCmd(),
		newStatusCmd(),
		newClickCmd(),
		newEatCmd(),
		newBuyCmd(),
		newExerciseCmd(),
		newRebirthCmd(),
		newLotteryCmd(),
		newShopCmd(),
		newAchievementsCmd(),
		newHistoryCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
