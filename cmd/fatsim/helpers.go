package main

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MRamiBalles/fatsim/server/internal/domain/game"
	"github.com/MRamiBalles/fatsim/server/internal/domain/rules"
	"github.com/MRamiBalles/fatsim/server/internal/engine"
	"github.com/MRamiBalles/fatsim/server/internal/events"
	"github.com/MRamiBalles/fatsim/server/internal/infra/storage"
	"github.com/MRamiBalles/fatsim/server/internal/platform/config"
	"github.com/MRamiBalles/fatsim/server/internal/platform/logger"
)

// session is one opened save: the engine plus what the read-only commands need.
type session struct {
	engine *engine.Engine
	events *storage.SQLiteEventRepository
	key    string
}

func resolvePaths() (string, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", "", err
	}
	path, key := cfg.DBPath, cfg.SaveKey
	if dbPath != "" {
		path = dbPath
	}
	if saveKey != "" {
		key = saveKey
	}
	if strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("no database path: pass --db or set FATSIM_DB_PATH")
	}
	return path, key, nil
}

func withSession(cmd *cobra.Command, run func(ctx context.Context, s *session) error) error {
	path, key, err := resolvePaths()
	if err != nil {
		return err
	}

	log := logger.NewDiscardLogger()
	if verbose {
		log = logger.NewWriterLogger(cmd.ErrOrStderr())
	}

	sqldb, err := storage.InitSQLite(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repo := storage.NewStateRepository(storage.NewSQLiteSaveStore(sqldb), key, log)
	initial, err := repo.Load(ctx)
	if err != nil {
		return err
	}

	eventRepo := storage.NewSQLiteEventRepository(sqldb)
	eventLog := events.NewEventLog(storage.NewEventSink(eventRepo))
	eventLog.OnPersistError(func(err error) {
		log.Warnf("event write-through failed: %v", err)
	})

	return run(ctx, &session{
		engine: engine.NewEngine(initial, repo.Key(), eventLog, repo, log),
		events: eventRepo,
		key:    repo.Key(),
	})
}

// dispatchAndReport applies one action and prints what changed.
func dispatchAndReport(cmd *cobra.Command, a engine.Action) error {
	return withSession(cmd, func(ctx context.Context, s *session) error {
		before := s.engine.Snapshot()
		after, err := s.engine.Dispatch(ctx, a)
		if err != nil {
			return err
		}
		reportChange(cmd.OutOrStdout(), before, after)
		return nil
	})
}

func reportChange(w io.Writer, before, after game.State) {
	if reflect.DeepEqual(before, after) {
		fmt.Fprintln(w, "Nothing happened.")
		return
	}
	fmt.Fprintf(w, "Calories: %s (%s)\n", calories(after.Currency.Calories), signed(after.Currency.Calories-before.Currency.Calories))
	fmt.Fprintf(w, "Weight:   %s lbs (%s)\n", pounds(after.Character.Weight), signed(after.Character.Weight-before.Character.Weight))
	if after.Character.WeightStage != before.Character.WeightStage {
		fmt.Fprintf(w, "Stage:    %s\n", rules.StageName(after.Character.WeightStage))
	}
	for _, a := range engine.NewlyCompleted(before, after) {
		fmt.Fprintf(w, "Achievement unlocked: %s (+%s calories)\n", a.Description, calories(a.Reward))
	}
}

func calories(v float64) string {
	return humanize.Commaf(float64(int64(v)))
}

func pounds(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func signed(v float64) string {
	if v >= 0 {
		return "+" + humanize.Ftoa(v)
	}
	return humanize.Ftoa(v)
}
