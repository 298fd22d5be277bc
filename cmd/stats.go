package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/deckx/internal/deck"
	"github.com/desertthunder/deckx/internal/formatter"
	"github.com/desertthunder/deckx/internal/rehearsal"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/urfave/cli/v3"
)

const sessionListLimit = 20

// Stats prints per-slide dwell time for a rehearsal session.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return err
	}
	defer closeDB(db, r.logger)
	store := rehearsal.NewStore(db)

	if cmd.Bool("list") {
		return r.listSessions(store)
	}

	sessionID := cmd.String("session")
	if sessionID == "" {
		latest, err := store.LatestSession()
		if err != nil {
			return err
		}
		sessionID = latest.ID
	}

	report, err := store.Stats(sessionID, time.Now())
	if err != nil {
		return err
	}

	var titles []string
	if d, err := deck.Load(report.Session.DeckPath); err == nil {
		titles = d.Titles()
	} else {
		r.logger.Debug("deck unavailable, using slide numbers", "path", report.Session.DeckPath, "error", err)
	}

	data, err := formatter.ExportStats(report, titles, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) listSessions(store *rehearsal.Store) error {
	sessions, err := store.ListSessions(sessionListLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		r.writePlain("No rehearsal sessions recorded\n")
		return nil
	}

	r.writePlainHeader("Rehearsal sessions")
	for _, s := range sessions {
		status := "in progress"
		if s.EndedAt != nil {
			status = shared.FormatDuration(s.EndedAt.Sub(s.StartedAt))
		}
		r.writePlain("%s  %s  %-24s %s\n", s.ID, s.StartedAt.Format(time.DateTime), s.DeckTitle, status)
	}
	return nil
}
