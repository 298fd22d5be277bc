package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/deckx/internal/deck"
	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/rehearsal"
	"github.com/desertthunder/deckx/internal/remote"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/desertthunder/deckx/internal/ui"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 5 * time.Second

// Present runs a deck in the terminal UI, optionally with the remote API and rehearsal recording.
func (r *Runner) Present(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := openDeck(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(config.Log.Level))
	r.SetLogger(fileLogger)

	logger := shared.WithLogger(fileLogger, "deck", d.Title)
	ctrl, err := presenter.New(d.Len(), presenter.WithLogger(logger))
	if err != nil {
		return err
	}

	if cmd.Bool("rehearse") || config.Rehearsal.Enabled {
		stop, err := r.startRehearsal(config, d, ctrl)
		if err != nil {
			return err
		}
		defer stop()
	}

	opts := ui.OptionsFromConfig(config, ui.IsTerminal(os.Stdout), logger)
	opts.Fullscreen = cmd.Bool("fullscreen")
	model := ui.NewModel(d, ctrl, opts)
	p := ui.NewProgram(model)

	if cmd.Bool("remote") {
		bridge := ui.NewBridge(ctrl, 0, logger)
		bridge.Attach(p)

		srv := remote.New(config.Remote, bridge, logger)
		ctrl.Subscribe(srv.Hub())
		stop, err := r.runRemote(srv)
		if err != nil {
			return err
		}
		defer stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running presentation: %w", err)
	}
	return nil
}

func openDeck(cmd *cli.Command) (*deck.Deck, error) {
	path := cmd.StringArg("deck")
	if path == "" {
		return nil, fmt.Errorf("%w: deck path", shared.ErrMissingArgument)
	}
	return deck.Load(path)
}

// startRehearsal opens the rehearsal store and subscribes a recorder to ctrl. The returned func ends the session.
func (r *Runner) startRehearsal(config *shared.Config, d *deck.Deck, ctrl *presenter.Controller) (func(), error) {
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return nil, err
	}

	rec, err := rehearsal.StartRecorder(rehearsal.NewStore(db), d.Path, d.Title, d.Len(), time.Now, r.logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to start rehearsal: %w", err)
	}
	ctrl.Subscribe(rec)

	return func() {
		if err := rec.Close(); err != nil {
			r.logger.Warn("failed to close rehearsal session", "error", err)
		}
		closeDB(db, r.logger)
	}, nil
}

// runRemote binds srv's address and serves it in the background. The returned func shuts it down.
func (r *Runner) runRemote(srv *remote.Server) (func(), error) {
	ln, err := srv.Listen()
	if err != nil {
		return nil, err
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil {
			serverErrors <- err
		}
	}()

	return func() {
		select {
		case err := <-serverErrors:
			r.logger.Error("remote server stopped", "error", err)
		default:
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}, nil
}

func closeDB(db *sql.DB, logger *log.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}
