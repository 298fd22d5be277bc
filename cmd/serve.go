package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/remote"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs a deck without a terminal UI. Transitions complete on a timer and the remote API drives navigation.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	d, err := openDeck(cmd)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "deck", d.Title)
	ctrl, err := presenter.New(d.Len(), presenter.WithLogger(logger))
	if err != nil {
		return err
	}

	animator := presenter.NewTimerAnimator(ctrl, config.Presentation.TransitionDuration())
	defer animator.Stop()
	ctrl.Subscribe(animator)

	if cmd.Bool("rehearse") || config.Rehearsal.Enabled {
		stop, err := r.startRehearsal(config, d, ctrl)
		if err != nil {
			return err
		}
		defer stop()
	}

	commands := presenter.NewCommands(ctrl, nil, presenter.CauseRemote, logger)
	srv := remote.New(config.Remote, commands, logger)
	ctrl.Subscribe(srv.Hub())

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	r.writePlainHeader(fmt.Sprintf("%s (%d slides)", d.Title, d.Len()))
	r.writePlain("→ Remote: %s\n", srv.URL())
	r.writePlain("→ Press Ctrl+C to stop\n")

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(srv.URL()); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	}

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
	}

	r.logger.Info("shutting down remote")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}
	return <-serverErrors
}
