package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/remote"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/urfave/cli/v3"
)

// RemoteCommand returns the action for a parameterless remote command (next, prev, start, end).
func (r *Runner) RemoteCommand(op string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		return r.sendCommand(ctx, cmd, "/api/"+op)
	}
}

// RemoteGoto jumps the running presentation to a slide.
func (r *Runner) RemoteGoto(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("slide")
	if arg == "" {
		return fmt.Errorf("%w: slide number", shared.ErrMissingArgument)
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("%w: slide must be a number, got %q", shared.ErrInvalidArgument, arg)
	}
	return r.sendCommand(ctx, cmd, fmt.Sprintf("/api/goto/%d", n))
}

// RemoteState prints the current slide of the running presentation.
func (r *Runner) RemoteState(ctx context.Context, cmd *cli.Command) error {
	body, status, err := r.remoteRequest(ctx, cmd, http.MethodGet, "/api/state")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrRemoteRequest, status, strings.TrimSpace(string(body)))
	}

	var view presenter.View
	if err := json.Unmarshal(body, &view); err != nil {
		return fmt.Errorf("%w: invalid state response: %v", shared.ErrRemoteRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(view, true)
	}
	r.writeView(view)
	return nil
}

func (r *Runner) sendCommand(ctx context.Context, cmd *cli.Command, path string) error {
	body, status, err := r.remoteRequest(ctx, cmd, http.MethodPost, path)
	if err != nil {
		return err
	}

	var resp remote.CommandResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrRemoteRequest, status, strings.TrimSpace(string(body)))
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(resp, true); err != nil {
			return err
		}
	} else if resp.Accepted {
		r.writePlain("✓ ")
		r.writeView(resp.State)
	}

	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: %s (status %d)", shared.ErrRemoteRequest, resp.Reason, status)
	}
	return nil
}

// remoteRequest sends a request to the remote API and returns the body and status code.
func (r *Runner) remoteRequest(ctx context.Context, cmd *cli.Command, method, path string) ([]byte, int, error) {
	url := remoteBaseURL(cmd.String("addr"), r.config.Remote) + path
	r.logger.Debug("remote request", "method", method, "url", url)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shared.ErrRemoteRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (r *Runner) writeView(v presenter.View) {
	r.writePlain("slide %s (%.0f%%)\n", v.Counter, v.Progress*100)
}

// remoteBaseURL turns --addr (or the configured address) into an http base URL.
func remoteBaseURL(addr string, cfg shared.RemoteConfig) string {
	if addr == "" {
		addr = cfg.Addr()
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return strings.TrimSuffix(addr, "/")
}
