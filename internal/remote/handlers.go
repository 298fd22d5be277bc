package remote

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/shared"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

//go:embed static/remote.html
var remotePage []byte

var errRateLimited = fmt.Errorf("%w: rate limit exceeded", shared.ErrServiceUnavailable)

// CommandResponse is the body returned by every command route.
type CommandResponse struct {
	Accepted bool           `json:"accepted"`
	Reason   string         `json:"reason"`
	State    presenter.View `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Request is a command sent over the websocket.
type Request struct {
	Op    string `json:"op"` // next, prev, goto, start, end or state
	Slide int    `json:"slide,omitempty"`
}

// StatusFor maps a navigation outcome to an HTTP status code.
func StatusFor(out presenter.Outcome) int {
	switch out.Reason {
	case presenter.Busy:
		return http.StatusConflict
	case presenter.OutOfBounds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeOutcome(w http.ResponseWriter, out presenter.Outcome) {
	writeJSON(w, StatusFor(out), CommandResponse{Accepted: out.Accepted, Reason: out.Reason.String(), State: out.View})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(remotePage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cmd.State())
}

func (s *Server) command(fn func() presenter.Outcome) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := fn()
		s.logOutcome(r.URL.Path, out)
		writeOutcome(w, out)
	}
}

func (s *Server) handleGoto(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: slide must be an integer", shared.ErrInvalidArgument))
		return
	}

	out := s.cmd.JumpTo(n)
	s.logOutcome(r.URL.Path, out)
	writeOutcome(w, out)
}

func (s *Server) logOutcome(op string, out presenter.Outcome) {
	if out.Accepted {
		s.logger.Info("remote command", "op", op, "slide", out.View.Current)
		return
	}
	s.logger.Debug("remote command dropped", "op", op, "reason", out.Reason.String())
}

// dispatch runs a websocket request against the commander.
func (s *Server) dispatch(req Request) (presenter.Outcome, error) {
	switch req.Op {
	case "next":
		return s.cmd.Advance(), nil
	case "prev":
		return s.cmd.Retreat(), nil
	case "goto":
		return s.cmd.JumpTo(req.Slide), nil
	case "start":
		return s.cmd.Start(), nil
	case "end":
		return s.cmd.End(), nil
	default:
		return presenter.Outcome{}, fmt.Errorf("%w: unknown op %q", shared.ErrInvalidInput, req.Op)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := s.hub.register(conn)
	defer s.hub.unregister(c)

	if !s.hub.deliver(c, stateMessage(s.cmd.State())) {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			s.hub.deliver(c, errorMessage(fmt.Errorf("%w: invalid message format", shared.ErrInvalidInput)))
			continue
		}

		if req.Op == "state" {
			s.hub.deliver(c, stateMessage(s.cmd.State()))
			continue
		}

		if !s.limiter.Allow() {
			s.hub.deliver(c, errorMessage(errRateLimited))
			continue
		}

		out, err := s.dispatch(req)
		if err != nil {
			s.hub.deliver(c, errorMessage(err))
			continue
		}
		s.logOutcome("ws:"+req.Op, out)
		if !s.hub.deliver(c, resultMessage(out)) {
			return
		}
	}
}
