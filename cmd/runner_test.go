package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/deckx/internal/presenter"
	"github.com/desertthunder/deckx/internal/rehearsal"
	"github.com/desertthunder/deckx/internal/remote"
	"github.com/desertthunder/deckx/internal/shared"
	tu "github.com/desertthunder/deckx/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestRunner(output *bytes.Buffer) *Runner {
	return NewRunner(RunnerOpts{
		ConfigPath: "config.toml",
		Logger:     shared.NewLogger(&bytes.Buffer{}),
		Output:     output,
	})
}

func runApp(r *Runner, args ...string) error {
	app := &cli.Command{Name: "deckx", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"deckx"}, args...))
}

// startRemote serves a controller whose transitions complete immediately.
func startRemote(t *testing.T, total int) *httptest.Server {
	t.Helper()
	ctrl, err := presenter.New(total)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	ctrl.Subscribe(presenter.ListenerFunc(func(tr presenter.Transition, _ presenter.View) {
		ctrl.Complete(tr.ID)
	}))

	srv := remote.New(shared.DefaultConfig().Remote, presenter.NewCommands(ctrl, nil, presenter.CauseRemote, nil), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := make(map[string]bool)
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"present", "serve", "remote", "outline", "stats", "setup"} {
			if !names[want] {
				t.Errorf("expected %q to be registered", want)
			}
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("keeps the runner config for the default path", func(t *testing.T) {
			runner := newTestRunner(&bytes.Buffer{})
			original := runner.config

			cmd := &cli.Command{
				Name:  "check",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					config, err := runner.loadConfig(cmd)
					if err != nil {
						return err
					}
					if config != original {
						t.Error("expected runner config to be reused")
					}
					return nil
				},
			}
			if err := cmd.Run(context.Background(), []string{"check"}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})

		t.Run("loads a different path", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "custom.toml")
			if err := os.WriteFile(path, []byte("[remote]\nport = 9191\n"), 0644); err != nil {
				t.Fatal(err)
			}

			runner := newTestRunner(&bytes.Buffer{})
			cmd := &cli.Command{
				Name:  "check",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					config, err := runner.loadConfig(cmd)
					if err != nil {
						return err
					}
					if config.Remote.Port != 9191 {
						t.Errorf("expected port 9191, got %d", config.Remote.Port)
					}
					if config.Input.SwipeThreshold != 50 {
						t.Errorf("expected defaults for missing keys, got %d", config.Input.SwipeThreshold)
					}
					return nil
				},
			}
			if err := cmd.Run(context.Background(), []string{"check", "--config", path}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	})
}

func TestOutlineCommand(t *testing.T) {
	deckPath := tu.WriteDeck(t, "pitch.md", tu.SampleDeck)

	t.Run("prints to stdout", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newTestRunner(output), "outline", "--format", "csv", deckPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result := output.String()
		for _, want := range []string{"Slide,Title,Elements,CTAs", "1,Launch,2,", "3,Ask,3,Join the waitlist"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected %q in output:\n%s", want, result)
			}
		}
	})

	t.Run("writes to a file", func(t *testing.T) {
		output := &bytes.Buffer{}
		path := filepath.Join(t.TempDir(), "out", "pitch.json")
		if err := runApp(newTestRunner(output), "outline", "--format", "json", "--output", path, deckPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		tu.AssertDirExists(t, filepath.Dir(path))
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), `"title": "Agenda"`) {
			t.Error("expected slide titles in JSON export")
		}
		if !strings.Contains(output.String(), path) {
			t.Errorf("expected saved path in output, got %q", output.String())
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		err := runApp(newTestRunner(&bytes.Buffer{}), "outline", "--format", "pdf", deckPath)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("requires a deck", func(t *testing.T) {
		err := runApp(newTestRunner(&bytes.Buffer{}), "outline")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("missing deck file", func(t *testing.T) {
		err := runApp(newTestRunner(&bytes.Buffer{}), "outline", filepath.Join(t.TempDir(), "nope.md"))
		if !errors.Is(err, shared.ErrDeckNotFound) {
			t.Errorf("expected ErrDeckNotFound, got %v", err)
		}
	})
}

func TestRemoteCommands(t *testing.T) {
	ts := startRemote(t, 5)

	t.Run("next", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newTestRunner(output), "remote", "next", "--addr", ts.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "slide 2 / 5") {
			t.Errorf("expected new position, got %q", output.String())
		}
	})

	t.Run("goto", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newTestRunner(output), "remote", "goto", "--addr", ts.URL, "4"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "slide 4 / 5 (80%)") {
			t.Errorf("expected slide 4, got %q", output.String())
		}
	})

	t.Run("goto out of bounds", func(t *testing.T) {
		err := runApp(newTestRunner(&bytes.Buffer{}), "remote", "goto", "--addr", ts.URL, "9")
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Fatalf("expected ErrRemoteRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "422") {
			t.Errorf("expected status in error, got %v", err)
		}
	})

	t.Run("goto not a number", func(t *testing.T) {
		err := runApp(newTestRunner(&bytes.Buffer{}), "remote", "goto", "--addr", ts.URL, "three")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("end then state as JSON", func(t *testing.T) {
		if err := runApp(newTestRunner(&bytes.Buffer{}), "remote", "end", "--addr", ts.URL); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := &bytes.Buffer{}
		if err := runApp(newTestRunner(output), "remote", "state", "--addr", ts.URL, "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), `"current": 1`) {
			t.Errorf("expected end to return to the first slide, got %s", output.String())
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		url := closed.URL
		closed.Close()

		err := runApp(newTestRunner(&bytes.Buffer{}), "remote", "state", "--addr", url)
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Errorf("expected ErrRemoteRequest, got %v", err)
		}
	})
}

func TestRemoteTransportFailures(t *testing.T) {
	runWith := func(resp *http.Response, err error, args ...string) error {
		runner := NewRunner(RunnerOpts{
			Logger:     shared.NewLogger(&bytes.Buffer{}),
			Output:     &bytes.Buffer{},
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(resp, err)},
		})
		return runApp(runner, args...)
	}

	t.Run("non-JSON error body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("bad gateway")),
			Header:     make(http.Header),
		}
		err := runWith(resp, nil, "remote", "next")
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Fatalf("expected ErrRemoteRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "bad gateway") {
			t.Errorf("expected body in error, got %v", err)
		}
	})

	t.Run("state with error status", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       io.NopCloser(strings.NewReader(`{"error":"down"}`)),
			Header:     make(http.Header),
		}
		if err := runWith(resp, nil, "remote", "state"); !errors.Is(err, shared.ErrRemoteRequest) {
			t.Errorf("expected ErrRemoteRequest, got %v", err)
		}
	})

	t.Run("body read failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: make(http.Header)}
		err := runWith(resp, nil, "remote", "state")
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("expected read error, got %v", err)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		err := runWith(nil, errors.New("connection refused"), "remote", "prev")
		if !errors.Is(err, shared.ErrRemoteRequest) {
			t.Errorf("expected ErrRemoteRequest, got %v", err)
		}
	})
}

func TestRemoteBaseURL(t *testing.T) {
	cfg := shared.RemoteConfig{Host: "127.0.0.1", Port: 7070}
	tests := []struct {
		addr string
		want string
	}{
		{"", "http://127.0.0.1:7070"},
		{"localhost:9000", "http://localhost:9000"},
		{"http://example.test/", "http://example.test"},
		{"https://example.test", "https://example.test"},
	}
	for _, tt := range tests {
		if got := remoteBaseURL(tt.addr, cfg); got != tt.want {
			t.Errorf("remoteBaseURL(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestStatsCommand(t *testing.T) {
	deckPath := tu.WriteDeck(t, "pitch.md", tu.SampleDeck)
	dbPath := filepath.Join(t.TempDir(), "deckx.db")

	config := shared.DefaultConfig()
	config.Database.Path = dbPath

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	store := rehearsal.NewStore(db)

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	session, err := store.CreateSession(deckPath, "Launch", 3, start)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for _, v := range []rehearsal.Visit{
		{Slide: 1, Cause: "start", Direction: "forward", EnteredAt: start},
		{Slide: 2, Cause: "keyboard", Direction: "forward", EnteredAt: start.Add(30 * time.Second)},
	} {
		if _, err := store.AddVisit(session.ID, v); err != nil {
			t.Fatalf("failed to add visit: %v", err)
		}
	}
	if err := store.EndSession(session.ID, start.Add(90*time.Second)); err != nil {
		t.Fatalf("failed to end session: %v", err)
	}
	db.Close()

	newRunner := func(output *bytes.Buffer) *Runner {
		return NewRunner(RunnerOpts{
			Config:     config,
			ConfigPath: "config.toml",
			Logger:     shared.NewLogger(&bytes.Buffer{}),
			Output:     output,
		})
	}

	t.Run("latest session as CSV", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newRunner(output), "stats", "--format", "csv"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"1,Launch,1,30.0", "2,Agenda,1,60.0", "3,Ask,0,0.0"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected %q in output:\n%s", want, output.String())
			}
		}
	})

	t.Run("explicit session as text", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newRunner(output), "stats", "--session", session.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "1:30") {
			t.Errorf("expected total time, got:\n%s", output.String())
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		err := runApp(newRunner(&bytes.Buffer{}), "stats", "--session", "missing")
		if !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newRunner(output), "stats", "--list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), session.ID) {
			t.Errorf("expected session id in listing, got:\n%s", output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	t.Run("config", func(t *testing.T) {
		output := &bytes.Buffer{}
		if err := runApp(newTestRunner(output), "setup", "config", "--config", configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, configPath)

		if err := runApp(newTestRunner(output), "setup", "config", "--config", configPath); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		dbPath := filepath.Join(dir, "rehearsal.db")
		if err := os.WriteFile(configPath, []byte("[database]\npath = \""+filepath.ToSlash(dbPath)+"\"\n"), 0644); err != nil {
			t.Fatal(err)
		}

		if err := runApp(newTestRunner(&bytes.Buffer{}), "setup", "database", "--config", configPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertFileExists(t, dbPath)
	})
}

func TestPresentRequiresDeck(t *testing.T) {
	err := runApp(newTestRunner(&bytes.Buffer{}), "present")
	if !errors.Is(err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

func TestRunRemote(t *testing.T) {
	t.Run("address in use fails before presenting", func(t *testing.T) {
		taken, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to reserve port: %v", err)
		}
		defer taken.Close()

		cfg := shared.DefaultConfig().Remote
		cfg.Host = "127.0.0.1"
		cfg.Port = taken.Addr().(*net.TCPAddr).Port

		ctrl, _ := presenter.New(3)
		srv := remote.New(cfg, presenter.NewCommands(ctrl, nil, presenter.CauseRemote, nil), nil)

		stop, err := newTestRunner(&bytes.Buffer{}).runRemote(srv)
		if err == nil {
			stop()
			t.Fatal("expected a bind error")
		}
		if !strings.Contains(err.Error(), "failed to listen") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("serves until stopped", func(t *testing.T) {
		cfg := shared.DefaultConfig().Remote
		cfg.Host = "127.0.0.1"
		cfg.Port = 0

		ctrl, _ := presenter.New(3)
		srv := remote.New(cfg, presenter.NewCommands(ctrl, nil, presenter.CauseRemote, nil), nil)

		stop, err := newTestRunner(&bytes.Buffer{}).runRemote(srv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		defer stop()

		for i := 0; srv.Addr() == nil; i++ {
			if i > 100 {
				t.Fatal("server never started")
			}
			time.Sleep(5 * time.Millisecond)
		}
		resp, err := http.Get(srv.URL() + "/healthz")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}
