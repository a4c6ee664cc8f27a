package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/guise-dev/guise/internal/config"
	"github.com/guise-dev/guise/internal/errors"
	"github.com/guise-dev/guise/pkg/inspect"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "dev\n" {
		t.Errorf("output = %q, want %q", out, "dev\n")
	}
}

func TestDemoCounter(t *testing.T) {
	out, err := run(t, "demo", "counter", "--clicks=1")
	if err != nil {
		t.Fatalf("demo counter: %v", err)
	}
	for _, want := range []string{
		"# mount x-counter\n" + `<x-counter initial-count="0">0<button>Increment!</button></x-counter>`,
		"# click #1\n" + `<x-counter initial-count="0">1<button>Increment!</button></x-counter>`,
		"# set initial-count=10\n" + `<x-counter initial-count="10">10<button>Increment!</button></x-counter>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "click #2") {
		t.Errorf("--clicks=1 should play a single click:\n%s", out)
	}
}

func TestDemoTodoFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guise.yaml")
	if err := os.WriteFile(path, []byte("demo:\n  todos: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "demo", "todo", "--config", path)
	if err != nil {
		t.Fatalf("demo todo: %v", err)
	}
	if !strings.Contains(out, "# remove the last todo") {
		t.Errorf("script did not finish:\n%s", out)
	}
	last := out[strings.LastIndex(out, "# remove the last todo"):]
	if !strings.Contains(last, "Walk the dog") || strings.Contains(last, "Buy milk") {
		t.Errorf("unexpected final document:\n%s", last)
	}
}

func TestDemoErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown demo", []string{"demo", "clock"}, errors.UnknownDemo},
		{"negative clicks", []string{"demo", "counter", "--clicks=-1"}, errors.InvalidFlag},
		{"missing config", []string{"demo", "counter", "--config", "/nonexistent/guise.json"}, errors.ConfigNotFound},
		{"bad extension", []string{"demo", "counter", "--config", "guise.toml"}, errors.ConfigFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errors.HasCode(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInspectServer(t *testing.T) {
	cfg := config.New()
	cfg.Demo.Todos = 2
	srv, err := newInspectServer(context.Background(), cfg, newLogger(io.Discard, false))
	if err != nil {
		t.Fatalf("newInspectServer: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/commits")
	if err != nil {
		t.Fatalf("GET /commits: %v", err)
	}
	var entries []inspect.Entry
	err = json.NewDecoder(resp.Body).Decode(&entries)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// todo-app and its two items.
	if len(entries) != 3 {
		t.Errorf("got %d commits, want 3", len(entries))
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `guise_commits_total{component="todo-app"} 1`) {
		t.Errorf("metrics missing todo-app commit:\n%s", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
	srv.session.Close()
}

// isolateAWS points the AWS configuration chain at files that do not exist.
func isolateAWS(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_DEFAULT_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

func TestNewS3Client(t *testing.T) {
	isolateAWS(t)
	client, err := newS3Client(context.Background(), "eu-west-1")
	if err != nil {
		t.Fatalf("newS3Client: %v", err)
	}
	if got := client.Options().Region; got != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", got)
	}
}

func TestNewS3ClientRegionFromEnvironment(t *testing.T) {
	isolateAWS(t)
	t.Setenv("AWS_REGION", "ap-south-1")
	client, err := newS3Client(context.Background(), "")
	if err != nil {
		t.Fatalf("newS3Client: %v", err)
	}
	if got := client.Options().Region; got != "ap-south-1" {
		t.Errorf("Region = %q, want ap-south-1", got)
	}
}

func TestInspectServerAWSConfigError(t *testing.T) {
	isolateAWS(t)
	t.Setenv("AWS_PROFILE", "guise-missing-profile")

	cfg := config.New()
	cfg.Archive.Enabled = true
	cfg.Archive.Bucket = "snapshots"
	_, err := newInspectServer(context.Background(), cfg, newLogger(io.Discard, false))
	if !errors.HasCode(err, errors.AWSConfigFailed) {
		t.Errorf("newInspectServer() = %v, want code %s", err, errors.AWSConfigFailed)
	}
}
