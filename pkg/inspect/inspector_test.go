package inspect

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/guise-dev/guise/pkg/component"
	"github.com/guise-dev/guise/pkg/dom"
	"github.com/guise-dev/guise/pkg/memdom"
	"github.com/guise-dev/guise/pkg/sched"
	"github.com/guise-dev/guise/pkg/vdom"
	"github.com/guise-dev/guise/pkg/vtest"
)

type counter struct{ n int }

var counterDef = component.Definition{
	Name: "x-counter",
	Init: func(host dom.Element, _ *component.AttributesChanged) sched.Stream[*vdom.Tree] {
		vm := component.NewViewModel(counter{})
		up := vm.Updater()
		return vm.Rendered(func(c *counter) *vdom.Tree {
			t := vdom.New()
			t.Element("button", func(b *vdom.Builder) {
				vdom.OnFunc(b, "click", func(dom.Event) {
					up.Update(func(c *counter) { c.n++ })
				})
				b.Text(strconv.Itoa(c.n))
			})
			return t
		})
	},
}

type fixture struct {
	sched *sched.Scheduler
	doc   *memdom.Document
	reg   *component.Registry
	insp  *Inspector
}

// mount builds a document with one mounted x-counter and an inspector
// observing it. The initial commit has already happened.
func mount(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	h := vtest.New(t, []component.Definition{counterDef})
	insp := New(h.Doc, append([]Option{WithRegistry(h.Registry)}, opts...)...)
	h.Registry.Observe(insp)

	h.Mount("x-counter")
	return &fixture{sched: h.Sched, doc: h.Doc, reg: h.Registry, insp: insp}
}

// serve drives the scheduler on its own goroutine and serves the API.
func (f *fixture) serve(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.sched.Run(ctx)
	}()
	srv := httptest.NewServer(f.insp.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestInspectorRecordsCommits(t *testing.T) {
	f := mount(t)

	if n := f.insp.History().Count(); n != 1 {
		t.Fatalf("history count = %d, want 1", n)
	}
	e, _ := f.insp.History().Get(1)
	if e.Component != "x-counter" || e.Commit != 1 {
		t.Errorf("entry = %+v", e)
	}
	if e.HTML != "<x-counter><button>0</button></x-counter>" {
		t.Errorf("HTML = %q", e.HTML)
	}
	if e.Stats.Created != 2 || e.Stats.Sinks != 1 {
		t.Errorf("Stats = %+v, want 2 created and 1 sink", e.Stats)
	}
}

func TestCommitEndpoints(t *testing.T) {
	f := mount(t)
	srv := f.serve(t)

	var entries []Entry
	if code := getJSON(t, srv.URL+"/commits", &entries); code != http.StatusOK {
		t.Fatalf("GET /commits = %d", code)
	}
	if len(entries) != 1 || entries[0].Seq != 1 {
		t.Fatalf("entries = %+v", entries)
	}

	var e Entry
	if code := getJSON(t, srv.URL+"/commits/1", &e); code != http.StatusOK || e.Component != "x-counter" {
		t.Errorf("GET /commits/1 = %d, %+v", code, e)
	}
	if code := getJSON(t, srv.URL+"/commits/99", nil); code != http.StatusNotFound {
		t.Errorf("GET /commits/99 = %d, want 404", code)
	}
	if code := getJSON(t, srv.URL+"/commits?after=x", nil); code != http.StatusBadRequest {
		t.Errorf("GET /commits?after=x = %d, want 400", code)
	}

	var comps []ComponentInfo
	getJSON(t, srv.URL+"/components", &comps)
	if len(comps) != 1 || comps[0].Name != "x-counter" || comps[0].State != "Connected" || comps[0].Commits != 1 {
		t.Errorf("components = %+v", comps)
	}
}

func TestEventEndpointDrivesARender(t *testing.T) {
	f := mount(t)
	srv := f.serve(t)

	body := `{"path":[0,0],"type":"click"}`
	resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /events: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST /events = %d, want 202", resp.StatusCode)
	}

	waitFor(t, "second commit", func() bool { return f.insp.History().MaxSeq() == 2 })
	e, _ := f.insp.History().Get(2)
	if e.HTML != "<x-counter><button>1</button></x-counter>" || e.Stats.TextUpdates != 1 {
		t.Errorf("entry 2 = %+v", e)
	}

	resp, err = http.Get(srv.URL + "/tree")
	if err != nil {
		t.Fatalf("GET /tree: %v", err)
	}
	defer resp.Body.Close()
	html, _ := io.ReadAll(resp.Body)
	if got := string(html); got != "<x-counter><button>1</button></x-counter>" {
		t.Errorf("GET /tree = %q", got)
	}
}

func TestEventEndpointRejectsBadRequests(t *testing.T) {
	f := mount(t)
	srv := f.serve(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"missing type", `{"path":[0]}`},
		{"out of range", `{"path":[5],"type":"click"}`},
		{"text node", `{"path":[0,0,0],"type":"click"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestArchiveEndpoint(t *testing.T) {
	t.Run("no archiver", func(t *testing.T) {
		f := mount(t)
		if err := f.insp.Archive(context.Background(), 1); !errors.Is(err, ErrNoArchiver) {
			t.Fatalf("Archive error = %v, want ErrNoArchiver", err)
		}
		srv := f.serve(t)
		resp, err := http.Post(srv.URL+"/commits/1/archive", "", nil)
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("status = %d, want 501", resp.StatusCode)
		}
	})

	t.Run("uploads", func(t *testing.T) {
		client := &fakeS3{}
		f := mount(t, WithArchiver(NewS3Archiver(client, "b", "p")))
		if err := f.insp.Archive(context.Background(), 1); err != nil {
			t.Fatalf("Archive: %v", err)
		}
		if len(client.inputs) != 1 || client.bodies[0] != "<x-counter><button>0</button></x-counter>" {
			t.Errorf("uploads = %v", client.bodies)
		}
		if err := f.insp.Archive(context.Background(), 9); !errors.Is(err, errNotFound) {
			t.Errorf("Archive(9) error = %v, want not found", err)
		}
	})
}

type chanArchiver chan Entry

func (c chanArchiver) Archive(ctx context.Context, e Entry) error {
	c <- e
	return nil
}

func TestRunArchivesInBackground(t *testing.T) {
	archived := make(chanArchiver, 4)
	f := mount(t, WithArchiver(archived))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.insp.Run(ctx) }()

	select {
	case e := <-archived:
		if e.Seq != 1 || e.Component != "x-counter" {
			t.Errorf("archived %+v", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot was not archived")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestWebsocketFeed(t *testing.T) {
	f := mount(t)
	srv := f.serve(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?after=0"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() Entry {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage: %v", err)
		}
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		return e
	}

	if e := read(); e.Seq != 1 {
		t.Fatalf("backlog entry seq = %d, want 1", e.Seq)
	}
	waitFor(t, "client registration", func() bool { return f.insp.Clients() == 1 })

	resp, err := http.Post(srv.URL+"/events", "application/json", strings.NewReader(`{"path":[0,0],"type":"click"}`))
	if err != nil {
		t.Fatalf("POST /events: %v", err)
	}
	resp.Body.Close()

	if e := read(); e.Seq != 2 || e.Commit != 2 {
		t.Errorf("live entry = %+v, want seq 2", e)
	}
}

func TestMetricsMount(t *testing.T) {
	f := mount(t, WithMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})))
	srv := f.serve(t)

	if code := getJSON(t, srv.URL+"/metrics", nil); code != http.StatusOK {
		t.Errorf("GET /metrics = %d", code)
	}
}

func TestOnLoopSkipsAbandonedWork(t *testing.T) {
	f := mount(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	if err := f.insp.onLoop(ctx, func() { ran = true }); !errors.Is(err, context.Canceled) {
		t.Fatalf("onLoop() = %v, want context.Canceled", err)
	}
	f.sched.RunUntilIdle()
	if ran {
		t.Error("work abandoned before the loop reached it should not run")
	}
}

func TestOnLoopRunsOnTheLoop(t *testing.T) {
	f := mount(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		f.sched.Run(ctx)
	}()

	var html string
	if err := f.insp.onLoop(ctx, func() { html = f.doc.HTML() }); err != nil {
		t.Fatalf("onLoop() = %v", err)
	}
	if !strings.Contains(html, "<x-counter>") {
		t.Errorf("HTML() = %q", html)
	}
	cancel()
	<-loopDone
}
