package inspect

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/guise-dev/guise/pkg/memdom"
)

var errNotFound = errors.New("inspect: commit not in history")

// EventRequest is the body of POST /events.
type EventRequest struct {
	Path  []int  `json:"path"` // child indices from the body
	Type  string `json:"type"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// ComponentInfo is one element of GET /components.
type ComponentInfo struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Commits uint64 `json:"commits"`
}

// Handler returns the inspector's HTTP API:
//
//	GET  /commits?after=N&limit=M   buffered commits after N
//	GET  /commits/{seq}             one commit
//	POST /commits/{seq}/archive     upload one snapshot
//	GET  /tree                      serialized document body
//	GET  /components                mounted instances
//	POST /events                    dispatch a user event
//	GET  /ws?after=N                live commit feed
//	GET  /metrics                   when a metrics handler is set
func (in *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(in.middleware...)

	r.Get("/commits", in.handleCommits)
	r.Get("/commits/{seq}", in.handleCommit)
	r.Post("/commits/{seq}/archive", in.handleArchive)
	r.Get("/tree", in.handleTree)
	r.Get("/components", in.handleComponents)
	r.Post("/events", in.handleEvent)
	r.Get("/ws", in.handleWS)
	if in.metrics != nil {
		r.Handle("/metrics", in.metrics)
	}
	return r
}

func (in *Inspector) handleCommits(w http.ResponseWriter, r *http.Request) {
	after, err := uintParam(r.URL.Query().Get("after"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, err := uintParam(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	entries := in.history.Since(after, int(limit))
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (in *Inspector) handleCommit(w http.ResponseWriter, r *http.Request) {
	seq, err := uintParam(chi.URLParam(r, "seq"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e, ok := in.history.Get(seq)
	if !ok {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (in *Inspector) handleArchive(w http.ResponseWriter, r *http.Request) {
	seq, err := uintParam(chi.URLParam(r, "seq"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	switch err := in.Archive(r.Context(), seq); {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrNoArchiver):
		writeError(w, http.StatusNotImplemented, err)
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}

func (in *Inspector) handleTree(w http.ResponseWriter, r *http.Request) {
	var html string
	if err := in.onLoop(r.Context(), func() { html = in.doc.HTML() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func (in *Inspector) handleComponents(w http.ResponseWriter, r *http.Request) {
	out := []ComponentInfo{}
	if in.registry != nil {
		for _, inst := range in.registry.Instances() {
			out = append(out, ComponentInfo{
				Name:    inst.Name(),
				State:   inst.State().String(),
				Commits: inst.Commits(),
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (in *Inspector) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("inspect: decode event: %w", err))
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, errors.New("inspect: event type is required"))
		return
	}

	var dispatchErr error
	err := in.onLoop(r.Context(), func() {
		n, err := in.doc.NodeAt(req.Path)
		if err != nil {
			dispatchErr = err
			return
		}
		el, ok := n.(*memdom.Element)
		if !ok {
			dispatchErr = fmt.Errorf("inspect: node at %v is not an element", req.Path)
			return
		}
		dispatch(el, req)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if dispatchErr != nil {
		writeError(w, http.StatusBadRequest, dispatchErr)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// dispatch performs the user action behind req on el.
func dispatch(el *memdom.Element, req EventRequest) {
	switch req.Type {
	case "click":
		el.Click()
	case "dblclick":
		el.DoubleClick()
	case "input":
		el.Type(req.Value)
	case "keydown":
		el.KeyDown(req.Key)
	case "change":
		el.Toggle()
	case "focusout":
		el.Blur()
	default:
		el.Dispatch(&memdom.Event{Kind: req.Type, KeyName: req.Key})
	}
}

func (in *Inspector) handleWS(w http.ResponseWriter, r *http.Request) {
	after, err := uintParam(r.URL.Query().Get("after"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	conn, err := in.upgrader.Upgrade(w, r, nil)
	if err != nil {
		in.logger.Warn("inspector upgrade failed", "error", err)
		return
	}

	var backlog [][]byte
	if r.URL.Query().Has("after") {
		for _, e := range in.history.Since(after, 0) {
			if msg, err := encode(e); err == nil {
				backlog = append(backlog, msg)
			}
		}
	}
	c := in.hub.add(conn, backlog)
	in.logger.Debug("inspector client connected", "remote", conn.RemoteAddr().String(), "backlog", len(backlog))

	go c.writeLoop(in.logger)
	go func() {
		c.readLoop(in.logger)
		in.hub.remove(c)
	}()
}

func encode(e Entry) ([]byte, error) {
	return json.Marshal(e)
}

func uintParam(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("inspect: invalid number %q", s)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
