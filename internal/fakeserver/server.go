// Package fakeserver is an in-memory stand-in for the directory REST server.
package fakeserver

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/samvad-hq/samvad-directory-client/internal/logger"
)

// Collections served under /api.
var Collections = []string{"vendors", "users"}

type collection struct {
	order   []string
	records map[string]map[string]any
}

// Server serves GET/POST /api/{resource} and GET/PUT/DELETE /api/{resource}/{id}.
type Server struct {
	mu     sync.RWMutex
	data   map[string]*collection
	router chi.Router
	log    logger.Logger
}

// New builds an empty server.
func New(log logger.Logger) *Server {
	if log == nil {
		log = logger.NopLogger{}
	}
	s := &Server{
		data: make(map[string]*collection, len(Collections)),
		log:  log,
	}
	for _, name := range Collections {
		s.data[name] = &collection{records: make(map[string]map[string]any)}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.NotFound(expressNotFound)

	for _, name := range Collections {
		name := name
		r.Route("/api/"+name, func(r chi.Router) {
			r.Get("/", s.list(name))
			r.Post("/", s.create(name))
			r.Get("/{id}", s.get(name))
			r.Put("/{id}", s.update(name))
			r.Delete("/{id}", s.remove(name))
		})
	}
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Seed stores records directly, assigning ids to records that lack one.
func (s *Server) Seed(resource string, records ...map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.data[resource]
	if !ok {
		return fmt.Errorf("unknown collection %q", resource)
	}
	for _, rec := range records {
		if _, err := col.insert(copyRecord(rec)); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of records held for resource.
func (s *Server) Len(resource string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if col, ok := s.data[resource]; ok {
		return len(col.order)
	}
	return 0
}

func (c *collection) insert(rec map[string]any) (map[string]any, error) {
	id, _ := rec["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
		rec["id"] = id
	}
	if _, exists := c.records[id]; exists {
		return nil, fmt.Errorf("record %q already exists", id)
	}
	c.records[id] = rec
	c.order = append(c.order, id)
	return rec, nil
}

func (c *collection) delete(id string) {
	delete(c.records, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (s *Server) list(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.RLock()
		col := s.data[name]
		out := make([]map[string]any, 0, len(col.order))
		for _, id := range col.order {
			out = append(out, col.records[id])
		}
		writeJSON(w, http.StatusOK, out)
		s.mu.RUnlock()
	}
}

func (s *Server) get(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := recordID(r)
		s.mu.RLock()
		defer s.mu.RUnlock()
		rec, ok := s.data[name].records[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %q not found", name, id))
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) create(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if params == nil {
			params = make(map[string]any)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		rec, err := s.data[name].insert(params)
		if err != nil {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *Server) update(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := recordID(r)
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		rec, ok := s.data[name].records[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %q not found", name, id))
			return
		}
		for k, v := range params {
			rec[k] = v
		}
		rec["id"] = id
		writeJSON(w, http.StatusOK, rec)
	}
}

func (s *Server) remove(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := recordID(r)
		s.mu.Lock()
		defer s.mu.Unlock()
		col := s.data[name]
		rec, ok := col.records[id]
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s %q not found", name, id))
			return
		}
		col.delete(id)
		writeJSON(w, http.StatusOK, map[string]any{"deleted": rec})
	}
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.DebugObj("fake server request", "request", map[string]any{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}

// recordID returns the decoded {id} segment. chi matches against RawPath when
// the request carries one, so only then is the segment still escaped.
func recordID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

// expressNotFound mimics the HTML page Express sends for unmatched routes.
func expressNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>Error</title>\n</head>\n<body>\n<pre>Cannot %s %s</pre>\n</body>\n</html>\n",
		r.Method, html.EscapeString(r.URL.Path))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func copyRecord(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
