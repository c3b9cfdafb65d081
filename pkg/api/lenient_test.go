package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/samvad-hq/samvad-directory-client/pkg/httpclient"
)

// countingLogger records error-level calls.
type countingLogger struct {
	noopLogger
	mu     sync.Mutex
	errors []interface{}
}

func (c *countingLogger) ErrorObj(_ string, _ string, obj interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, obj)
}

type lenientCase struct {
	name   string
	method string
	url    string
	call   func(ctx context.Context, l *Lenient) Body
}

func lenientCases() []lenientCase {
	params := map[string]any{"name": "Acme"}

	return []lenientCase{
		{"ListVendors", http.MethodGet, "http://dir.test/api/vendors",
			func(ctx context.Context, l *Lenient) Body { return l.ListVendors(ctx) }},
		{"GetVendor", http.MethodGet, "http://dir.test/api/vendors/v1",
			func(ctx context.Context, l *Lenient) Body { return l.GetVendor(ctx, "v1") }},
		{"CreateVendor", http.MethodPost, "http://dir.test/api/vendors",
			func(ctx context.Context, l *Lenient) Body { return l.CreateVendor(ctx, params) }},
		{"UpdateVendor", http.MethodPut, "http://dir.test/api/vendors/v1",
			func(ctx context.Context, l *Lenient) Body { return l.UpdateVendor(ctx, "v1", params) }},
		{"DeleteVendor", http.MethodDelete, "http://dir.test/api/vendors/v1",
			func(ctx context.Context, l *Lenient) Body { return l.DeleteVendor(ctx, "v1") }},
		{"ListUsers", http.MethodGet, "http://dir.test/api/users",
			func(ctx context.Context, l *Lenient) Body { return l.ListUsers(ctx) }},
		{"GetUser", http.MethodGet, "http://dir.test/api/users/u1",
			func(ctx context.Context, l *Lenient) Body { return l.GetUser(ctx, "u1") }},
		{"CreateUser", http.MethodPost, "http://dir.test/api/users",
			func(ctx context.Context, l *Lenient) Body { return l.CreateUser(ctx, params) }},
		{"UpdateUser", http.MethodPut, "http://dir.test/api/users/u1",
			func(ctx context.Context, l *Lenient) Body { return l.UpdateUser(ctx, "u1", params) }},
		{"DeleteUser", http.MethodDelete, "http://dir.test/api/users/u1",
			func(ctx context.Context, l *Lenient) Body { return l.DeleteUser(ctx, "u1") }},
	}
}

func TestLenientPassesSuccessBodiesThrough(t *testing.T) {
	for _, tc := range lenientCases() {
		t.Run(tc.name, func(t *testing.T) {
			body := `{"id":"1","name":"Acme"}`
			if tc.method == http.MethodGet && (tc.url == "http://dir.test/api/vendors" || tc.url == "http://dir.test/api/users") {
				body = `[{"id":"1","name":"Acme"}]`
			}

			transport := &fakeTransport{resp: fakeResponse{status: http.StatusOK, body: []byte(body)}}
			client, err := New("http://dir.test", WithHTTPClient(transport))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			log := &countingLogger{}

			got := tc.call(context.Background(), client.Lenient(log))
			if string(got) != body {
				t.Fatalf("got %s, want %s", got, body)
			}
			if len(log.errors) != 0 {
				t.Fatalf("expected no error logs, got %d", len(log.errors))
			}
			if len(transport.requests) != 1 {
				t.Fatalf("expected one request, got %d", len(transport.requests))
			}
			req := transport.requests[0]
			if req.Method != tc.method || req.URL != tc.url {
				t.Fatalf("unexpected request %s %s", req.Method, req.URL)
			}
			if tc.method == http.MethodPost || tc.method == http.MethodPut {
				if string(req.Body) != `{"name":"Acme"}` {
					t.Fatalf("unexpected body %q", req.Body)
				}
			} else if req.Body != nil {
				t.Fatalf("expected no body, got %q", req.Body)
			}
		})
	}
}

func TestLenientPassesNonObjectBodiesThrough(t *testing.T) {
	bodies := []struct {
		name string
		body string
		want string
	}{
		{name: "string", body: `"created"`, want: `"created"`},
		{name: "number", body: `5`, want: `5`},
		{name: "array", body: `[{"id":"1"}]`, want: `[{"id":"1"}]`},
		{name: "plain text", body: `OK`, want: `"OK"`},
	}
	for _, tc := range lenientCases() {
		for _, b := range bodies {
			t.Run(tc.name+"/"+b.name, func(t *testing.T) {
				transport := &fakeTransport{resp: fakeResponse{status: http.StatusCreated, body: []byte(b.body)}}
				client, _ := New("http://dir.test", WithHTTPClient(transport))
				log := &countingLogger{}

				got := tc.call(context.Background(), client.Lenient(log))
				if string(got) != b.want {
					t.Fatalf("got %s, want %s", got, b.want)
				}
				if len(log.errors) != 0 {
					t.Fatalf("expected no error logs, got %d", len(log.errors))
				}
			})
		}
	}
}

func TestLenientSwallowsTransportFailures(t *testing.T) {
	for _, tc := range lenientCases() {
		t.Run(tc.name, func(t *testing.T) {
			boom := errors.New("dial tcp: connection refused")
			client, _ := New("http://dir.test", WithHTTPClient(&fakeTransport{err: boom}))
			log := &countingLogger{}

			if got := tc.call(context.Background(), client.Lenient(log)); got != nil {
				t.Fatalf("expected nil result, got %s", got)
			}
			if len(log.errors) != 1 {
				t.Fatalf("expected exactly one error log, got %d", len(log.errors))
			}
			if err, ok := log.errors[0].(error); !ok || !errors.Is(err, boom) {
				t.Fatalf("expected logged error to wrap transport failure, got %#v", log.errors[0])
			}
		})
	}
}

func TestLenientSwallowsRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client, err := New(baseURL, WithHTTPClient(httpclient.NewRestyClient(0)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, tc := range lenientCases() {
		t.Run(tc.name, func(t *testing.T) {
			log := &countingLogger{}
			if got := tc.call(context.Background(), client.Lenient(log)); got != nil {
				t.Fatalf("expected nil result, got %s", got)
			}
			if len(log.errors) != 1 {
				t.Fatalf("expected exactly one error log, got %d", len(log.errors))
			}
			if err, ok := log.errors[0].(error); !ok || KindOf(err) != KindTransport {
				t.Fatalf("expected transport error, got %#v", log.errors[0])
			}
		})
	}
}

func TestLenientSwallowsNon2xx(t *testing.T) {
	for _, tc := range lenientCases() {
		t.Run(tc.name, func(t *testing.T) {
			transport := &fakeTransport{resp: fakeResponse{status: http.StatusInternalServerError, body: []byte("oops")}}
			client, _ := New("http://dir.test", WithHTTPClient(transport))
			log := &countingLogger{}

			if got := tc.call(context.Background(), client.Lenient(log)); got != nil {
				t.Fatalf("expected nil result, got %s", got)
			}
			if len(log.errors) != 1 {
				t.Fatalf("expected exactly one error log, got %d", len(log.errors))
			}
		})
	}
}

func TestLenientGetUserMissingReturnsNil(t *testing.T) {
	rec := &recorder{status: http.StatusNotFound, body: `Not Found`, contentType: "text/plain"}
	client := newTestClient(t, rec)
	log := &countingLogger{}

	if user := client.Lenient(log).GetUser(context.Background(), "99"); user != nil {
		t.Fatalf("expected nil, got %s", user)
	}
	if len(log.errors) != 1 {
		t.Fatalf("expected exactly one error log, got %d", len(log.errors))
	}
}

func TestLenientToleratesNilLogger(t *testing.T) {
	client, _ := New("http://dir.test", WithHTTPClient(&fakeTransport{err: errors.New("down")}))
	if got := client.Lenient(nil).ListUsers(context.Background()); got != nil {
		t.Fatalf("expected nil, got %s", got)
	}
}
