package fakeserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-directory-client/pkg/api"
)

func newClient(t *testing.T, srv *Server) *api.Client {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	client, err := api.New(ts.URL)
	if err != nil {
		t.Fatalf("api.New: %v", err)
	}
	return client
}

func TestVendorLifecycleAgainstFakeServer(t *testing.T) {
	srv := New(nil)
	client := newClient(t, srv)
	ctx := context.Background()

	body, err := client.CreateVendor(ctx, map[string]any{"name": "Acme"})
	if err != nil {
		t.Fatalf("CreateVendor: %v", err)
	}
	created, _ := body.Record()
	id, _ := created["id"].(string)
	if id == "" || created["name"] != "Acme" {
		t.Fatalf("unexpected created record %#v", created)
	}

	body, err = client.GetVendor(ctx, id)
	if err != nil {
		t.Fatalf("GetVendor: %v", err)
	}
	got, _ := body.Record()
	if got["name"] != "Acme" {
		t.Fatalf("unexpected vendor %#v", got)
	}

	body, err = client.UpdateVendor(ctx, id, map[string]any{"name": "Acme Corp", "active": false})
	if err != nil {
		t.Fatalf("UpdateVendor: %v", err)
	}
	updated, _ := body.Record()
	if updated["name"] != "Acme Corp" || updated["active"] != false || updated["id"] != id {
		t.Fatalf("unexpected updated record %#v", updated)
	}

	body, err = client.ListVendors(ctx)
	if err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	list, _ := body.Records()
	if len(list) != 1 {
		t.Fatalf("expected one vendor, got %d", len(list))
	}

	raw, err := client.DeleteVendor(ctx, id)
	if err != nil {
		t.Fatalf("DeleteVendor: %v", err)
	}
	var reply struct {
		Deleted map[string]any `json:"deleted"`
	}
	if err := raw.Decode(&reply); err != nil || reply.Deleted["id"] != id {
		t.Fatalf("unexpected delete reply %s (err=%v)", raw, err)
	}
	if srv.Len("vendors") != 0 {
		t.Fatalf("expected vendor removed")
	}

	if _, err := client.GetVendor(ctx, id); !api.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSeededListKeepsInsertionOrder(t *testing.T) {
	srv := New(nil)
	if err := srv.Seed("users", map[string]any{"id": "b"}, map[string]any{"id": "a"}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	client := newClient(t, srv)

	body, err := client.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	users, _ := body.Records()
	if len(users) != 2 || users[0]["id"] != "b" || users[1]["id"] != "a" {
		t.Fatalf("unexpected order %#v", users)
	}
}

func TestSeedRejectsDuplicatesAndUnknownCollections(t *testing.T) {
	srv := New(nil)
	if err := srv.Seed("users", map[string]any{"id": "x"}, map[string]any{"id": "x"}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if err := srv.Seed("orders", map[string]any{"id": "x"}); err == nil {
		t.Fatalf("expected unknown collection error")
	}
}

func TestUnknownRouteServesExpressStylePage(t *testing.T) {
	srv := New(nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<pre>Cannot GET /api/orders</pre>") {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestMissingUserIsJSON404(t *testing.T) {
	client := newClient(t, New(nil))

	user, err := client.GetUser(context.Background(), "99")
	if user != nil || !api.IsNotFound(err) {
		t.Fatalf("expected nil user and not found, got %#v %v", user, err)
	}
	if !strings.Contains(err.Error(), `users \"99\" not found`) {
		t.Fatalf("expected server message in error, got %q", err.Error())
	}
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	srv := New(nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vendors", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEscapedIDsRoundTrip(t *testing.T) {
	srv := New(nil)
	ids := []string{"a%41", "a/b c", "plain"}
	for _, id := range ids {
		if err := srv.Seed("users", map[string]any{"id": id}); err != nil {
			t.Fatalf("Seed %q: %v", id, err)
		}
	}
	client := newClient(t, srv)

	for _, id := range ids {
		body, err := client.GetUser(context.Background(), id)
		if err != nil {
			t.Fatalf("GetUser(%q): %v", id, err)
		}
		rec, err := body.Record()
		if err != nil || rec["id"] != id {
			t.Fatalf("GetUser(%q) returned %s", id, body)
		}
	}
}
