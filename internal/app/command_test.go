package app

import (
	"testing"

	"github.com/samvad-hq/samvad-directory-client/pkg/api"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		args []string
		want Command
	}{
		{[]string{"vendors", "list"}, Command{Resource: api.Vendors, Action: ActionList}},
		{[]string{"Users", "GET", "u7"}, Command{Resource: api.Users, Action: ActionGet, ID: "u7"}},
		{[]string{"vendors", "delete", "v1"}, Command{Resource: api.Vendors, Action: ActionDelete, ID: "v1"}},
		{[]string{"journal"}, Command{Action: ActionJournal}},
		{[]string{"journal", "5"}, Command{Action: ActionJournal, Limit: 5}},
	}
	for _, tc := range cases {
		got, err := ParseCommand(tc.args)
		if err != nil {
			t.Fatalf("ParseCommand(%v): %v", tc.args, err)
		}
		if got.Resource != tc.want.Resource || got.Action != tc.want.Action || got.ID != tc.want.ID || got.Limit != tc.want.Limit {
			t.Fatalf("ParseCommand(%v) = %+v, want %+v", tc.args, got, tc.want)
		}
	}
}

func TestParseCommandKeepsParamsVerbatim(t *testing.T) {
	got, err := ParseCommand([]string{"users", "update", "u7", `{"active":false}`})
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if got.ID != "u7" || string(got.Params) != `{"active":false}` {
		t.Fatalf("unexpected command %+v", got)
	}
}

func TestParseCommandRejectsBadInput(t *testing.T) {
	bad := [][]string{
		nil,
		{"orders", "list"},
		{"vendors"},
		{"vendors", "patch", "v1"},
		{"vendors", "get"},
		{"vendors", "get", " "},
		{"vendors", "list", "extra"},
		{"vendors", "create", `[1,2]`},
		{"vendors", "create", `not json`},
		{"users", "update", "u7"},
		{"journal", "-1"},
		{"journal", "1", "2"},
	}
	for _, args := range bad {
		if _, err := ParseCommand(args); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}
