package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/samvad-hq/samvad-directory-client/pkg/api"
)

// Actions understood by Directory.Execute.
const (
	ActionList    = "list"
	ActionGet     = "get"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionJournal = "journal"
)

// Command is one parsed CLI invocation.
type Command struct {
	Resource api.Resource
	Action   string
	ID       string
	Params   json.RawMessage
	Limit    int
}

// ParseCommand turns positional arguments into a Command:
//
//	<vendors|users> list
//	<vendors|users> get <id>
//	<vendors|users> create <json>
//	<vendors|users> update <id> <json>
//	<vendors|users> delete <id>
//	journal [limit]
func ParseCommand(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("missing command")
	}

	if strings.EqualFold(args[0], ActionJournal) {
		cmd := Command{Action: ActionJournal}
		switch len(args) {
		case 1:
		case 2:
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return Command{}, fmt.Errorf("invalid journal limit %q", args[1])
			}
			cmd.Limit = n
		default:
			return Command{}, fmt.Errorf("journal takes at most one argument")
		}
		return cmd, nil
	}

	res, err := api.ParseResource(args[0])
	if err != nil {
		return Command{}, err
	}
	if len(args) < 2 {
		return Command{}, fmt.Errorf("missing action for %s", res)
	}

	cmd := Command{Resource: res, Action: strings.ToLower(args[1])}
	rest := args[2:]

	switch cmd.Action {
	case ActionList:
		err = expectArgs(cmd, rest, 0)
	case ActionGet, ActionDelete:
		if err = expectArgs(cmd, rest, 1); err == nil {
			cmd.ID = rest[0]
		}
	case ActionCreate:
		if err = expectArgs(cmd, rest, 1); err == nil {
			cmd.Params, err = parseParams(rest[0])
		}
	case ActionUpdate:
		if err = expectArgs(cmd, rest, 2); err == nil {
			cmd.ID = rest[0]
			cmd.Params, err = parseParams(rest[1])
		}
	default:
		return Command{}, fmt.Errorf("unknown action %q", args[1])
	}
	if err != nil {
		return Command{}, err
	}
	if needsID(cmd.Action) && strings.TrimSpace(cmd.ID) == "" {
		return Command{}, fmt.Errorf("%s %s requires a non-empty id", res, cmd.Action)
	}
	return cmd, nil
}

func expectArgs(cmd Command, rest []string, n int) error {
	if len(rest) != n {
		return fmt.Errorf("%s %s expects %d argument(s), got %d", cmd.Resource, cmd.Action, n, len(rest))
	}
	return nil
}

func needsID(action string) bool {
	return action == ActionGet || action == ActionUpdate || action == ActionDelete
}

// parseParams only checks the argument is a JSON object. The JSON is forwarded
// unchanged in meaning; encoding compacts its whitespace.
func parseParams(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return nil, fmt.Errorf("params must be a JSON object")
	}
	return json.RawMessage(raw), nil
}
