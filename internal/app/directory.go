package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-directory-client/internal/config"
	"github.com/samvad-hq/samvad-directory-client/internal/logger"
	"github.com/samvad-hq/samvad-directory-client/internal/storage"
	"github.com/samvad-hq/samvad-directory-client/pkg/api"
	"github.com/samvad-hq/samvad-directory-client/pkg/httpclient"
	"github.com/samvad-hq/samvad-directory-client/pkg/publishers"
)

// Directory wires the resource client with the mutation journal and event publishers.
type Directory struct {
	client  *api.Client
	fanout  *publishers.Fanout
	journal storage.Journal
	log     logger.Logger
}

// NewDirectory builds a directory runtime from config.
func NewDirectory(ctx context.Context, cfg *config.Config, log logger.Logger) (*Directory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := api.New(cfg.BaseURL,
		api.WithHTTPClient(httpclient.NewRestyClient(cfg.RequestTimeout)),
		api.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	journalOpts := storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	}
	journal, err := storage.NewJournal(cfg.JournalType, cfg.JournalPath, journalOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.DebugObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"entry_ttl_seconds":        int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	return newDirectory(client, fanout, journal, log), nil
}

func newDirectory(client *api.Client, fanout *publishers.Fanout, journal storage.Journal, log logger.Logger) *Directory {
	if log == nil {
		log = logger.NopLogger{}
	}
	if journal == nil {
		journal, _ = storage.NewJournal("none", "", storage.Options{})
	}
	return &Directory{client: client, fanout: fanout, journal: journal, log: log}
}

// buildFanout returns an empty fanout when no publishers file is configured.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		return publishers.NewFanout(nil), nil
	}

	enabled, err := publishers.LoadConfigs(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers file: %w", err)
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.DebugObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client exposes the underlying resource client.
func (d *Directory) Client() *api.Client { return d.client }

// Execute runs cmd and returns its decoded result.
func (d *Directory) Execute(ctx context.Context, cmd Command) (any, error) {
	if d == nil || d.client == nil {
		return nil, fmt.Errorf("directory is not initialized")
	}

	switch cmd.Action {
	case ActionJournal:
		return d.journal.Recent(cmd.Limit)
	case ActionList:
		return d.client.List(ctx, cmd.Resource)
	case ActionGet:
		return d.client.Get(ctx, cmd.Resource, cmd.ID)
	case ActionCreate:
		body, err := d.client.Create(ctx, cmd.Resource, params(cmd))
		if err != nil {
			return nil, err
		}
		d.recordMutation(ctx, cmd.Resource, publishers.ActionCreate, recordID(body, ""), body)
		return body, nil
	case ActionUpdate:
		body, err := d.client.Update(ctx, cmd.Resource, cmd.ID, params(cmd))
		if err != nil {
			return nil, err
		}
		d.recordMutation(ctx, cmd.Resource, publishers.ActionUpdate, recordID(body, cmd.ID), body)
		return body, nil
	case ActionDelete:
		body, err := d.client.Delete(ctx, cmd.Resource, cmd.ID)
		if err != nil {
			return nil, err
		}
		d.recordMutation(ctx, cmd.Resource, publishers.ActionDelete, cmd.ID, body)
		return body, nil
	default:
		return nil, fmt.Errorf("unknown action %q", cmd.Action)
	}
}

// params keeps a nil interface when the command carries no body.
func params(cmd Command) any {
	if len(cmd.Params) == 0 {
		return nil
	}
	return cmd.Params
}

// recordMutation journals and publishes a successful mutation. Failures here are
// logged and never fail the request that already succeeded.
func (d *Directory) recordMutation(ctx context.Context, res api.Resource, action, id string, body api.Body) {
	entry := storage.Entry{Resource: string(res), Action: action, RecordID: id}
	if err := d.journal.Append(entry); err != nil {
		d.log.WarnObj("journal append failed", "journal_error", map[string]any{
			"resource":  string(res),
			"action":    action,
			"record_id": id,
			"error":     err.Error(),
		})
	}

	if d.fanout.Size() == 0 {
		return
	}

	delivered, err := d.fanout.Publish(ctx, publishers.NewEvent(string(res), action, id, json.RawMessage(body)))
	if err != nil {
		d.log.WarnObj("mutation event publish failed", "publish_error", map[string]any{
			"resource":  string(res),
			"action":    action,
			"record_id": id,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	d.log.DebugObj("mutation event published", "publish_result", map[string]any{
		"resource":  string(res),
		"action":    action,
		"record_id": id,
		"delivered": delivered,
	})
}

// recordID extracts the server-assigned id, falling back when the reply
// is not an object or carries no id.
func recordID(body api.Body, fallback string) string {
	rec, err := body.Record()
	if err != nil {
		return fallback
	}
	switch v := rec["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return fallback
}

// Close releases the journal and publisher connections.
func (d *Directory) Close() error {
	if d == nil {
		return nil
	}
	return errors.Join(d.fanout.Close(), d.journal.Close())
}
