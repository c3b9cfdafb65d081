package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
	TypeHTTP      = "http"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
)

// configFile is the top level of a publishers file.
type configFile struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig is one sink entry of a publishers file. Enabled defaults to true.
type PublisherConfig struct {
	ID        string                    `json:"id" yaml:"id"`
	Type      string                    `json:"type" yaml:"type"`
	Enabled   *bool                     `json:"enabled" yaml:"enabled"`
	SQS       *SQSPublisherConfig       `json:"sqs" yaml:"sqs"`
	SNS       *SNSPublisherConfig       `json:"sns" yaml:"sns"`
	GCPPubSub *GCPPubSubPublisherConfig `json:"gcp_pubsub" yaml:"gcp_pubsub"`
	HTTP      *HTTPPublisherConfig      `json:"http" yaml:"http"`
}

// AWSCredentials optionally pins static credentials instead of the default chain.
type AWSCredentials struct {
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
	SessionToken    string `json:"session_token" yaml:"session_token"`
}

// SQSPublisherConfig holds AWS SQS specific settings.
type SQSPublisherConfig struct {
	QueueURL    string          `json:"uri" yaml:"uri"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// SNSPublisherConfig holds AWS SNS specific settings.
type SNSPublisherConfig struct {
	TopicARN    string          `json:"topic_arn" yaml:"topic_arn"`
	Region      string          `json:"region" yaml:"region"`
	Credentials *AWSCredentials `json:"credentials" yaml:"credentials"`
}

// GCPPubSubPublisherConfig holds Google Cloud Pub/Sub settings.
type GCPPubSubPublisherConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
}

// HTTPPublisherConfig holds generic HTTP sink settings.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoadConfigs reads a YAML or JSON publishers file and returns its enabled
// entries in file order. Disabled entries are validated too.
func LoadConfigs(path string) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file configFile
	if err := decodeConfigFile(raw, filepath.Ext(path), &file); err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	seen := make(map[string]struct{}, len(file.Publishers))
	var enabled []PublisherConfig
	for i, cfg := range file.Publishers {
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		if cfg.Enabled == nil || *cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

// decodeConfigFile reads anything but .json as YAML, which also accepts JSON.
func decodeConfigFile(raw []byte, ext string, out *configFile) error {
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode json publishers: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode yaml publishers: %w", err)
	}
	return nil
}

func (cfg *PublisherConfig) normalize() {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if c := cfg.SQS; c != nil {
		trimAll(&c.QueueURL, &c.Region)
		c.Credentials = c.Credentials.normalized()
	}
	if c := cfg.SNS; c != nil {
		trimAll(&c.TopicARN, &c.Region)
		c.Credentials = c.Credentials.normalized()
	}
	if c := cfg.GCPPubSub; c != nil {
		trimAll(&c.ProjectID, &c.Topic, &c.CredentialsFile, &c.Endpoint)
	}
	if c := cfg.HTTP; c != nil {
		trimAll(&c.URL, &c.Method)
		c.Method = strings.ToUpper(c.Method)
		headers := make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			k, v = strings.TrimSpace(k), strings.TrimSpace(v)
			if k != "" && v != "" {
				headers[k] = v
			}
		}
		c.Headers = headers
	}
}

// normalized drops a credentials block without a complete key pair.
func (c *AWSCredentials) normalized() *AWSCredentials {
	if c == nil {
		return nil
	}
	out := *c
	trimAll(&out.AccessKeyID, &out.SecretAccessKey, &out.SessionToken)
	if out.AccessKeyID == "" || out.SecretAccessKey == "" {
		return nil
	}
	return &out
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

func (cfg PublisherConfig) validate() error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeSQS:
		if cfg.SQS == nil {
			return cfg.missing("sqs")
		}
		return cfg.require("sqs.uri", cfg.SQS.QueueURL, "sqs.region", cfg.SQS.Region)
	case TypeSNS:
		if cfg.SNS == nil {
			return cfg.missing("sns")
		}
		return cfg.require("sns.topic_arn", cfg.SNS.TopicARN, "sns.region", cfg.SNS.Region)
	case TypeGCPPubSub:
		if cfg.GCPPubSub == nil {
			return cfg.missing("gcp_pubsub")
		}
		return cfg.require("gcp_pubsub.project_id", cfg.GCPPubSub.ProjectID, "gcp_pubsub.topic", cfg.GCPPubSub.Topic)
	case TypeHTTP:
		if cfg.HTTP == nil {
			return cfg.missing("http")
		}
		return cfg.require("http.url", cfg.HTTP.URL)
	}
	// Other types are checked when the builder registry resolves them.
	return nil
}

func (cfg PublisherConfig) missing(block string) error {
	return fmt.Errorf("%s config required for publisher %q", block, cfg.ID)
}

// require takes name/value pairs and reports the first empty value.
func (cfg PublisherConfig) require(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%s is required for publisher %q", pairs[i], cfg.ID)
		}
	}
	return nil
}
