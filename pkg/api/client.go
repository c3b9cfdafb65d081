package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/samvad-hq/samvad-directory-client/pkg/httpclient"
)

// Resource names a collection exposed by the directory server.
type Resource string

const (
	Vendors Resource = "vendors"
	Users   Resource = "users"
)

// Resources lists every collection the client knows about.
var Resources = []Resource{Vendors, Users}

// ParseResource resolves a collection name such as "vendors".
func ParseResource(name string) (Resource, error) {
	r := Resource(strings.ToLower(strings.TrimSpace(name)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown resource %q", name)
	}
	return r, nil
}

// Valid reports whether r is one of the known collections.
func (r Resource) Valid() bool {
	return r == Vendors || r == Users
}

// Record is an opaque server-defined object.
type Record map[string]any

// Client issues one HTTP request per operation against a directory server.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    httpclient.Client
	headers map[string]string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.headers["User-Agent"] = ua
		}
	}
}

// New builds a Client for the server at baseURL (for example http://localhost:4000).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		headers: map[string]string{"Accept": "application/json"},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c, nil
}

// BaseURL returns the server root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListVendors(ctx context.Context) (Body, error) { return c.List(ctx, Vendors) }
func (c *Client) GetVendor(ctx context.Context, id string) (Body, error) {
	return c.Get(ctx, Vendors, id)
}
func (c *Client) CreateVendor(ctx context.Context, params any) (Body, error) {
	return c.Create(ctx, Vendors, params)
}
func (c *Client) UpdateVendor(ctx context.Context, id string, params any) (Body, error) {
	return c.Update(ctx, Vendors, id, params)
}
func (c *Client) DeleteVendor(ctx context.Context, id string) (Body, error) {
	return c.Delete(ctx, Vendors, id)
}

func (c *Client) ListUsers(ctx context.Context) (Body, error) { return c.List(ctx, Users) }
func (c *Client) GetUser(ctx context.Context, id string) (Body, error) {
	return c.Get(ctx, Users, id)
}
func (c *Client) CreateUser(ctx context.Context, params any) (Body, error) {
	return c.Create(ctx, Users, params)
}
func (c *Client) UpdateUser(ctx context.Context, id string, params any) (Body, error) {
	return c.Update(ctx, Users, id, params)
}
func (c *Client) DeleteUser(ctx context.Context, id string) (Body, error) {
	return c.Delete(ctx, Users, id)
}

// List fetches every record in the collection (GET /api/{resource}).
func (c *Client) List(ctx context.Context, res Resource) (Body, error) {
	path, err := collectionPath(res)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// Get fetches a single record (GET /api/{resource}/{id}).
func (c *Client) Get(ctx context.Context, res Resource, id string) (Body, error) {
	path, err := itemPath(res, id)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, path, nil)
}

// Create posts params as the new record's JSON body (POST /api/{resource}).
func (c *Client) Create(ctx context.Context, res Resource, params any) (Body, error) {
	path, err := collectionPath(res)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, params)
}

// Update replaces the record with params (PUT /api/{resource}/{id}).
func (c *Client) Update(ctx context.Context, res Resource, id string, params any) (Body, error) {
	path, err := itemPath(res, id)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, params)
}

// Delete removes a record (DELETE /api/{resource}/{id}).
func (c *Client) Delete(ctx context.Context, res Resource, id string) (Body, error) {
	path, err := itemPath(res, id)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodDelete, path, nil)
}

func collectionPath(res Resource) (string, error) {
	if !res.Valid() {
		return "", &RequestError{Kind: KindInvalidArgument, Err: fmt.Errorf("unknown resource %q", res)}
	}
	return "/api/" + string(res), nil
}

func itemPath(res Resource, id string) (string, error) {
	base, err := collectionPath(res)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) == "" {
		return "", &RequestError{Kind: KindInvalidArgument, Err: fmt.Errorf("%s id is empty", res)}
	}
	return base + "/" + url.PathEscape(id), nil
}

// do sends one request and returns the 2xx reply as a Body.
func (c *Client) do(ctx context.Context, method, path string, params any) (Body, error) {
	target := c.baseURL + path
	fail := func(kind ErrorKind, err error) error {
		return &RequestError{Kind: kind, Method: method, URL: target, Err: err}
	}

	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}

	var body []byte
	if !isNilParams(params) {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fail(KindEncode, fmt.Errorf("marshal params: %w", err))
		}
		body = raw
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:  method,
		URL:     target,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, fail(KindTransport, err)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, &RequestError{
			Kind:       KindStatus,
			Method:     method,
			URL:        target,
			StatusCode: status,
			Snippet:    errorSnippet(resp.Body(), contentType(resp)),
		}
	}
	return newBody(resp.Body()), nil
}

// isNilParams treats nil maps, slices and pointers like a missing body.
func isNilParams(params any) bool {
	if params == nil {
		return true
	}
	v := reflect.ValueOf(params)
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func contentType(resp httpclient.Response) string {
	if h := resp.Header(); h != nil {
		return h.Get("Content-Type")
	}
	return ""
}
