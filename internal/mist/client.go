package mist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/sirupsen/logrus"

	"mistwan/internal/config"
)

const defaultTimeout = 30 * time.Second

// UpstreamError reports a failed call to the Mist API, either a transport
// failure or a non-success HTTP status.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("mist %s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Client talks to the Mist cloud API for one organization. A Client is
// passed explicitly to everything that needs it; there is no package-level
// session state.
type Client struct {
	baseURL string
	token   string
	orgID   string
	http    *http.Client
}

// New builds a client against the configured Mist host.
func New(cfg config.Config) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, errors.New("mist: api token is required")
	}
	return NewWithBaseURL("https://"+cfg.Host, cfg.APIToken, cfg.OrgID, nil), nil
}

// NewWithBaseURL builds a client against an explicit base URL. Tests point
// this at a local fake of the vendor API.
func NewWithBaseURL(baseURL, token, orgID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		orgID:   orgID,
		http:    httpClient,
	}
}

// OrgID returns the organization all queries are scoped to.
func (c *Client) OrgID() string { return c.orgID }

// get performs an authenticated GET and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	logrus.Debugf("Making request to: %s%s", c.baseURL, path)

	b := requests.URL(c.baseURL).
		Path(path).
		Header("Authorization", "Token "+c.token).
		Client(c.http).
		ToJSON(out)
	if params != nil {
		b = b.Params(params)
	}
	return b.Fetch(ctx)
}

type privilege struct {
	OrgID   string `json:"org_id"`
	OrgName string `json:"org_name"`
	Role    string `json:"role"`
}

type selfResponse struct {
	Privileges []privilege `json:"privileges"`
}

// AutoDetectOrg resolves the organization id from the caller's access
// privileges, taking the first organization found.
func (c *Client) AutoDetectOrg(ctx context.Context) error {
	var self selfResponse
	if err := c.get(ctx, "/api/v1/self", nil, &self); err != nil {
		return &UpstreamError{Op: "get self", Err: err}
	}
	for _, priv := range self.Privileges {
		if priv.OrgID != "" {
			c.orgID = priv.OrgID
			return nil
		}
	}
	return errors.New("mist: no organizations found in user privileges")
}
