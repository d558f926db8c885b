// Package api is the HTTP client for the Roam backend: the authenticated
// multipart photo upload and the AI itinerary generation call, plus the wire
// DTOs for both. Clients return typed results or one of the package's error
// kinds; they never retry and never default missing fields.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ekaravadi/roam/client/internal/config"
)

// Client talks to one Roam backend deployment. Construct it explicitly with
// New and pass it where it is needed — there is deliberately no package-level
// shared instance, so tests can substitute fakes freely.
type Client struct {
	baseURL       string
	apiPrefix     string
	itineraryPath string
	authToken     string
	authRequired  bool

	// Two http.Clients because the two endpoints have very different latency
	// envelopes: uploads finish in seconds, itinerary generation runs AI
	// vision over the whole batch and routinely takes minutes.
	httpClient      *http.Client
	itineraryClient *http.Client

	logger *slog.Logger
}

// Options configures a Client. Zero values fall back to the defaults in the
// config package; only BaseURL is required.
type Options struct {
	BaseURL          string
	APIPrefix        string
	AuthToken        string
	AuthRequired     bool
	RequestTimeout   time.Duration
	ItineraryTimeout time.Duration
	ItineraryPath    string
	Logger           *slog.Logger
}

// New constructs a Client from explicit options.
func New(opts Options) *Client {
	if opts.APIPrefix == "" {
		opts.APIPrefix = config.DefaultAPIPrefix
	}
	if opts.ItineraryPath == "" {
		opts.ItineraryPath = config.DefaultItineraryPath
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = config.DefaultRequestTimeout
	}
	if opts.ItineraryTimeout <= 0 {
		opts.ItineraryTimeout = config.DefaultItineraryTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		apiPrefix:       opts.APIPrefix,
		itineraryPath:   opts.ItineraryPath,
		authToken:       opts.AuthToken,
		authRequired:    opts.AuthRequired,
		httpClient:      &http.Client{Timeout: opts.RequestTimeout},
		itineraryClient: &http.Client{Timeout: opts.ItineraryTimeout},
		logger:          opts.Logger,
	}
}

// FromConfig constructs a Client from the loaded application config.
func FromConfig(cfg config.Config, logger *slog.Logger) *Client {
	return New(Options{
		BaseURL:          cfg.BaseURL,
		APIPrefix:        cfg.APIPrefix,
		AuthToken:        cfg.AuthToken,
		AuthRequired:     cfg.AuthRequired,
		RequestTimeout:   cfg.RequestTimeout,
		ItineraryTimeout: cfg.ItineraryTimeout,
		ItineraryPath:    cfg.ItineraryPath,
		Logger:           logger,
	})
}

// endpoint joins the base URL, API prefix, and path, validating the result.
func (c *Client) endpoint(path string) (string, error) {
	full := c.baseURL + c.apiPrefix + path
	u, err := url.Parse(full)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("api.Client: %w: %q", ErrInvalidURL, full)
	}
	return full, nil
}

// authorize adds the bearer token to req, or fails with ErrUnauthorized when
// a token is required but not configured. When auth is optional and no token
// is present the request simply goes out unauthenticated.
func (c *Client) authorize(req *http.Request) error {
	if c.authToken == "" {
		if c.authRequired {
			return fmt.Errorf("api.Client: %w: no auth token configured", ErrUnauthorized)
		}
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+c.authToken)
	return nil
}
