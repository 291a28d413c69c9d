package marketplace

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	userAgent = "spigell/gig-matcher"
	// Max value for roster listing per page.
	perPage = "100"

	workersPath  = "/workers"
	profilesPath = "/profiles"

	defaultCacheTTL = 10 * time.Minute
)

// ErrNotFound is returned when the backend has no record for the requested id.
var ErrNotFound = errors.New("not found")

// Cache stores decoded backend responses between runs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Client talks to the marketplace REST backend which serves the worker roster
// and profile details.
type Client struct {
	token      string
	logger     *zap.Logger
	cache      Cache
	cacheTTL   time.Duration
	refresh    bool
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(apiURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		token:  token,
		APIURL: strings.TrimRight(apiURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// WithCache enables response caching. A non-positive ttl falls back to the default.
func (c *Client) WithCache(cache Cache, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	c.cache = cache
	c.cacheTTL = ttl
	return c
}

// WithRefresh makes the client drop cached responses instead of reading them.
// Fresh responses are cached again.
func (c *Client) WithRefresh() *Client {
	c.refresh = true
	return c
}

// GetWorkers returns the whole roster, following pagination.
func (c *Client) GetWorkers(ctx context.Context, q url.Values) (*Roster, error) {
	if q == nil {
		q = url.Values{}
	}
	// Set per_page max as possible. It should be faster.
	if q.Get("per_page") == "" {
		q.Set("per_page", perPage)
	}

	key := rosterKey(q)
	var cached Roster
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	items, err := c.GetItems(ctx, c.APIURL+workersPath, q)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}

	var workers []*Worker
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &workers,
		TagName: "json",
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode workers: %w", err)
	}

	roster := &Roster{Items: workers}
	c.toCache(ctx, key, roster)

	return roster, nil
}

// GetProfile returns the profile detail for a single worker.
func (c *Client) GetProfile(ctx context.Context, id string) (*Worker, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("worker id is required")
	}

	key := profileKey(id)
	var cached Worker
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var worker Worker
	if err := c.getJSON(ctx, fmt.Sprintf("%s%s/%s", c.APIURL, profilesPath, url.PathEscape(id)), nil, &worker); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", id, err)
	}

	c.toCache(ctx, key, &worker)

	return &worker, nil
}

func (c *Client) fromCache(ctx context.Context, key string, dest any) bool {
	if c.cache == nil {
		return false
	}
	if c.refresh {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.logger.Warn("dropping cached response", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := c.cache.Get(ctx, key, dest); err != nil {
		c.logger.Debug("cache miss", zap.String("key", key), zap.Error(err))
		return false
	}
	c.logger.Debug("cache hit", zap.String("key", key))
	return true
}

func (c *Client) toCache(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	// A failed write only costs a refetch next time.
	if err := c.cache.Set(ctx, key, value, c.cacheTTL); err != nil {
		c.logger.Warn("caching backend response", zap.String("key", key), zap.Error(err))
	}
}

func profileKey(id string) string {
	return "profile:" + id
}

func rosterKey(q url.Values) string {
	return "roster:" + q.Encode()
}
