package marketplace

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

type ItemResponse struct {
	Items   []Item `json:"items"`
	Found   int    `json:"found"`
	Pages   int    `json:"pages"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

type Item any

// GetItems makes GET request to the backend and returns items from all pages.
func (c *Client) GetItems(ctx context.Context, endpoint string, q url.Values) ([]Item, error) {
	var items []Item

	for page := 0; ; page++ {
		response, err := c.getPage(ctx, endpoint, q, page)
		if err != nil {
			return nil, err
		}

		// A backend that ignores the page parameter answers with an old page again.
		if response.Page < page {
			c.logger.Warn("backend did not advance the page, stopping",
				zap.Int("requested", page),
				zap.Int("returned", response.Page),
			)
			break
		}
		if len(response.Items) == 0 {
			break
		}

		items = append(items, response.Items...)

		if page >= response.Pages-1 {
			break
		}

		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", page+1, response.Pages),
		))
	}

	return items, nil
}

func (c *Client) getPage(ctx context.Context, endpoint string, q url.Values, page int) (*ItemResponse, error) {
	query := url.Values{}
	for k, v := range q {
		query[k] = append([]string(nil), v...)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}

	var response ItemResponse
	if err := c.getJSON(ctx, endpoint, query, &response); err != nil {
		return nil, err
	}

	c.logger.Debug("got response from backend",
		zap.Int("page", response.Page),
		zap.Int("pages", response.Pages),
		zap.Int("max items per page", response.PerPage),
	)

	return &response, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if len(q) > 0 {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gz.Close()
		reader = gz
	}

	if target == nil {
		return nil
	}

	if err := json.NewDecoder(reader).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)
}
