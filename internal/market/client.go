// Package market implements the REST client for the Tonnel gifts marketplace.
// It covers the two queries the pipeline needs: a newest-first page of active
// listings and a lowest-price floor lookup scoped by name and optionally by
// model.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cienerpi/giftcheck/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Client is the Tonnel marketplace API client.
type Client struct {
	baseURL string
	auth    string
	http    *resty.Client
}

// NewClient creates a Client for the given API root. marketURL is the public
// storefront used as the Referer; auth is the opaque user_auth credential the
// query endpoint requires.
func NewClient(baseURL, marketURL, auth string) *Client {
	httpClient := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetHeaders(map[string]string{
			"Accept":     "application/json, text/plain, */*",
			"Origin":     baseURL,
			"Referer":    marketURL + "/",
			"User-Agent": userAgent,
		})

	return &Client{
		baseURL: baseURL,
		auth:    auth,
		http:    httpClient,
	}
}

// Warmup primes the upstream session with a plain GET against the API root.
// Failures are reported but non-fatal; the query endpoint may still work.
func (c *Client) Warmup(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(c.baseURL)
	if err != nil {
		return fmt.Errorf("market: warmup: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("market: warmup: unexpected status %d", resp.StatusCode())
	}
	return nil
}

// pageRequest mirrors the pageGifts POST body. Sort and Filter are MongoDB
// style documents serialized as JSON strings, matching what the storefront
// itself sends.
type pageRequest struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Sort       string `json:"sort"`
	Filter     string `json:"filter"`
	PriceRange any    `json:"price_range"`
	Ref        int    `json:"ref"`
	UserAuth   string `json:"user_auth"`
}

// activeFilter returns the filter selecting listings that are still for sale:
// priced, not refunded, not bought, and exported to the marketplace. name and
// model, when non-empty, narrow the match.
func activeFilter(name, model string) string {
	f := map[string]any{
		"price":     map[string]any{"$exists": true},
		"refunded":  map[string]any{"$ne": true},
		"buyer":     map[string]any{"$exists": false},
		"export_at": map[string]any{"$exists": true},
	}
	if name != "" {
		f["gift_name"] = name
	}
	if model != "" {
		f["model"] = model
	}
	out, _ := json.Marshal(f)
	return string(out)
}

// ListNew returns one page of active listings sorted newest first. A response
// that is neither a bare array nor a recognized envelope yields an empty page.
func (c *Client) ListNew(ctx context.Context, page, limit int) ([]domain.Listing, error) {
	sort, _ := json.Marshal(map[string]int{"message_post_time": -1, "gift_id": -1})

	records, err := c.queryPage(ctx, pageRequest{
		Page:     page,
		Limit:    limit,
		Sort:     string(sort),
		Filter:   activeFilter("", ""),
		UserAuth: c.auth,
	})
	if err != nil {
		return nil, fmt.Errorf("market: list new: %w", err)
	}

	listings := make([]domain.Listing, 0, len(records))
	for _, r := range records {
		listings = append(listings, r.toListing())
	}
	return listings, nil
}

// FloorPrice returns the minimum price among active listings matching name
// and, when model is non-empty, that model. The quote is unusable when nothing
// matches or the cheapest match has a zero price.
func (c *Client) FloorPrice(ctx context.Context, name, model string) (domain.FloorQuote, error) {
	sort, _ := json.Marshal(map[string]int{"price": 1})

	records, err := c.queryPage(ctx, pageRequest{
		Page:     1,
		Limit:    1,
		Sort:     string(sort),
		Filter:   activeFilter(name, model),
		UserAuth: c.auth,
	})
	if err != nil {
		return domain.FloorQuote{}, fmt.Errorf("market: floor price for %q: %w", name, err)
	}
	if len(records) == 0 {
		return domain.FloorQuote{}, nil
	}
	return domain.Floor(records[0].Price), nil
}

func (c *Client) queryPage(ctx context.Context, req pageRequest) ([]giftRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL + "/api/pageGifts")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnauthorized, resp.StatusCode())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return decodePage(resp.Body()), nil
}
