package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/simshi01/thansgiving-day/app/models"
)

// Client reads the wall's HTTP API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: httpClient}
}

// Messages lists the newest active messages.
func (c *Client) Messages(ctx context.Context, limit int) ([]models.JsonMessage, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp models.ListMessagesResponse
	if err := c.get(ctx, "/messages", q, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) Schedule(ctx context.Context) (models.ScheduleResponse, error) {
	var resp models.ScheduleResponse
	err := c.get(ctx, "/schedule", nil, &resp)
	return resp, err
}

// ServerTime asks the server for its clock.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	var resp models.TimeResponse
	if err := c.get(ctx, "/time", nil, &resp); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(resp.ServerTime), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("viewer: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("viewer: GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var apiErr models.ErrorResponse
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Error == "" {
			apiErr.Error = http.StatusText(res.StatusCode)
		}
		return fmt.Errorf("viewer: GET %s: %d %s", path, res.StatusCode, apiErr.Error)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("viewer: decode %s: %w", path, err)
	}
	return nil
}
