package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thednalab/catalog-sync/internal/model"
)

// Client talks to the headless content source's REST API. Drafts are
// listed page by page in ascending update order; publish state is a
// single timestamp field on the record.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
}

func NewClient(baseURL, token string, pageSize int, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
	}
}

type pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type listResponse struct {
	Data []model.Draft `json:"data"`
	Meta struct {
		Pagination pagination `json:"pagination"`
	} `json:"meta"`
}

type singleResponse struct {
	Data model.Draft `json:"data"`
}

// Drafts returns a lazy cursor over every draft. Nothing is fetched
// until the first Next call, and each page is requested only when the
// previous one is drained, so a caller may stop early at no cost.
func (c *Client) Drafts() *DraftCursor {
	return &DraftCursor{client: c}
}

// DraftCursor iterates drafts across source pages. Usage mirrors a
// database cursor: Next, Draft, then Err after the loop.
type DraftCursor struct {
	client    *Client
	page      int
	pageCount int
	buf       []model.Draft
	pos       int
	current   model.Draft
	err       error
	done      bool
}

func (cur *DraftCursor) Next(ctx context.Context) bool {
	if cur.err != nil || cur.done {
		return false
	}

	if cur.pos >= len(cur.buf) {
		if cur.page > 0 && cur.page >= cur.pageCount {
			cur.done = true
			return false
		}

		resp, err := cur.client.fetchPage(ctx, cur.page+1)
		if err != nil {
			cur.err = err
			return false
		}

		cur.page = resp.Meta.Pagination.Page
		cur.pageCount = resp.Meta.Pagination.PageCount
		cur.buf = resp.Data
		cur.pos = 0

		if len(cur.buf) == 0 {
			cur.done = true
			return false
		}
	}

	cur.current = cur.buf[cur.pos]
	cur.pos++
	return true
}

func (cur *DraftCursor) Draft() model.Draft { return cur.current }

func (cur *DraftCursor) Err() error { return cur.err }

func (c *Client) fetchPage(ctx context.Context, page int) (*listResponse, error) {
	const op = "source.client.fetchPage"

	q := url.Values{}
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(c.pageSize))
	q.Set("sort", "updatedAt:asc")
	q.Set("populate", "deep")

	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/products?"+q.Encode(), nil, &out); err != nil {
		return nil, fmt.Errorf("%s page %d: %w", op, page, err)
	}

	return &out, nil
}

// DraftByID fetches a single draft with its relations populated.
func (c *Client) DraftByID(ctx context.Context, draftID int64) (model.Draft, error) {
	const op = "source.client.DraftByID"

	path := fmt.Sprintf("/api/products/%d?populate=deep", draftID)

	var out singleResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("%s: %w", op, model.ErrDraftNotFound)
	}

	return out.Data, nil
}

// SetPublishedAt writes the publish timestamp on the source record.
// A nil value unpublishes.
func (c *Client) SetPublishedAt(ctx context.Context, draftID int64, publishedAt *time.Time) error {
	const op = "source.client.SetPublishedAt"

	var ts any
	if publishedAt != nil {
		ts = publishedAt.UTC().Format(time.RFC3339)
	}
	body := map[string]any{
		"data": map[string]any{"publishedAt": ts},
	}

	path := fmt.Sprintf("/api/products/%d", draftID)
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrDraftNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: status %d", model.ErrSourceUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %w", model.ErrSourceUnavailable, err)
	}

	return nil
}
