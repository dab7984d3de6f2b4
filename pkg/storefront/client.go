// Package storefront is an HTTP client for the catalog storefront endpoints.
// It implements the soft-navigation and cart collaborators used by product
// pages.
package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_catalog/internal/catalog"
	"github.com/GTDGit/gtd_catalog/internal/models"
	sf "github.com/GTDGit/gtd_catalog/internal/storefront"
)

const (
	HeaderSoftNavigation = "X-Soft-Navigation"
	HeaderPreserveScroll = "X-Preserve-Scroll"
	HeaderPreserveState  = "X-Preserve-State"
)

// Client talks to the storefront API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	debug      bool
}

// NewClient constructs a Client for baseURL. token is the customer's bearer
// token and may be empty for anonymous browsing.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		debug:      os.Getenv("ENV") == "development",
	}
}

// FetchPage loads a product page, passing options when not empty.
func (c *Client) FetchPage(ctx context.Context, pagePath string, options catalog.OptionIDs) (*PagePayload, error) {
	target, err := c.pageURL(pagePath, options)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out envelope[PagePayload]
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Data.Product == nil {
		return nil, fmt.Errorf("empty product payload")
	}
	return &out.Data, nil
}

// Visit performs a soft navigation: the page is requested again with the
// new options and the refreshed product is returned.
func (c *Client) Visit(ctx context.Context, pagePath string, options catalog.OptionIDs, opts sf.VisitOptions) (*models.Product, error) {
	target, err := c.pageURL(pagePath, options)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderSoftNavigation, "true")
	req.Header.Set(HeaderPreserveScroll, strconv.FormatBool(opts.PreserveScroll))
	req.Header.Set(HeaderPreserveState, strconv.FormatBool(opts.PreserveState))

	var out envelope[PagePayload]
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out.Data.Product == nil {
		return nil, fmt.Errorf("empty product payload")
	}
	return out.Data.Product, nil
}

// AddToCart posts a cart line to /cart/{productId}.
func (c *Client) AddToCart(ctx context.Context, r sf.CartRequest) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	target := fmt.Sprintf("%s/cart/%d", c.baseURL, r.ProductID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out envelope[json.RawMessage]
	return c.do(req, &out)
}

func (c *Client) pageURL(pagePath string, options catalog.OptionIDs) (string, error) {
	u, err := url.Parse(c.baseURL + catalog.PageURL(pagePath, options))
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}
	return u.String(), nil
}

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) do(req *http.Request, result any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("method", req.Method).
			Str("url", req.URL.String()).
			Int("status_code", resp.StatusCode).
			Msg("[STOREFRONT] Response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env envelope[json.RawMessage]
		if json.Unmarshal(body, &env) == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var (
	_ sf.Navigator  = (*Client)(nil)
	_ sf.CartClient = (*Client)(nil)
)
