package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Khan/genqlient/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/config"
)

// ErrUnauthorized is returned when Shopify rejects the access token.
var ErrUnauthorized = errors.New("shopify rejected the access token")

// Client talks to the Shopify Admin API for one store. ShopifyQL queries and
// the composed GraphQL fallback go through the GraphQL endpoint; resource
// fetches use the REST endpoint.
type Client struct {
	storeDomain string
	baseURL     string
	gql         graphql.Client
	httpClient  *http.Client
}

type ClientOption func(*Client)

// WithBaseURL overrides the Admin API base URL, primarily for tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func NewClient(storeDomain, accessToken string, cfg *config.ShopifyConfig, opts ...ClientOption) (*Client, error) {
	if storeDomain == "" {
		return nil, fmt.Errorf("store domain cannot be empty")
	}

	c := &Client{
		storeDomain: storeDomain,
		baseURL:     fmt.Sprintf("https://%s/admin/api/%s", storeDomain, cfg.APIVersion),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &authTransport{
			token: accessToken,
			base:  http.DefaultTransport,
		},
	}
	c.gql = graphql.NewClient(c.baseURL+"/graphql.json", c.httpClient)

	return c, nil
}

// NormalizeDomain appends the .myshopify.com suffix when the caller passed a
// bare store name.
func NormalizeDomain(domain string) string {
	if strings.HasSuffix(domain, ".myshopify.com") {
		return domain
	}
	return domain + ".myshopify.com"
}

type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Shopify-Access-Token", t.token)
	req.Header.Set("Content-Type", "application/json")
	return t.base.RoundTrip(req)
}

const shopifyQLDocument = `query shopifyQL($query: String!) {
	shopifyqlQuery(query: $query) {
		__typename
		... on TableResponse {
			tableData {
				columns {
					name
					dataType
				}
				rowData
			}
		}
		parseErrors {
			code
			message
		}
	}
}`

// ExecuteShopifyQL runs a ShopifyQL query through the Admin GraphQL endpoint
// and unwraps the tabular response. Upstream-reported problems (GraphQL
// errors, ShopifyQL parse errors) come back inside the payload under an
// "errors" key; only transport failures are returned as an error.
func (c *Client) ExecuteShopifyQL(ctx context.Context, query string) (map[string]interface{}, error) {
	slog.Info("executing ShopifyQL", "store", c.storeDomain, "query", truncate(query, 100))

	req := &graphql.Request{
		Query:     shopifyQLDocument,
		Variables: map[string]interface{}{"query": query},
	}

	data, err := c.makeRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if errs, ok := data["errors"]; ok {
		return map[string]interface{}{"errors": errs}, nil
	}

	inner, _ := data["shopifyqlQuery"].(map[string]interface{})
	if inner == nil {
		return nil, nil
	}
	if parseErrs, ok := inner["parseErrors"].([]interface{}); ok && len(parseErrs) > 0 {
		slog.Warn("ShopifyQL parse errors", "store", c.storeDomain, "errors", parseErrs)
		return map[string]interface{}{"errors": parseErrs}, nil
	}
	return inner, nil
}

// ExecuteFallback issues a composed GraphQL request built from the intent's
// data sources, each with a fixed field selection.
func (c *Client) ExecuteFallback(ctx context.Context, intent apimodels.Intent) (map[string]interface{}, error) {
	slog.Info("executing GraphQL fallback", "store", c.storeDomain, "intent", intent.PrimaryGoal)

	req := &graphql.Request{Query: buildFallbackQuery(intent)}

	data, err := c.makeRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) makeRequest(ctx context.Context, req *graphql.Request) (map[string]interface{}, error) {
	var data map[string]interface{}
	resp := &graphql.Response{Data: &data}

	if err := c.gql.MakeRequest(ctx, req, resp); err != nil {
		var gqlErrs gqlerror.List
		if errors.As(err, &gqlErrs) {
			msgs := make([]interface{}, 0, len(gqlErrs))
			for _, e := range gqlErrs {
				msgs = append(msgs, map[string]interface{}{"message": e.Message})
			}
			return map[string]interface{}{"errors": msgs}, nil
		}
		slog.Error("GraphQL request failed", "store", c.storeDomain, "error", err)
		return nil, err
	}
	return data, nil
}

// Shop holds basic store information.
type Shop struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	Domain   string `json:"domain"`
}

// ShopInfo fetches basic store information over REST. It doubles as a token
// check: a 401 from Shopify is reported as ErrUnauthorized.
func (c *Client) ShopInfo(ctx context.Context) (*Shop, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/shop.json", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to reach shopify: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var wrapper struct {
		Shop Shop `json:"shop"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("malformed shop response: %w", err)
	}
	return &wrapper.Shop, nil
}

// FetchResource issues a REST GET for the given endpoint (e.g.
// "products.json?limit=50"). Non-200 responses come back inside the payload
// under an "error" key.
func (c *Client) FetchResource(ctx context.Context, endpoint string) (map[string]interface{}, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		slog.Error("REST fetch failed", "store", c.storeDomain, "endpoint", endpoint, "status", resp.StatusCode)
		return map[string]interface{}{"error": string(body)}, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	return data, nil
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
