package llm

import (
	"context"
	"strings"
)

// Offline is a deterministic provider for running the pipeline without API
// keys. It pattern-matches on prompt keywords, so the same question always
// produces the same completion.
type Offline struct{}

func NewOffline() *Offline {
	return &Offline{}
}

func (m *Offline) Generate(ctx context.Context, prompt string, opts ...Option) (*Response, error) {
	options := &Options{Shape: ShapeText}
	for _, opt := range opts {
		opt(options)
	}

	lower := strings.ToLower(prompt)

	if options.Shape == ShapeJSON {
		return &Response{Content: m.jsonCompletion(lower)}, nil
	}
	return &Response{Content: m.textCompletion(lower)}, nil
}

func (m *Offline) jsonCompletion(lower string) string {
	if !strings.Contains(lower, "analyze this question") {
		return `{"status": "ok"}`
	}

	// Match against the question line only; the surrounding prompt
	// instructions mention every data source by name.
	lower = questionLine(lower)

	switch {
	case strings.Contains(lower, "inventory") || strings.Contains(lower, "stock") || strings.Contains(lower, "reorder"):
		return `{
	"primary_intent": "inventory_forecast",
	"data_sources": ["inventory", "orders"],
	"time_period": "last 30 days",
	"metrics": ["units_sold", "current_stock", "daily_average"],
	"filters": {},
	"aggregation": "sum"
}`
	case strings.Contains(lower, "top") && (strings.Contains(lower, "selling") || strings.Contains(lower, "product")):
		return `{
	"primary_intent": "sales_analysis",
	"data_sources": ["orders", "products"],
	"time_period": "last 7 days",
	"metrics": ["units_sold", "revenue"],
	"filters": {},
	"aggregation": "sum"
}`
	case strings.Contains(lower, "customer") || strings.Contains(lower, "repeat"):
		return `{
	"primary_intent": "customer_analysis",
	"data_sources": ["customers", "orders"],
	"time_period": "last 90 days",
	"metrics": ["order_count", "customer_count"],
	"filters": {},
	"aggregation": "count"
}`
	default:
		return `{
	"primary_intent": "general_analysis",
	"data_sources": ["orders"],
	"time_period": "last 30 days",
	"metrics": ["revenue"],
	"filters": {},
	"aggregation": "sum"
}`
	}
}

func questionLine(lower string) string {
	idx := strings.Index(lower, "question:")
	if idx < 0 {
		return lower
	}
	rest := lower[idx+len("question:"):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func (m *Offline) textCompletion(lower string) string {
	if strings.Contains(lower, "generate a shopifyql query") || strings.Contains(lower, "fix this shopifyql query") {
		return m.queryCompletion(lower)
	}

	switch {
	case strings.Contains(lower, "inventory") || strings.Contains(lower, "reorder"):
		return `Based on your sales data from the last 30 days, you're selling approximately 10 units per day on average.

To avoid stockouts for the next week, I recommend reordering at least 70 units (10 units/day x 7 days).

If you want to maintain a safety buffer, consider ordering 85-100 units to account for potential demand spikes.`

	case strings.Contains(lower, "top") && strings.Contains(lower, "selling"):
		return `Here are your top 5 selling products from the last week:

1. Product A - 150 units sold ($2,250 revenue)
2. Product B - 120 units sold ($1,800 revenue)
3. Product C - 95 units sold ($1,425 revenue)
4. Product D - 80 units sold ($1,200 revenue)
5. Product E - 65 units sold ($975 revenue)

Product A is clearly your best performer, generating 29% of the total revenue from these top products.`

	case strings.Contains(lower, "customer") || strings.Contains(lower, "repeat"):
		return `In the last 90 days, you had 45 customers who placed repeat orders.

These repeat customers represent 23% of your total customer base but contributed to 41% of your revenue. This shows strong customer loyalty among your returning shoppers.

Consider implementing a loyalty program to encourage even more repeat purchases.`

	default:
		return `Based on your store data, here's what I found:

Your store is performing steadily with consistent order volumes. Total revenue for the period analyzed shows healthy growth patterns.

For more specific insights, try asking about particular products, time periods, or customer segments.`
	}
}

func (m *Offline) queryCompletion(lower string) string {
	switch {
	case strings.Contains(lower, "inventory_forecast"):
		return `FROM sales
SHOW day, SUM(net_sales) AS daily_revenue, SUM(ordered_item_quantity) AS units
GROUP BY day
SINCE -30d
ORDER BY day ASC`
	case strings.Contains(lower, "customer_analysis"):
		return `FROM customers
SHOW customer_email, orders_count, total_spent
ORDER BY total_spent DESC
LIMIT 10`
	default:
		return `FROM sales
SHOW product_title, SUM(ordered_item_quantity) AS units_sold, SUM(net_sales) AS revenue
GROUP BY product_title
SINCE -7d
ORDER BY units_sold DESC
LIMIT 5`
	}
}
