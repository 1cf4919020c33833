package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/llm"
)

// ShopifyQL schema reference embedded in generation prompts.
const shopifyQLSchema = `
ShopifyQL Schema Reference:

## Available Tables:
1. sales - Sales data with revenue, discounts, taxes
2. orders - Order information
3. products - Product catalog
4. customers - Customer data

## Common Fields:

### sales table:
- day, week, month, year (time dimensions)
- product_title, product_id, product_type, product_vendor
- variant_title, variant_sku
- gross_sales, discounts, returns, net_sales, taxes, total_sales
- ordered_item_quantity
- billing_country, billing_region, billing_city

### orders table:
- order_id, order_name
- created_at, processed_at
- total_price, subtotal_price
- financial_status, fulfillment_status

### products table:
- product_id, product_title, product_type, product_vendor
- variant_id, variant_title, variant_sku
- inventory_quantity

### customers table:
- customer_id, customer_email
- orders_count, total_spent
- created_at

## Syntax:
FROM <table>
SHOW <fields>
GROUP BY <dimensions>
WHERE <conditions>
SINCE <date> UNTIL <date>
ORDER BY <field> DESC/ASC
LIMIT <number>

## Date Functions:
- SINCE -30d (last 30 days)
- SINCE -7d (last 7 days)
- SINCE -90d (last 90 days)
- SINCE 2024-01-01 (specific date)

## Aggregation Functions:
- SUM(), COUNT(), AVG(), MIN(), MAX()

## Examples:
1. Top selling products last week:
   FROM sales
   SHOW product_title, SUM(ordered_item_quantity) AS units_sold, SUM(net_sales) AS revenue
   GROUP BY product_title
   SINCE -7d
   ORDER BY units_sold DESC
   LIMIT 5

2. Daily sales for last 30 days:
   FROM sales
   SHOW day, SUM(net_sales) AS daily_revenue
   GROUP BY day
   SINCE -30d
   ORDER BY day ASC

3. Inventory levels:
   FROM products
   SHOW product_title, variant_sku, inventory_quantity
   ORDER BY inventory_quantity ASC
   LIMIT 20
`

// Goals that want a single entity's full record. The aggregate query
// language is unsuited to those, so they route straight to the GraphQL
// fallback.
var graphqlGoals = map[string]bool{
	"customer_details": true,
	"order_details":    true,
	"product_details":  true,
}

var queryDescriptions = map[string]string{
	"inventory_forecast":  "Analyzing sales velocity and current inventory to project future needs",
	"sales_analysis":      "Aggregating sales data to identify top performers and trends",
	"customer_analysis":   "Analyzing customer purchase patterns and loyalty metrics",
	"product_performance": "Evaluating product performance metrics",
	"general_analysis":    "Retrieving relevant store analytics",
}

// QueryGenerator renders ShopifyQL from an intent, validates it, and makes
// at most one repair attempt.
type QueryGenerator struct {
	llmProvider llm.Provider
}

func NewQueryGenerator(provider llm.Provider) *QueryGenerator {
	return &QueryGenerator{llmProvider: provider}
}

func (g *QueryGenerator) Generate(ctx context.Context, intent apimodels.Intent) (*GeneratedQuery, error) {
	if graphqlGoals[intent.PrimaryGoal] {
		return &GeneratedQuery{
			Type:        QueryTypeGraphQL,
			Valid:       true,
			Description: describeQuery(intent),
		}, nil
	}

	query, err := g.generateWithLLM(ctx, intent)
	if err != nil {
		return nil, err
	}

	validationErrors := ValidateQuery(query)
	if len(validationErrors) > 0 {
		// One repair attempt; the result is returned even if still invalid
		// and execution-time rejection is the backstop.
		query, err = g.fixQuery(ctx, query, validationErrors)
		if err != nil {
			return nil, err
		}
		validationErrors = ValidateQuery(query)
	}

	return &GeneratedQuery{
		Query:            query,
		Type:             QueryTypeShopifyQL,
		Valid:            len(validationErrors) == 0,
		ValidationErrors: validationErrors,
		Description:      describeQuery(intent),
	}, nil
}

func (g *QueryGenerator) generateWithLLM(ctx context.Context, intent apimodels.Intent) (string, error) {
	prompt := fmt.Sprintf(`Generate a ShopifyQL query based on this intent.

%s

User Intent:
- Primary intent: %s
- Data sources needed: %v
- Time period: %s
- Metrics to calculate: %v
- Filters: %v
- Aggregation type: %s

Generate ONLY the ShopifyQL query, no explanation. The query must be syntactically correct.
If asking about inventory projections or reordering, calculate daily average sales and project forward.
`, shopifyQLSchema, intent.PrimaryGoal, intent.DataSources, orDefault(intent.TimeWindow, "last 30 days"),
		intent.Metrics, intent.Filters, intent.Aggregation)

	resp, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		return "", err
	}
	return llm.StripFences(resp.Content), nil
}

func (g *QueryGenerator) fixQuery(ctx context.Context, query string, validationErrors []string) (string, error) {
	prompt := fmt.Sprintf(`Fix this ShopifyQL query. It has the following errors: %v

Original query:
%s

%s

Return ONLY the corrected query, no explanation.`, validationErrors, query, shopifyQLSchema)

	resp, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	return llm.StripFences(resp.Content), nil
}

var validTables = []string{"SALES", "ORDERS", "PRODUCTS", "CUSTOMERS"}

// ValidateQuery runs heuristic syntax checks and returns every violation, not
// just the first. It is a sanity check, not a grammar-correct parser;
// parentheses inside string literals will fool the balance check.
func ValidateQuery(query string) []string {
	var errs []string

	if strings.TrimSpace(query) == "" {
		return []string{"Query is empty"}
	}

	upper := strings.ToUpper(query)

	if !strings.Contains(upper, "FROM") {
		errs = append(errs, "Missing FROM clause")
	}

	hasTable := false
	for _, table := range validTables {
		if strings.Contains(upper, table) {
			hasTable = true
			break
		}
	}
	if !hasTable {
		errs = append(errs, "Invalid or missing table name")
	}

	if !strings.Contains(upper, "SHOW") {
		errs = append(errs, "Missing SHOW clause")
	}

	if strings.Count(upper, "(") != strings.Count(upper, ")") {
		errs = append(errs, "Unmatched parentheses")
	}

	return errs
}

func describeQuery(intent apimodels.Intent) string {
	if desc, ok := queryDescriptions[intent.PrimaryGoal]; ok {
		return desc
	}
	return "Analyzing store data"
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
