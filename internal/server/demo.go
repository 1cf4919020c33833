package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopsight/shopsight/apimodels"
)

// Canned answers for the demo route, keyed by question category. They let
// integrators exercise the API shape without Shopify credentials.
var demoResponses = map[string]apimodels.DemoAnalyzeResponse{
	"top_selling": {
		Answer: `Here are your top 5 selling products from the last week:

1. **Blue T-Shirt** - 150 units sold ($2,250 revenue)
2. **Red Hoodie** - 120 units sold ($3,600 revenue)
3. **Black Jeans** - 95 units sold ($4,750 revenue)
4. **White Sneakers** - 80 units sold ($6,400 revenue)
5. **Gray Cap** - 65 units sold ($975 revenue)

Your best performer by units is the Blue T-Shirt, while White Sneakers generated the highest revenue due to its higher price point.`,
		Confidence: "high",
		QueryUsed: `FROM sales
SHOW product_title, SUM(ordered_item_quantity) AS units_sold, SUM(net_sales) AS revenue
GROUP BY product_title
SINCE -7d
ORDER BY units_sold DESC
LIMIT 5`,
		DataSource: "sales",
		Intent: &apimodels.Intent{
			PrimaryGoal: "sales_analysis",
			DataSources: []apimodels.DataSource{apimodels.DataSourceOrders, apimodels.DataSourceProducts},
			TimeWindow:  "last 7 days",
			Metrics:     []string{"units_sold", "revenue"},
		},
	},
	"inventory_reorder": {
		Answer: `Based on your sales data from the last 30 days, here's my inventory reorder recommendation:

**Daily Sales Average:** 10 units/day
**Current Stock:** 45 units
**Days Until Stockout:** ~4.5 days

**Recommendation:** You should reorder at least **70 units** to cover the next week and avoid stockouts.

For a safer buffer (2 weeks supply), consider ordering **140-150 units**.

Note: This projection assumes consistent demand. Consider ordering more if you have promotions planned.`,
		Confidence: "medium",
		QueryUsed: `FROM sales
SHOW product_title, SUM(ordered_item_quantity) AS total_sold,
     SUM(ordered_item_quantity)/30 AS daily_average
GROUP BY product_title
SINCE -30d`,
		DataSource: "sales",
		Intent: &apimodels.Intent{
			PrimaryGoal: "inventory_forecast",
			DataSources: []apimodels.DataSource{apimodels.DataSourceInventory, apimodels.DataSourceOrders},
			TimeWindow:  "last 30 days",
			Metrics:     []string{"units_sold", "daily_average", "current_stock"},
		},
	},
	"low_stock": {
		Answer: `Based on current inventory levels and sales velocity, these products are at risk of stockout within 7 days:

**Critical (< 3 days):**
1. Blue T-Shirt (Size M) - 8 units left, selling 3/day
2. Red Hoodie (Size L) - 5 units left, selling 2/day

**Warning (3-7 days):**
3. Black Jeans (32W) - 15 units left, selling 3/day
4. White Sneakers (Size 10) - 20 units left, selling 4/day
5. Gray Cap - 12 units left, selling 2/day

**Action Required:** Place reorders immediately for the critical items to avoid lost sales.`,
		Confidence: "high",
		QueryUsed: `FROM products
SHOW product_title, variant_sku, inventory_quantity
WHERE inventory_quantity <= 20
ORDER BY inventory_quantity ASC`,
		DataSource: "inventory",
		Intent: &apimodels.Intent{
			PrimaryGoal: "inventory_forecast",
			DataSources: []apimodels.DataSource{apimodels.DataSourceInventory, apimodels.DataSourceOrders},
			TimeWindow:  "next 7 days",
			Metrics:     []string{"current_stock", "sales_velocity"},
		},
	},
	"repeat_customers": {
		Answer: `In the last 90 days, you had **45 customers** who placed repeat orders.

**Key Insights:**
- Repeat customers represent **23%** of your total customer base
- They contributed to **41%** of your total revenue ($12,450)
- Average orders per repeat customer: **2.8 orders**
- Average spend per repeat customer: **$276.67**

**Top Repeat Customers:**
1. John Smith - 5 orders ($890 total)
2. Sarah Johnson - 4 orders ($650 total)
3. Mike Williams - 4 orders ($520 total)

**Recommendation:** Consider implementing a loyalty program to encourage more repeat purchases from your engaged customer base.`,
		Confidence: "high",
		QueryUsed: `FROM customers
SHOW customer_email, COUNT(order_id) AS order_count, SUM(total_price) AS total_spent
GROUP BY customer_email
HAVING order_count > 1
SINCE -90d
ORDER BY order_count DESC`,
		DataSource: "customers",
		Intent: &apimodels.Intent{
			PrimaryGoal: "customer_analysis",
			DataSources: []apimodels.DataSource{apimodels.DataSourceCustomers, apimodels.DataSourceOrders},
			TimeWindow:  "last 90 days",
			Metrics:     []string{"repeat_orders", "customer_count"},
		},
	},
	"revenue": {
		Answer: `Here's your revenue summary for this month:

**Total Revenue:** $28,450
**Total Orders:** 342
**Average Order Value:** $83.19

**Revenue Breakdown:**
- Week 1: $6,200 (78 orders)
- Week 2: $7,800 (92 orders)
- Week 3: $8,100 (98 orders)
- Week 4 (so far): $6,350 (74 orders)

**Trend:** Your revenue is showing steady growth week-over-week, with a 12% increase from Week 1 to Week 3. You're on track to exceed last month's revenue by approximately 8%.`,
		Confidence: "high",
		QueryUsed: `FROM sales
SHOW week, SUM(net_sales) AS weekly_revenue, COUNT(order_id) AS orders
GROUP BY week
SINCE -30d
ORDER BY week ASC`,
		DataSource: "sales",
		Intent: &apimodels.Intent{
			PrimaryGoal: "sales_analysis",
			DataSources: []apimodels.DataSource{apimodels.DataSourceOrders},
			TimeWindow:  "this month",
			Metrics:     []string{"revenue", "order_count", "aov"},
		},
	},
}

// classifyQuestion picks a demo category by keyword. Rules are ordered;
// the first match wins and unmatched questions fall back to top_selling.
func classifyQuestion(question string) string {
	lower := strings.ToLower(question)

	switch {
	case containsAny(lower, "top", "best", "selling", "popular"):
		return "top_selling"
	case containsAny(lower, "reorder", "need", "order", "forecast") && strings.Contains(lower, "inventory"):
		return "inventory_reorder"
	case containsAny(lower, "stock", "out of stock", "low stock", "stockout"):
		return "low_stock"
	case containsAny(lower, "repeat", "loyal", "returning") && strings.Contains(lower, "customer"):
		return "repeat_customers"
	case containsAny(lower, "revenue", "sales", "money", "earnings", "total"):
		return "revenue"
	case strings.Contains(lower, "how much inventory") || strings.Contains(lower, "reorder"):
		return "inventory_reorder"
	}
	return "top_selling"
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (s *Server) handleDemoAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.DemoAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	slog.Info("demo analyze request", "question", clip(req.Question, 100))

	category := classifyQuestion(req.Question)
	writeJSON(w, http.StatusOK, demoResponses[category])
}

func (s *Server) handleSampleQuestions(w http.ResponseWriter, r *http.Request) {
	type sample struct {
		Question           string `json:"question"`
		Type               string `json:"type"`
		ExpectedDataSource string `json:"expected_data_source"`
	}
	writeJSON(w, http.StatusOK, map[string][]sample{
		"sample_questions": {
			{
				Question:           "What were my top 5 selling products last week?",
				Type:               "top_selling",
				ExpectedDataSource: "sales",
			},
			{
				Question:           "How much inventory should I reorder based on last 30 days sales?",
				Type:               "inventory_reorder",
				ExpectedDataSource: "sales",
			},
			{
				Question:           "Which products are likely to go out of stock in 7 days?",
				Type:               "low_stock",
				ExpectedDataSource: "inventory",
			},
			{
				Question:           "Which customers placed repeat orders in the last 90 days?",
				Type:               "repeat_customers",
				ExpectedDataSource: "customers",
			},
			{
				Question:           "What is my total revenue for this month?",
				Type:               "revenue",
				ExpectedDataSource: "sales",
			},
		},
	})
}
