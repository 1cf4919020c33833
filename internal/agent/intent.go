package agent

import (
	"context"
	"fmt"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/llm"
)

const intentPromptTemplate = `Analyze this question about a Shopify store and extract the intent.

Question: %s
%s
Identify:
1. Primary intent (e.g., inventory_forecast, sales_analysis, customer_analysis, product_performance)
2. Required data sources (orders, products, inventory, customers)
3. Time period (if mentioned)
4. Specific metrics needed
5. Any filters (product names, categories, etc.)
6. Type of aggregation (sum, average, count, etc.)

Respond in JSON format:
{
    "primary_intent": "string",
    "data_sources": ["orders", "products", "inventory", "customers"],
    "time_period": "last 30 days" or null,
    "metrics": ["revenue", "units_sold"],
    "filters": {"product_name": "value"},
    "aggregation": "sum" or null
}`

// extractIntent asks for a structured interpretation of the question. Missing
// or garbled fields fall back to defaults; only a failed provider call
// propagates.
func (a *Agent) extractIntent(ctx context.Context, question, contextText string) (apimodels.Intent, error) {
	contextLine := ""
	if contextText != "" {
		contextLine = "Additional context: " + contextText + "\n"
	}
	prompt := fmt.Sprintf(intentPromptTemplate, question, contextLine)

	resp, err := a.llmProvider.Generate(ctx, prompt, llm.WithShape(llm.ShapeJSON))
	if err != nil {
		return apimodels.Intent{}, err
	}

	return parseIntent(resp.Content), nil
}

func parseIntent(content string) apimodels.Intent {
	var raw struct {
		PrimaryIntent string                 `json:"primary_intent"`
		DataSources   []string               `json:"data_sources"`
		TimePeriod    string                 `json:"time_period"`
		Metrics       []string               `json:"metrics"`
		Filters       map[string]interface{} `json:"filters"`
		Aggregation   string                 `json:"aggregation"`
	}
	// Malformed JSON leaves fields zero-valued; defaults below cover that.
	_ = llm.DecodeJSON(content, &raw)

	intent := apimodels.Intent{
		PrimaryGoal: raw.PrimaryIntent,
		TimeWindow:  raw.TimePeriod,
		Metrics:     raw.Metrics,
		Aggregation: raw.Aggregation,
		Filters:     map[string]string{},
	}

	if intent.PrimaryGoal == "" {
		intent.PrimaryGoal = "general_analysis"
	}
	if intent.Metrics == nil {
		intent.Metrics = []string{}
	}
	for k, v := range raw.Filters {
		intent.Filters[k] = fmt.Sprintf("%v", v)
	}

	seen := make(map[apimodels.DataSource]bool)
	for _, s := range raw.DataSources {
		ds, ok := apimodels.ParseDataSource(s)
		if !ok || seen[ds] {
			continue
		}
		seen[ds] = true
		intent.DataSources = append(intent.DataSources, ds)
	}
	if len(intent.DataSources) == 0 {
		intent.DataSources = []apimodels.DataSource{apimodels.DataSourceOrders}
	}

	return intent
}
