package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/llm"
)

func TestConfidenceLabel(t *testing.T) {
	tests := []struct {
		name          string
		rowCount      int
		summaryFields int
		hasKeyedData  bool
		forecastGoal  bool
		want          string
	}{
		{"large table", 35, 4, false, false, "high"},
		{"mid table with summary", 10, 4, false, false, "high"},
		{"small table", 5, 2, false, false, "medium"},
		{"single row no summary", 1, 0, false, false, "medium"},
		{"keyed data only", 0, 1, true, false, "low"},
		{"nothing at all", 0, 0, false, false, "low"},
		{"forecast with no data goes negative", 0, 0, false, true, "low"},
		{"forecast penalty does not sink a large table", 35, 4, false, true, "high"},
		{"forecast penalty drops a small table", 7, 2, false, true, "medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceLabel(tt.rowCount, tt.summaryFields, tt.hasKeyedData, tt.forecastGoal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExplainErrorState(t *testing.T) {
	e := NewExplainer(llm.NewOffline())

	result := Result{Errors: []string{"ShopifyQL not available", "try the fallback"}}
	resp, err := e.Explain(context.Background(), "top products?", apimodels.Intent{}, result, "FROM sales SHOW x")
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "encountered an issue")
	assert.Equal(t, "low", resp.Confidence)
	assert.Equal(t, result.Errors, resp.Errors)
	assert.Empty(t, resp.DataSource)
	assert.Empty(t, resp.QueryUsed)
}

func TestExplainEmptyState(t *testing.T) {
	e := NewExplainer(llm.NewOffline())

	intent := apimodels.Intent{DataSources: []apimodels.DataSource{apimodels.DataSourceProducts}}
	resp, err := e.Explain(context.Background(), "sales of the Red Hoodie?", intent, Result{Empty: true}, "")
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "sales of the Red Hoodie?")
	assert.Equal(t, "low", resp.Confidence)
	assert.Equal(t, "products", resp.DataSource)
	assert.Equal(t, emptySuggestions, resp.Suggestions)
}

func TestExplainPopulatedTable(t *testing.T) {
	e := NewExplainer(llm.NewOffline())

	intent := apimodels.Intent{
		PrimaryGoal: "sales_analysis",
		DataSources: []apimodels.DataSource{apimodels.DataSourceOrders},
	}
	result := normalizeResult(salesTablePayload(3))

	resp, err := e.Explain(context.Background(), "What were my top selling products?", intent, result, "FROM sales SHOW x")
	require.NoError(t, err)

	// 3 rows, rich summary: score 4
	assert.Equal(t, "medium", resp.Confidence)
	assert.Equal(t, "orders", resp.DataSource)
	assert.Equal(t, "FROM sales SHOW x", resp.QueryUsed)
	assert.NotEmpty(t, resp.Answer)
	assert.Equal(t, 3, resp.RawSummary["total_rows"])
}

func TestSummarizeTable(t *testing.T) {
	table := &tableView{
		columns: []string{"product_title", "revenue"},
		rows: [][]interface{}{
			{"A", 10.0},
			{"B", "20.5"},
			{"C", "n/a"},
			{"D", 5.0},
		},
	}

	summary := summarizeTable(table)

	assert.Equal(t, 4, summary["total_rows"])
	assert.Equal(t, []string{"product_title", "revenue"}, summary["columns"])
	// non-numeric cells are skipped, not zeroed
	assert.InDelta(t, 35.5, summary["revenue_total"].(float64), 0.001)
	assert.InDelta(t, 35.5/3, summary["revenue_average"].(float64), 0.001)
	assert.InDelta(t, 20.5, summary["revenue_max"].(float64), 0.001)
	assert.InDelta(t, 5.0, summary["revenue_min"].(float64), 0.001)
	// the title column carries no metric keyword
	assert.NotContains(t, summary, "product_title_total")
}

func TestSummarizeTableAllNonNumeric(t *testing.T) {
	table := &tableView{
		columns: []string{"total_sales"},
		rows: [][]interface{}{
			{"n/a"},
			{"n/a"},
		},
	}

	summary := summarizeTable(table)

	assert.Equal(t, 2, summary["total_rows"])
	assert.NotContains(t, summary, "total_sales_total")
	assert.NotContains(t, summary, "total_sales_average")
}

func TestProcessPayloadKeyedCollections(t *testing.T) {
	payload := map[string]interface{}{
		"orders": map[string]interface{}{
			"edges": []interface{}{
				map[string]interface{}{"node": map[string]interface{}{"id": "1"}},
				map[string]interface{}{"node": map[string]interface{}{"id": "2"}},
			},
		},
		"customers": map[string]interface{}{
			"edges": []interface{}{},
		},
	}

	processed := processPayload(payload)

	assert.Nil(t, processed.table)
	assert.Equal(t, 2, processed.keyed["orders"])
	assert.Equal(t, 0, processed.keyed["customers"])
	assert.Equal(t, 2, processed.summary["orders_count"])
	assert.Equal(t, 0, processed.summary["customers_count"])
}

func TestExplainKeyedFallbackData(t *testing.T) {
	e := NewExplainer(llm.NewOffline())

	intent := apimodels.Intent{
		PrimaryGoal: "customer_analysis",
		DataSources: []apimodels.DataSource{apimodels.DataSourceCustomers},
	}
	result := normalizeResult(map[string]interface{}{
		"customers": map[string]interface{}{
			"edges": []interface{}{
				map[string]interface{}{"node": map[string]interface{}{"id": "1"}},
			},
		},
	})

	resp, err := e.Explain(context.Background(), "Which customers placed repeat orders?", intent, result, "")
	require.NoError(t, err)

	// keyed data alone never rates above low
	assert.Equal(t, "low", resp.Confidence)
	assert.Equal(t, "customers", resp.DataSource)
	assert.NotEmpty(t, resp.Answer)
}
