package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopsight/shopsight/apimodels"
)

func stepNames(plan []PlanStep) []string {
	names := make([]string, len(plan))
	for i, step := range plan {
		names[i] = step.Name
	}
	return names
}

func TestBuildPlan(t *testing.T) {
	tests := []struct {
		name    string
		sources []apimodels.DataSource
		want    []string
	}{
		{
			name:    "inventory forecast needs inventory then sales",
			sources: []apimodels.DataSource{apimodels.DataSourceInventory, apimodels.DataSourceOrders},
			want:    []string{"fetch_inventory", "fetch_sales_data", "analyze_data"},
		},
		{
			name:    "sales counts as order data",
			sources: []apimodels.DataSource{apimodels.DataSourceSales},
			want:    []string{"fetch_sales_data", "analyze_data"},
		},
		{
			name:    "customers and products are secondary",
			sources: []apimodels.DataSource{apimodels.DataSourceCustomers, apimodels.DataSourceProducts, apimodels.DataSourceOrders},
			want:    []string{"fetch_sales_data", "fetch_customer_data", "fetch_product_data", "analyze_data"},
		},
		{
			name:    "no sources still analyzes",
			sources: nil,
			want:    []string{"analyze_data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := BuildPlan(apimodels.Intent{DataSources: tt.sources})
			assert.Equal(t, tt.want, stepNames(plan))
		})
	}
}

func TestBuildPlanAnalyzeAlwaysLast(t *testing.T) {
	sourceSets := [][]apimodels.DataSource{
		nil,
		{apimodels.DataSourceOrders},
		{apimodels.DataSourceInventory, apimodels.DataSourceOrders, apimodels.DataSourceProducts, apimodels.DataSourceCustomers},
	}

	for _, sources := range sourceSets {
		plan := BuildPlan(apimodels.Intent{DataSources: sources})
		require.NotEmpty(t, plan)

		last := plan[len(plan)-1]
		assert.Equal(t, "analyze_data", last.Name)
		assert.Equal(t, 3, last.Priority)

		count := 0
		for _, step := range plan {
			if step.Name == "analyze_data" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestBuildPlanPrioritiesNonDecreasing(t *testing.T) {
	plan := BuildPlan(apimodels.Intent{DataSources: []apimodels.DataSource{
		apimodels.DataSourceCustomers,
		apimodels.DataSourceInventory,
		apimodels.DataSourceProducts,
	}})

	for i := 1; i < len(plan); i++ {
		assert.LessOrEqual(t, plan[i-1].Priority, plan[i].Priority)
	}
}
