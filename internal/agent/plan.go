package agent

import (
	"sort"

	"github.com/shopsight/shopsight/apimodels"
)

// BuildPlan maps an intent's data sources to an ordered list of retrieval
// steps. Priority 1 is primary data, 2 is secondary, 3 is the analysis step
// that always comes last. Ties keep the order the rules run in.
func BuildPlan(intent apimodels.Intent) []PlanStep {
	var plan []PlanStep

	if intent.HasSource(apimodels.DataSourceInventory) {
		plan = append(plan, PlanStep{
			Name:        "fetch_inventory",
			Description: "Get current inventory levels",
			Priority:    1,
		})
	}
	if intent.HasSource(apimodels.DataSourceOrders) || intent.HasSource(apimodels.DataSourceSales) {
		plan = append(plan, PlanStep{
			Name:        "fetch_sales_data",
			Description: "Get sales/order data for the specified period",
			Priority:    1,
		})
	}
	if intent.HasSource(apimodels.DataSourceCustomers) {
		plan = append(plan, PlanStep{
			Name:        "fetch_customer_data",
			Description: "Get customer information",
			Priority:    2,
		})
	}
	if intent.HasSource(apimodels.DataSourceProducts) {
		plan = append(plan, PlanStep{
			Name:        "fetch_product_data",
			Description: "Get product information",
			Priority:    2,
		})
	}

	plan = append(plan, PlanStep{
		Name:        "analyze_data",
		Description: "Calculate metrics and generate insights",
		Priority:    3,
	})

	sort.SliceStable(plan, func(i, j int) bool {
		return plan[i].Priority < plan[j].Priority
	})
	return plan
}
