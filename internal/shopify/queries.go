package shopify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopsight/shopsight/apimodels"
)

// Fixed page size for all fallback fetches. No pagination beyond the first
// page is attempted.
const fallbackPageSize = 100

// buildFallbackQuery composes one GraphQL document from the intent's data
// sources. Field selections are fixed per source; nothing user-controlled
// ends up in the document besides the time filter.
func buildFallbackQuery(intent apimodels.Intent) string {
	var fragments []string

	if intent.HasSource(apimodels.DataSourceOrders) || intent.HasSource(apimodels.DataSourceSales) {
		fragments = append(fragments, ordersFragment(intent.TimeWindow))
	}
	if intent.HasSource(apimodels.DataSourceProducts) {
		fragments = append(fragments, productsFragment)
	}
	if intent.HasSource(apimodels.DataSourceInventory) {
		fragments = append(fragments, inventoryFragment)
	}
	if intent.HasSource(apimodels.DataSourceCustomers) {
		fragments = append(fragments, customersFragment)
	}
	if len(fragments) == 0 {
		fragments = append(fragments, ordersFragment(intent.TimeWindow))
	}

	return fmt.Sprintf("query { %s }", strings.Join(fragments, " "))
}

func ordersFragment(timeWindow string) string {
	return fmt.Sprintf(`
orders(first: %d%s) {
	edges {
		node {
			id
			name
			createdAt
			totalPriceSet {
				shopMoney {
					amount
					currencyCode
				}
			}
			lineItems(first: 20) {
				edges {
					node {
						title
						quantity
						variant {
							id
							sku
							price
						}
					}
				}
			}
			customer {
				id
				email
			}
		}
	}
}`, fallbackPageSize, timeFilter(timeWindow))
}

var productsFragment = fmt.Sprintf(`
products(first: %d) {
	edges {
		node {
			id
			title
			status
			totalInventory
			variants(first: 10) {
				edges {
					node {
						id
						title
						sku
						price
						inventoryQuantity
					}
				}
			}
		}
	}
}`, fallbackPageSize)

var inventoryFragment = fmt.Sprintf(`
inventoryItems(first: %d) {
	edges {
		node {
			id
			sku
			tracked
			inventoryLevels(first: 5) {
				edges {
					node {
						available
						location {
							id
							name
						}
					}
				}
			}
		}
	}
}`, fallbackPageSize)

var customersFragment = fmt.Sprintf(`
customers(first: %d) {
	edges {
		node {
			id
			displayName
			email
			ordersCount
			totalSpent
			createdAt
		}
	}
}`, fallbackPageSize)

// timeFilter converts a free-text time phrase into a created_at query filter.
// Unrecognized phrases default to the last 30 days; an empty phrase means no
// filter at all.
func timeFilter(timeWindow string) string {
	if timeWindow == "" {
		return ""
	}

	days := 30
	switch {
	case strings.Contains(timeWindow, "7 days") || strings.Contains(timeWindow, "week"):
		days = 7
	case strings.Contains(timeWindow, "30 days") || strings.Contains(timeWindow, "month"):
		days = 30
	case strings.Contains(timeWindow, "90 days") || strings.Contains(timeWindow, "3 months"):
		days = 90
	}

	start := time.Now().AddDate(0, 0, -days)
	return fmt.Sprintf(`, query: "created_at:>=%s"`, start.Format("2006-01-02"))
}
