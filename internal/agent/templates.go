package agent

import "fmt"

// Pre-built ShopifyQL for common questions. Every template here must pass
// ValidateQuery with zero errors.

func TopSellingProductsQuery(days, limit int) string {
	return fmt.Sprintf(`FROM sales
SHOW product_title, SUM(ordered_item_quantity) AS units_sold, SUM(net_sales) AS revenue
GROUP BY product_title
SINCE -%dd
ORDER BY units_sold DESC
LIMIT %d`, days, limit)
}

func DailySalesQuery(days int) string {
	return fmt.Sprintf(`FROM sales
SHOW day, SUM(net_sales) AS daily_revenue, SUM(ordered_item_quantity) AS units
GROUP BY day
SINCE -%dd
ORDER BY day ASC`, days)
}

func ProductInventoryQuery() string {
	return `FROM products
SHOW product_title, variant_sku, inventory_quantity
WHERE inventory_quantity > 0
ORDER BY inventory_quantity ASC`
}

func LowStockQuery(threshold int) string {
	return fmt.Sprintf(`FROM products
SHOW product_title, variant_sku, inventory_quantity
WHERE inventory_quantity <= %d
ORDER BY inventory_quantity ASC`, threshold)
}

func SalesByProductQuery(days int) string {
	return fmt.Sprintf(`FROM sales
SHOW product_title, SUM(ordered_item_quantity) AS total_sold, SUM(net_sales) AS total_revenue
GROUP BY product_title
SINCE -%dd
ORDER BY total_sold DESC`, days)
}

// TemplateLibrary returns every template with representative arguments.
func TemplateLibrary() []string {
	return []string{
		TopSellingProductsQuery(7, 5),
		DailySalesQuery(30),
		ProductInventoryQuery(),
		LowStockQuery(10),
		SalesByProductQuery(30),
	}
}
