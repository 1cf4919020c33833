package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/shopify"
)

// The real-data routes answer questions from plain REST resources, for
// stores where ShopifyQL analytics is not available (e.g. trial plans).

func (s *Server) handleRealAsk(w http.ResponseWriter, r *http.Request) {
	var req apimodels.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	storeID := shopify.NormalizeDomain(req.StoreID)
	lower := strings.ToLower(req.Question)

	var result map[string]interface{}
	var err error
	switch {
	case containsAny(lower, "product", "inventory", "stock", "item"):
		result, err = s.analyzeProducts(r.Context(), storeID)
	case containsAny(lower, "order", "sale", "revenue", "selling"):
		result, err = s.analyzeOrders(r.Context(), storeID)
	case containsAny(lower, "customer", "buyer", "repeat"):
		result, err = s.analyzeCustomers(r.Context(), storeID)
	default:
		result, err = s.analyzeProducts(r.Context(), storeID)
	}

	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fetchStoreData resolves the store's credentials from the registry and
// issues the REST call.
func (s *Server) fetchStoreData(ctx context.Context, storeID, endpoint string) (map[string]interface{}, error) {
	store, ok := s.registry.GetStore(storeID)
	if !ok {
		return nil, fmt.Errorf("store '%s' not connected", storeID)
	}

	client, err := s.newClient(store.Domain, store.AccessToken)
	if err != nil {
		return nil, err
	}
	return client.FetchResource(ctx, endpoint)
}

func (s *Server) analyzeProducts(ctx context.Context, storeID string) (map[string]interface{}, error) {
	data, err := s.fetchStoreData(ctx, storeID, "products.json?limit=50")
	if err != nil {
		return nil, err
	}
	if errMsg, ok := data["error"].(string); ok {
		return fetchFailure(errMsg), nil
	}

	products, _ := data["products"].([]interface{})
	if len(products) == 0 {
		return map[string]interface{}{
			"answer": "Your store doesn't have any products yet. Add some products in " +
				"Shopify Admin > Products to see analytics.",
			"confidence":  "high",
			"data_source": "products",
			"raw_data":    map[string]interface{}{"product_count": 0},
		}, nil
	}

	var active, draft, totalInventory int
	type productDetail struct {
		Title     string `json:"title"`
		Status    string `json:"status"`
		Price     string `json:"price"`
		Inventory int    `json:"inventory"`
	}
	details := make([]productDetail, 0, len(products))

	for _, p := range products {
		product, ok := p.(map[string]interface{})
		if !ok {
			continue
		}
		status, _ := product["status"].(string)
		switch status {
		case "active":
			active++
		case "draft":
			draft++
		}

		inventory := 0
		price := "0"
		if variants, ok := product["variants"].([]interface{}); ok {
			for i, v := range variants {
				variant, ok := v.(map[string]interface{})
				if !ok {
					continue
				}
				if qty, ok := variant["inventory_quantity"].(float64); ok {
					inventory += int(qty)
				}
				if i == 0 {
					if pr, ok := variant["price"].(string); ok {
						price = pr
					}
				}
			}
		}
		totalInventory += inventory

		title, _ := product["title"].(string)
		details = append(details, productDetail{
			Title:     title,
			Status:    status,
			Price:     "$" + price,
			Inventory: inventory,
		})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Your Store Inventory Summary:**\n\n")
	fmt.Fprintf(&b, "**Total Products:** %d\n- Active: %d\n- Draft: %d\n\n", len(details), active, draft)
	fmt.Fprintf(&b, "**Total Inventory:** %d units\n\n**Product Details:**\n", totalInventory)
	for i, d := range details {
		fmt.Fprintf(&b, "\n%d. **%s** (%s)\n   - Price: %s\n   - Stock: %d units", i+1, d.Title, d.Status, d.Price, d.Inventory)
	}

	return map[string]interface{}{
		"answer":      b.String(),
		"confidence":  "high",
		"data_source": "products",
		"query_used":  "GET /admin/api/" + s.cfg.Shopify.APIVersion + "/products.json",
		"raw_data": map[string]interface{}{
			"total_products":  len(details),
			"total_inventory": totalInventory,
			"products":        details,
		},
	}, nil
}

func (s *Server) analyzeOrders(ctx context.Context, storeID string) (map[string]interface{}, error) {
	data, err := s.fetchStoreData(ctx, storeID, "orders.json?limit=50&status=any")
	if err != nil {
		return nil, err
	}
	if errMsg, ok := data["error"].(string); ok {
		return fetchFailure(errMsg), nil
	}

	orders, _ := data["orders"].([]interface{})
	if len(orders) == 0 {
		return map[string]interface{}{
			"answer": `**No orders found in your store yet.**

This is expected for a new/trial store. To see sales analytics:
1. Create test orders through Shopify Admin > Orders > Create order
2. Or enable a payment method and complete a checkout

Since your store is on a trial plan, checkout may be disabled. You can create draft orders directly from the admin panel.`,
			"confidence":  "high",
			"data_source": "orders",
			"raw_data":    map[string]interface{}{"order_count": 0},
		}, nil
	}

	var totalRevenue float64
	for _, o := range orders {
		order, ok := o.(map[string]interface{})
		if !ok {
			continue
		}
		if raw, ok := order["total_price"].(string); ok {
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				totalRevenue += v
			}
		}
	}
	avgOrderValue := totalRevenue / float64(len(orders))

	answer := fmt.Sprintf(`**Sales Summary:**

**Total Orders:** %d
**Total Revenue:** $%.2f
**Average Order Value:** $%.2f
`, len(orders), totalRevenue, avgOrderValue)

	return map[string]interface{}{
		"answer":      answer,
		"confidence":  "high",
		"data_source": "orders",
		"query_used":  "GET /admin/api/" + s.cfg.Shopify.APIVersion + "/orders.json",
		"raw_data": map[string]interface{}{
			"total_orders":  len(orders),
			"total_revenue": totalRevenue,
		},
	}, nil
}

func (s *Server) analyzeCustomers(ctx context.Context, storeID string) (map[string]interface{}, error) {
	data, err := s.fetchStoreData(ctx, storeID, "customers.json?limit=50")
	if err != nil {
		return nil, err
	}
	if errMsg, ok := data["error"].(string); ok {
		return fetchFailure(errMsg), nil
	}

	customers, _ := data["customers"].([]interface{})
	if len(customers) == 0 {
		return map[string]interface{}{
			"answer": `**No customers found in your store yet.**

Customers are created when orders are placed. Since your store is new, there are no customers yet.

To get customer analytics, you'll need some orders first.`,
			"confidence":  "high",
			"data_source": "customers",
			"raw_data":    map[string]interface{}{"customer_count": 0},
		}, nil
	}

	answer := fmt.Sprintf(`**Customer Summary:**

**Total Customers:** %d
`, len(customers))

	return map[string]interface{}{
		"answer":      answer,
		"confidence":  "high",
		"data_source": "customers",
		"raw_data":    map[string]interface{}{"total_customers": len(customers)},
	}, nil
}

func fetchFailure(msg string) map[string]interface{} {
	return map[string]interface{}{
		"answer":     "Error fetching data: " + msg,
		"confidence": "low",
	}
}

func (s *Server) handleRealProducts(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "products.json?limit=50")
}

func (s *Server) handleRealOrders(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "orders.json?limit=50&status=any")
}

func (s *Server) handleRealInventory(w http.ResponseWriter, r *http.Request) {
	s.passthrough(w, r, "inventory_levels.json")
}

func (s *Server) passthrough(w http.ResponseWriter, r *http.Request, endpoint string) {
	storeID := shopify.NormalizeDomain(chi.URLParam(r, "storeID"))

	data, err := s.fetchStoreData(r.Context(), storeID, endpoint)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, data)
}
