package apimodels

// DataSource identifies a Shopify data category a question can draw on.
type DataSource string

const (
	DataSourceOrders    DataSource = "orders"
	DataSourceProducts  DataSource = "products"
	DataSourceInventory DataSource = "inventory"
	DataSourceCustomers DataSource = "customers"
	DataSourceSales     DataSource = "sales"
)

// ParseDataSource reports whether s names a known data source.
func ParseDataSource(s string) (DataSource, bool) {
	switch DataSource(s) {
	case DataSourceOrders, DataSourceProducts, DataSourceInventory, DataSourceCustomers, DataSourceSales:
		return DataSource(s), true
	}
	return "", false
}

// Intent is the structured interpretation of a natural-language question.
// It is built once per question and never mutated afterwards.
type Intent struct {
	// PrimaryGoal is a free-form category label (e.g. "inventory_forecast")
	PrimaryGoal string `json:"primary_intent"`

	// DataSources lists the required data categories; non-empty, de-duplicated
	DataSources []DataSource `json:"data_sources"`

	// TimeWindow is the time phrase mentioned, if any (not parsed here)
	TimeWindow string `json:"time_period,omitempty"`

	// Metrics lists requested measure names, in order
	Metrics []string `json:"metrics,omitempty"`

	// Filters maps filter keys to values
	Filters map[string]string `json:"filters,omitempty"`

	// Aggregation is an advisory label (sum, average, count, ...)
	Aggregation string `json:"aggregation,omitempty"`
}

// HasSource reports whether the intent requires the given data source.
func (i Intent) HasSource(s DataSource) bool {
	for _, ds := range i.DataSources {
		if ds == s {
			return true
		}
	}
	return false
}

// PrimarySource returns the first requested data source, or "".
func (i Intent) PrimarySource() string {
	if len(i.DataSources) == 0 {
		return ""
	}
	return string(i.DataSources[0])
}
