package agent

// QueryType says which execution path a generated query takes.
type QueryType string

const (
	// QueryTypeShopifyQL executes through the analytics query endpoint.
	QueryTypeShopifyQL QueryType = "shopifyql"
	// QueryTypeGraphQL uses the composed entity-fetch fallback; the query
	// text is empty and the gateway builds the request from the intent.
	QueryTypeGraphQL QueryType = "graphql"
)

type GeneratedQuery struct {
	Query            string
	Type             QueryType
	Valid            bool
	ValidationErrors []string
	Description      string
}

// PlanStep is one unit of retrieval work. Lower priority runs earlier.
type PlanStep struct {
	Name        string
	Description string
	Priority    int
}

// Result is the normalized three-state outcome of query execution: empty,
// error, or populated. Downstream logic branches on the state before looking
// at the payload.
type Result struct {
	Empty   bool
	Errors  []string
	Payload map[string]interface{}
}

func (r Result) IsError() bool {
	return len(r.Errors) > 0
}
