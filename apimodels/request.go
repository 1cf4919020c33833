package apimodels

type AnalyzeRequest struct {
	// StoreID is the Shopify store domain (e.g. "mystore.myshopify.com")
	StoreID string `json:"store_id"`

	// AccessToken is the Shopify Admin API access token
	AccessToken string `json:"access_token"`

	// Question is the natural language question from the user
	Question string `json:"question"`

	// Context carries optional additional context for the question
	Context string `json:"context,omitempty"`
}

type DemoAnalyzeRequest struct {
	Question string `json:"question"`
}

// StoreConnectRequest registers a Shopify store with the gateway.
type StoreConnectRequest struct {
	ShopDomain  string `json:"shop_domain"`
	AccessToken string `json:"access_token"`
}

// QuestionRequest is the gateway-facing question payload. Credentials are
// looked up from the store registry rather than carried on the request.
type QuestionRequest struct {
	StoreID  string `json:"store_id"`
	Question string `json:"question"`
	Context  string `json:"context,omitempty"`
}
