package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/agent"
)

var processingSuggestions = []string{
	"Try rephrasing your question",
	"Ensure you're asking about orders, products, inventory, or customers",
	"Check if your store has the required data",
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.StoreID == "" || req.AccessToken == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "store_id, access_token, and question are required")
		return
	}

	slog.Info("received analyze request",
		"store_id", req.StoreID,
		"question", clip(req.Question, 100),
	)

	result, err := s.analyze(r, req)
	if err != nil {
		slog.Error("analysis failed", "store_id", req.StoreID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process question", processingSuggestions...)
		return
	}

	slog.Info("analysis complete", "store_id", req.StoreID, "confidence", result.Confidence)
	writeJSON(w, http.StatusOK, result)
}

// analyze builds a store-scoped agent and runs the question through it.
// Credentials live only for the duration of the request.
func (s *Server) analyze(r *http.Request, req apimodels.AnalyzeRequest) (*apimodels.AnalyzeResponse, error) {
	client, err := s.newClient(req.StoreID, req.AccessToken)
	if err != nil {
		return nil, err
	}

	a := agent.New(s.provider, client, s.cfg.Agent)
	return a.Process(r.Context(), req.Question, req.Context)
}

func (s *Server) handleSupportedQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": map[string][]string{
			"inventory": {
				"How many units of Product X will I need next month?",
				"Which products are likely to go out of stock in 7 days?",
				"How much inventory should I reorder based on last 30 days sales?",
				"What is my current stock level for all products?",
			},
			"sales": {
				"What were my top 5 selling products last week?",
				"What is my total revenue for this month?",
				"What is the average order value?",
				"Which day of the week has the most sales?",
			},
			"customers": {
				"Which customers placed repeat orders in the last 90 days?",
				"Who are my top 10 customers by total spend?",
				"How many new customers did I get this month?",
				"What is my customer retention rate?",
			},
			"trends": {
				"What is my sales trend for the last 3 months?",
				"Which product category is growing the fastest?",
				"Are my sales increasing or decreasing?",
			},
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "shopsight",
		"version": serviceVersion,
	})
}

func clip(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
