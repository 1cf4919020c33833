package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/registry"
	"github.com/shopsight/shopsight/internal/shopify"
)

func (s *Server) handleConnectStore(w http.ResponseWriter, r *http.Request) {
	var req apimodels.StoreConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.ShopDomain == "" || req.AccessToken == "" {
		writeError(w, http.StatusBadRequest, "shop_domain and access_token are required")
		return
	}

	domain := shopify.NormalizeDomain(req.ShopDomain)

	client, err := s.newClient(domain, req.AccessToken)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Verify the token before recording the connection.
	shop, err := client.ShopInfo(r.Context())
	if err != nil {
		if errors.Is(err, shopify.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid access token. Please check your Shopify Admin API token.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to connect to Shopify: "+err.Error())
		return
	}

	s.registry.PutStore(registry.Store{
		Domain:      domain,
		AccessToken: req.AccessToken,
		ShopName:    shop.Name,
		Email:       shop.Email,
		Currency:    shop.Currency,
		ConnectedAt: time.Now().UTC(),
	})

	slog.Info("store connected", "shop_domain", domain)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Successfully connected to Shopify store",
		"store_id":  domain,
		"shop_name": shop.Name,
		"currency":  shop.Currency,
	})
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	stores := s.registry.ListStores()

	out := make([]map[string]interface{}, 0, len(stores))
	for _, store := range stores {
		out = append(out, map[string]interface{}{
			"store_id":     store.Domain,
			"shop_name":    store.ShopName,
			"connected_at": store.ConnectedAt.Format(time.RFC3339),
			"connected":    true,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stores": out})
}

func (s *Server) handleStoreStatus(w http.ResponseWriter, r *http.Request) {
	storeID := shopify.NormalizeDomain(chi.URLParam(r, "storeID"))

	store, ok := s.registry.GetStore(storeID)
	if !ok {
		writeError(w, http.StatusNotFound, "Store not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"store_id":     store.Domain,
		"connected":    true,
		"shop_name":    store.ShopName,
		"connected_at": store.ConnectedAt.Format(time.RFC3339),
	})
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req apimodels.QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.StoreID == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, "store_id and question are required")
		return
	}

	storeID := shopify.NormalizeDomain(req.StoreID)
	store, ok := s.registry.GetStore(storeID)
	if !ok {
		writeError(w, http.StatusUnauthorized,
			"Store '"+storeID+"' not connected. Use POST /api/v1/gateway/stores/connect first.")
		return
	}

	result, err := s.analyze(r, apimodels.AnalyzeRequest{
		StoreID:     storeID,
		AccessToken: store.AccessToken,
		Question:    req.Question,
		Context:     req.Context,
	})
	if err != nil {
		slog.Error("gateway question failed", "store_id", storeID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process question", processingSuggestions...)
		return
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000

	s.registry.AppendLog(registry.LogEntry{
		StoreID:          storeID,
		Question:         req.Question,
		Answer:           result.Answer,
		Confidence:       result.Confidence,
		ProcessingTimeMS: elapsed,
	})

	writeJSON(w, http.StatusOK, apimodels.QuestionResponse{
		Answer:     result.Answer,
		Confidence: result.Confidence,
		QueryUsed:  result.QueryUsed,
		DataSource: result.DataSource,
		Metadata: apimodels.QuestionMetadata{
			ProcessingTimeMS: elapsed,
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	logs := s.registry.RecentLogs(limit)
	if logs == nil {
		logs = []registry.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": logs})
}
