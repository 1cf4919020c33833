package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/config"
	"github.com/shopsight/shopsight/internal/llm"
)

// Gateway executes queries against a store's data API.
type Gateway interface {
	ExecuteShopifyQL(ctx context.Context, query string) (map[string]interface{}, error)
	ExecuteFallback(ctx context.Context, intent apimodels.Intent) (map[string]interface{}, error)
}

// Agent answers natural-language questions about a Shopify store:
// intent extraction, plan building, query generation, execution, explanation.
// One Agent serves one store; it keeps no state between questions.
type Agent struct {
	llmProvider llm.Provider
	gateway     Gateway
	generator   *QueryGenerator
	explainer   *Explainer
	cfg         config.AgentConfig
}

func New(provider llm.Provider, gateway Gateway, cfg config.AgentConfig) *Agent {
	return &Agent{
		llmProvider: provider,
		gateway:     gateway,
		generator:   NewQueryGenerator(provider),
		explainer:   NewExplainer(provider),
		cfg:         cfg,
	}
}

// Process answers a single question. All stages run sequentially; only query
// execution is retried.
func (a *Agent) Process(ctx context.Context, question, contextText string) (*apimodels.AnalyzeResponse, error) {
	slog.Info("processing question", "question", truncate(question, 100))

	intent, err := a.extractIntent(ctx, question, contextText)
	if err != nil {
		return nil, fmt.Errorf("intent extraction failed: %w", err)
	}
	slog.Info("intent understood", "intent", intent.PrimaryGoal, "sources", intent.DataSources)

	plan := BuildPlan(intent)
	slog.Info("plan created", "steps", len(plan))

	query, err := a.generator.Generate(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}
	slog.Info("query generated", "type", query.Type, "query", truncate(query.Query, 100))

	result := a.executeQuery(ctx, query, intent)
	slog.Info("query executed", "empty", result.Empty, "error", result.IsError())

	resp, err := a.explainer.Explain(ctx, question, intent, result, query.Query)
	if err != nil {
		return nil, fmt.Errorf("explanation failed: %w", err)
	}
	slog.Info("explanation generated", "confidence", resp.Confidence)

	return resp, nil
}

// executeQuery runs the query with bounded exponential retry on transport
// failures and normalizes the outcome. Upstream-reported errors ride inside
// the payload and are not retried.
func (a *Agent) executeQuery(ctx context.Context, query *GeneratedQuery, intent apimodels.Intent) Result {
	op := func() (map[string]interface{}, error) {
		if query.Type == QueryTypeShopifyQL && query.Query != "" {
			return a.gateway.ExecuteShopifyQL(ctx, query.Query)
		}
		return a.gateway.ExecuteFallback(ctx, intent)
	}

	bo := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(a.cfg.RetryInitialInterval),
		backoff.WithMaxInterval(a.cfg.RetryMaxInterval),
	), ctx)

	payload, err := backoff.RetryWithData(op, backoff.WithMaxRetries(bo, uint64(a.cfg.MaxRetries)))
	if err != nil {
		slog.Error("query execution failed after retries", "error", err)
		return Result{Errors: []string{err.Error()}}
	}
	return normalizeResult(payload)
}

func normalizeResult(payload map[string]interface{}) Result {
	if len(payload) == 0 {
		return Result{Empty: true}
	}
	if errs, ok := payload["errors"]; ok {
		return Result{Errors: errorMessages(errs)}
	}
	return Result{Payload: payload}
}

// errorMessages pulls every message out of an upstream errors value; nothing
// is dropped, unshaped entries are stringified.
func errorMessages(v interface{}) []string {
	var msgs []string
	switch errs := v.(type) {
	case []interface{}:
		for _, e := range errs {
			if entry, ok := e.(map[string]interface{}); ok {
				if msg, ok := entry["message"].(string); ok {
					msgs = append(msgs, msg)
					continue
				}
			}
			msgs = append(msgs, fmt.Sprintf("%v", e))
		}
	case []string:
		msgs = append(msgs, errs...)
	default:
		msgs = append(msgs, fmt.Sprintf("%v", v))
	}
	if len(msgs) == 0 {
		msgs = []string{"unknown upstream error"}
	}
	return msgs
}

func truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
