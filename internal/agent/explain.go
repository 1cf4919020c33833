package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shopsight/shopsight/apimodels"
	"github.com/shopsight/shopsight/internal/llm"
)

// Column-name keywords that trigger numeric aggregation.
var metricKeywords = []string{"revenue", "sales", "total", "quantity", "units", "sold"}

// Goals whose answers are projections rather than observed data.
var forecastGoals = map[string]bool{
	"inventory_forecast": true,
	"sales_forecast":     true,
}

var emptySuggestions = []string{
	"Try a broader time range",
	"Check if your store has data for this metric",
	"Verify the product or category name",
}

// Explainer turns a normalized result into a business-friendly answer plus a
// deterministic confidence rating.
type Explainer struct {
	llmProvider llm.Provider
	printer     *message.Printer
}

func NewExplainer(provider llm.Provider) *Explainer {
	return &Explainer{
		llmProvider: provider,
		printer:     message.NewPrinter(language.English),
	}
}

func (e *Explainer) Explain(ctx context.Context, question string, intent apimodels.Intent, result Result, queryUsed string) (*apimodels.AnalyzeResponse, error) {
	if result.IsError() {
		return errorAnswer(result), nil
	}
	if result.Empty {
		return emptyAnswer(question, intent), nil
	}

	processed := processPayload(result.Payload)

	answer, err := e.generateExplanation(ctx, question, processed)
	if err != nil {
		return nil, err
	}

	return &apimodels.AnalyzeResponse{
		Answer:     answer,
		Confidence: processed.confidence(intent),
		QueryUsed:  queryUsed,
		DataSource: intent.PrimarySource(),
		RawSummary: processed.summary,
	}, nil
}

func emptyAnswer(question string, intent apimodels.Intent) *apimodels.AnalyzeResponse {
	return &apimodels.AnalyzeResponse{
		Answer: fmt.Sprintf("I couldn't find any data to answer your question: %q. "+
			"This could mean there's no matching data for the specified criteria, "+
			"or the time period you're asking about doesn't have any activity.", question),
		Confidence:  "low",
		DataSource:  intent.PrimarySource(),
		Suggestions: emptySuggestions,
	}
}

func errorAnswer(result Result) *apimodels.AnalyzeResponse {
	return &apimodels.AnalyzeResponse{
		Answer: "I encountered an issue while trying to answer your question. " +
			"Please try rephrasing your question or asking about a different metric.",
		Confidence: "low",
		Errors:     result.Errors,
	}
}

type tableView struct {
	columns []string
	rows    [][]interface{}
}

type processedData struct {
	table   *tableView
	keyed   map[string]int
	summary map[string]interface{}
}

// Entity collections a fallback payload can carry.
var keyedCollections = []string{"orders", "products", "customers", "inventoryItems"}

// processPayload flattens the payload into a columnar table view or a keyed
// collection view, whichever shape it matches, and computes summary
// statistics.
func processPayload(payload map[string]interface{}) *processedData {
	processed := &processedData{
		keyed:   map[string]int{},
		summary: map[string]interface{}{},
	}

	if tableData, ok := payload["tableData"].(map[string]interface{}); ok {
		table := parseTable(tableData)
		processed.table = table
		if len(table.rows) > 0 {
			processed.summary = summarizeTable(table)
		}
		return processed
	}

	for _, key := range keyedCollections {
		collection, ok := payload[key].(map[string]interface{})
		if !ok {
			continue
		}
		edges, _ := collection["edges"].([]interface{})
		processed.keyed[key] = len(edges)
		processed.summary[key+"_count"] = len(edges)
	}
	return processed
}

func parseTable(tableData map[string]interface{}) *tableView {
	table := &tableView{}

	if cols, ok := tableData["columns"].([]interface{}); ok {
		for _, c := range cols {
			if col, ok := c.(map[string]interface{}); ok {
				name, _ := col["name"].(string)
				table.columns = append(table.columns, name)
			}
		}
	}
	if rowData, ok := tableData["rowData"].([]interface{}); ok {
		for _, r := range rowData {
			if row, ok := r.([]interface{}); ok {
				table.rows = append(table.rows, row)
			}
		}
	}
	return table
}

// summarizeTable computes sum/average/max/min per metric-keyword column over
// the parseable numeric cells. Columns with no numeric cells get no
// aggregates at all.
func summarizeTable(table *tableView) map[string]interface{} {
	summary := map[string]interface{}{
		"total_rows": len(table.rows),
		"columns":    table.columns,
	}

	for i, col := range table.columns {
		if !isMetricColumn(col) {
			continue
		}

		var values []float64
		for _, row := range table.rows {
			if i >= len(row) {
				continue
			}
			if v, ok := numericCell(row[i]); ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}

		var total, maxV, minV float64
		maxV, minV = values[0], values[0]
		for _, v := range values {
			total += v
			if v > maxV {
				maxV = v
			}
			if v < minV {
				minV = v
			}
		}
		summary[col+"_total"] = total
		summary[col+"_average"] = total / float64(len(values))
		summary[col+"_max"] = maxV
		summary[col+"_min"] = minV
	}

	return summary
}

func isMetricColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range metricKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func numericCell(v interface{}) (float64, bool) {
	switch cell := v.(type) {
	case float64:
		return cell, true
	case int:
		return float64(cell), true
	case string:
		f, err := strconv.ParseFloat(cell, 64)
		return f, err == nil
	}
	return 0, false
}

func (e *Explainer) generateExplanation(ctx context.Context, question string, processed *processedData) (string, error) {
	prompt := fmt.Sprintf(`You are a helpful Shopify analytics assistant. Based on the data below,
provide a clear, business-friendly answer to the user's question.

User Question: %s

Data Summary:
%s

%s
Guidelines:
- Use simple, non-technical language
- Include specific numbers from the data
- Provide actionable recommendations when appropriate
- Be concise but thorough
- If the question is about forecasting or projections, explain your calculation method
- Format numbers with appropriate units (e.g., "$1,234" for currency, "150 units")

Provide your answer in 2-4 short paragraphs.`, question, e.formatSummary(processed.summary), formatTablePreview(processed.table))

	resp, err := e.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}

func (e *Explainer) formatSummary(summary map[string]interface{}) string {
	if len(summary) == 0 {
		return "No summary data available"
	}

	var lines []string
	for key, value := range summary {
		switch v := value.(type) {
		case float64:
			lines = append(lines, e.printer.Sprintf("- %s: %.2f", key, v))
		case int:
			lines = append(lines, e.printer.Sprintf("- %s: %d", key, v))
		default:
			lines = append(lines, fmt.Sprintf("- %s: %v", key, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatTablePreview(table *tableView) string {
	if table == nil || len(table.rows) == 0 {
		return ""
	}

	rows := table.rows
	if len(rows) > 10 {
		rows = rows[:10]
	}

	lines := []string{
		"Table Preview (first 10 rows):",
		strings.Join(table.columns, " | "),
		strings.Repeat("-", 50),
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (p *processedData) confidence(intent apimodels.Intent) string {
	rowCount := 0
	if p.table != nil {
		rowCount = len(p.table.rows)
	}
	hasKeyed := false
	for _, count := range p.keyed {
		if count > 0 {
			hasKeyed = true
			break
		}
	}
	return ConfidenceLabel(rowCount, len(p.summary), hasKeyed, forecastGoals[intent.PrimaryGoal])
}

// ConfidenceLabel maps result shape to low/medium/high. The score is not
// floored; forecast goals with no data can go negative and still map to
// "low".
func ConfidenceLabel(rowCount, summaryFields int, hasKeyedData, forecastGoal bool) string {
	score := 0

	if rowCount > 0 {
		score += 3
	} else if hasKeyedData {
		score += 2
	}

	if rowCount >= 30 {
		score += 2
	} else if rowCount >= 7 {
		score++
	}

	if summaryFields >= 3 {
		score++
	}

	if forecastGoal {
		score--
	}

	switch {
	case score >= 5:
		return "high"
	case score >= 3:
		return "medium"
	default:
		return "low"
	}
}
