package intake

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Kofibk/icomplain.ai-sub000/internal/config"
	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/resilience"
	"github.com/Kofibk/icomplain.ai-sub000/pkg/anthropic"
)

// Client-visible rejection reasons for unsupported input. Fixed strings,
// returned before any extraction call is made.
const (
	ReasonUnsupportedMediaType = "this file type is not supported; upload a photo (JPEG, PNG, GIF, WebP) or a PDF"
	ReasonEmptyPayload         = "the uploaded file is empty"
	ReasonTooLarge             = "the uploaded file is too large to analyse"
	ReasonUnparseableResponse  = "this file could not be analyzed"
)

// supportedMediaTypes gates artifact submission. Anything else is
// rejected before the extraction capability is called.
var supportedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// Analyzer submits extraction calls for artifacts and the narrative,
// parses the structured responses and records per-source status. It
// holds no state across artifacts.
type Analyzer struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	maxBytes    int
	limiter     *rate.Limiter
	retry       resilience.RetryConfig
}

// NewAnalyzer builds an Analyzer from configuration.
func NewAnalyzer(client anthropic.Client, ac config.AnthropicConfig, ic config.IntakeConfig) *Analyzer {
	rps := rate.Limit(float64(ac.RequestsPerMinute) / 60.0)
	if ac.RequestsPerMinute <= 0 {
		rps = rate.Inf
	}

	retry := resilience.DefaultRetryConfig()
	if ic.MaxRetries > 0 {
		retry.MaxAttempts = ic.MaxRetries
	}
	retry.ShouldRetry = func(err error) bool {
		if code := anthropic.StatusCode(err); code != 0 {
			return resilience.IsTransientHTTPStatus(code)
		}
		return resilience.IsTransient(err)
	}
	retry.OnRetry = func(attempt int, err error) {
		zap.L().Warn("retrying extraction call",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}

	return &Analyzer{
		client:      client,
		model:       ac.Model,
		maxTokens:   ac.MaxTokens,
		temperature: ac.Temperature,
		maxBytes:    ic.MaxArtifactBytes,
		limiter:     rate.NewLimiter(rps, 1),
		retry:       retry,
	}
}

// AnalyzeArtifact runs exactly one extraction call for the artifact and
// always returns a result tagged done or error. Failures never
// propagate; sibling artifacts are unaffected.
func (a *Analyzer) AnalyzeArtifact(ctx context.Context, artifact model.Artifact) model.RawAnalysisResult {
	if artifact.Data == "" {
		return errorResult(artifact.ID, model.SourceDocument, ReasonEmptyPayload)
	}
	if a.maxBytes > 0 && len(artifact.Data) > a.maxBytes {
		return errorResult(artifact.ID, model.SourceDocument, ReasonTooLarge)
	}
	if !supportedMediaTypes[artifact.MediaType] {
		return errorResult(artifact.ID, model.SourceDocument, ReasonUnsupportedMediaType)
	}

	task := BuildExtractionTask(artifact.Category, artifact.Filename)

	var part anthropic.ContentPart
	if artifact.MediaType == "application/pdf" {
		part = anthropic.DocumentPart(artifact.Data)
	} else {
		part = anthropic.ImagePart(artifact.MediaType, artifact.Data)
	}

	req := anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: &a.temperature,
		System:      anthropic.BuildCachedSystemBlocks(task.Prompt),
		Messages: []anthropic.Message{{
			Role: "user",
			Parts: []anthropic.ContentPart{
				part,
				anthropic.TextPart("Analyse the attached document."),
			},
		}},
	}

	return a.analyze(ctx, artifact.ID, model.SourceDocument, task, req)
}

// AnalyzeNarrative runs the single extraction call for the free-text
// narrative. Same degradation semantics as AnalyzeArtifact.
func (a *Analyzer) AnalyzeNarrative(ctx context.Context, sessionID, narrative string) model.RawAnalysisResult {
	sourceID := sessionID + ":narrative"
	if strings.TrimSpace(narrative) == "" {
		return errorResult(sourceID, model.SourceNarrative, ReasonEmptyPayload)
	}

	task := NarrativeTask()
	req := anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: &a.temperature,
		System:      anthropic.BuildCachedSystemBlocks(task.Prompt),
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: narrative,
		}},
	}

	return a.analyze(ctx, sourceID, model.SourceNarrative, task, req)
}

func (a *Analyzer) analyze(ctx context.Context, sourceID string, kind model.SourceKind, task model.ExtractionTask, req anthropic.MessageRequest) model.RawAnalysisResult {
	if err := a.limiter.Wait(ctx); err != nil {
		return errorResult(sourceID, kind, ReasonUnparseableResponse)
	}

	resp, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		zap.L().Warn("extraction call failed",
			zap.String("source_id", sourceID),
			zap.String("document_category", string(task.Category)),
			zap.Error(err),
		)
		return errorResult(sourceID, kind, ReasonUnparseableResponse)
	}

	resp.Usage.LogCost(a.model, "intake_analysis")

	raw := cleanJSON(extractText(resp))
	if raw == "" || !strings.HasPrefix(raw, "{") {
		zap.L().Warn("extraction response contained no structured object",
			zap.String("source_id", sourceID),
		)
		return errorResult(sourceID, kind, ReasonUnparseableResponse)
	}

	if err := validateAgainstSchema(task.Schema, []byte(raw)); err != nil {
		zap.L().Warn("extraction payload failed schema validation",
			zap.String("source_id", sourceID),
			zap.String("document_category", string(task.Category)),
			zap.Error(err),
		)
		return errorResult(sourceID, kind, ReasonUnparseableResponse)
	}

	result := parseAnalysis(sourceID, kind, task.Category, []byte(raw))
	result.Usage = model.TokenUsage{
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}
	return result
}

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func errorResult(sourceID string, kind model.SourceKind, reason string) model.RawAnalysisResult {
	return model.RawAnalysisResult{
		SourceID:   sourceID,
		SourceKind: kind,
		Status:     model.AnalysisError,
		Error:      reason,
	}
}

// listFields holds, per category, the payload keys whose values are
// string lists feeding IssuesFound rather than extracted facts.
var listFields = map[model.DocumentCategory][]string{
	model.DocFinanceAgreement: {"issues"},
	model.DocBankStatement:    {"stress_indicators"},
	model.DocCorrespondence:   {"key_points", "admissions"},
	model.DocGeneric:          {"issues"},
	model.DocNarrative:        {"issues"},
}

// currencyFields may carry an explicit "not found" value instead of
// being dropped like other empty facts.
var currencyFields = map[string]bool{
	"finance_amount":  true,
	"monthly_payment": true,
	"purchase_amount": true,
}

// parseAnalysis converts a schema-validated payload into a typed
// RawAnalysisResult. The payload has already been validated, so parse
// errors here are impossible by construction.
func parseAnalysis(sourceID string, kind model.SourceKind, category model.DocumentCategory, raw []byte) model.RawAnalysisResult {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return errorResult(sourceID, kind, ReasonUnparseableResponse)
	}

	result := model.RawAnalysisResult{
		SourceID:   sourceID,
		SourceKind: kind,
		Fields:     make(map[string]any),
		Status:     model.AnalysisDone,
	}

	if kind == model.SourceNarrative {
		parseNarrativePayload(&result, payload)
		return result
	}

	if dt, ok := payload["documentType"].(string); ok {
		result.DocumentTypeGuess = dt
	}
	result.Confidence = toConfidence(payload["confidence"])

	for _, key := range listFields[category] {
		result.IssuesFound = append(result.IssuesFound, toStringList(payload[key])...)
	}

	skip := map[string]bool{"documentType": true, "confidence": true, "facts": true}
	for _, key := range listFields[category] {
		skip[key] = true
	}
	for key, value := range payload {
		if skip[key] {
			continue
		}
		storeFact(result.Fields, key, value)
	}

	// The generic task nests its facts under a "facts" object.
	if facts, ok := payload["facts"].(map[string]any); ok {
		for key, value := range facts {
			storeFact(result.Fields, key, value)
		}
	}

	return result
}

func parseNarrativePayload(result *model.RawAnalysisResult, payload map[string]any) {
	if ct, ok := payload["complaint_type"].(string); ok {
		result.Fields["complaint_type"] = ct
	}
	result.Confidence = toConfidence(payload["complaint_type_confidence"])

	if facts, ok := payload["facts"].(map[string]any); ok {
		for key, value := range facts {
			storeFact(result.Fields, key, value)
		}
	}

	result.IssuesFound = toStringList(payload["issues"])
	result.MissingInformation = toStringList(payload["missing"])

	if questions, ok := payload["questions"].([]any); ok {
		for _, q := range questions {
			qm, ok := q.(map[string]any)
			if !ok {
				continue
			}
			question, _ := qm["question"].(string)
			if question == "" {
				continue
			}
			rationale, _ := qm["rationale"].(string)
			result.FollowUpQuestions = append(result.FollowUpQuestions, model.FollowUpQuestion{
				Question:  question,
				Rationale: rationale,
			})
		}
	}
}

// storeFact records a fact value, dropping empty or null values. Facts
// for currency amounts may carry an explicit "not found" marker.
func storeFact(fields map[string]any, key string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return
		}
		if strings.EqualFold(trimmed, "not found") && !currencyFields[key] {
			return
		}
		fields[key] = trimmed
	default:
		fields[key] = value
	}
}

func toConfidence(v any) int {
	switch n := v.(type) {
	case float64:
		c := int(n)
		if c < 0 {
			return 0
		}
		if c > 100 {
			return 100
		}
		return c
	case int:
		if n < 0 {
			return 0
		}
		if n > 100 {
			return 100
		}
		return n
	default:
		return 0
	}
}

func toStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
