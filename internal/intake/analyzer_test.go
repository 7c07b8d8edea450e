package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/pkg/anthropic"
)

func TestAnalyzeArtifact_RejectsBeforeSubmission(t *testing.T) {
	llm := new(mockLLM)
	a := testAnalyzer(llm)

	tests := []struct {
		name     string
		artifact model.Artifact
		reason   string
	}{
		{
			name:     "empty payload",
			artifact: model.Artifact{ID: "a1", Filename: "x.pdf", MediaType: "application/pdf"},
			reason:   ReasonEmptyPayload,
		},
		{
			name: "unsupported media type",
			artifact: model.Artifact{
				ID: "a2", Filename: "x.docx",
				MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
				Data:      "QUJD",
			},
			reason: ReasonUnsupportedMediaType,
		},
		{
			name: "svg rejected",
			artifact: model.Artifact{
				ID: "a3", Filename: "x.svg", MediaType: "image/svg+xml", Data: "QUJD",
			},
			reason: ReasonUnsupportedMediaType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.AnalyzeArtifact(context.Background(), tt.artifact)
			assert.Equal(t, model.AnalysisError, result.Status)
			assert.Equal(t, tt.reason, result.Error)
			assert.Equal(t, tt.artifact.ID, result.SourceID)
		})
	}

	llm.AssertNotCalled(t, "CreateMessage")
}

func TestAnalyzeArtifact_RejectsOversizedPayload(t *testing.T) {
	llm := new(mockLLM)
	a := testAnalyzer(llm)
	a.maxBytes = 8

	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "big", Filename: "scan.jpg", MediaType: "image/jpeg", Data: "QUJDREVGR0hJSg==",
	})
	assert.Equal(t, model.AnalysisError, result.Status)
	assert.Equal(t, ReasonTooLarge, result.Error)
	llm.AssertNotCalled(t, "CreateMessage")
}

func TestAnalyzeArtifact_FinanceAgreement(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 && len(req.Messages[0].Parts) == 2 &&
			req.Messages[0].Parts[0].Type == "document"
	})).Return(textResponse("```json\n"+`{
		"documentType": "finance agreement",
		"lender_name": "Acme Finance",
		"dealer_name": "Smith Motors",
		"finance_amount": "12500",
		"commission_disclosed": "no",
		"issues": ["Commission arrangement not explained"],
		"confidence": 80
	}`+"\n```"), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "doc-1", Filename: "hp_agreement.pdf", MediaType: "application/pdf", Data: "QUJD",
	})

	require.Equal(t, model.AnalysisDone, result.Status)
	assert.Equal(t, model.SourceDocument, result.SourceKind)
	assert.Equal(t, "finance agreement", result.DocumentTypeGuess)
	assert.Equal(t, 80, result.Confidence)
	assert.Equal(t, "Acme Finance", result.Fields["lender_name"])
	assert.Equal(t, "no", result.Fields["commission_disclosed"])
	assert.Equal(t, []string{"Commission arrangement not explained"}, result.IssuesFound)
	assert.NotContains(t, result.Fields, "documentType")
	assert.Equal(t, int64(100), result.Usage.InputTokens)
	llm.AssertExpectations(t)
}

func TestAnalyzeArtifact_ImageUsesImagePart(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		part := req.Messages[0].Parts[0]
		return part.Type == "image" && part.MediaType == "image/png"
	})).Return(textResponse(`{"documentType": "photo of a letter", "confidence": 40}`), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "img-1", Filename: "IMG_4412.png", MediaType: "image/png", Data: "QUJD",
	})

	require.Equal(t, model.AnalysisDone, result.Status)
	llm.AssertExpectations(t)
}

func TestAnalyzeArtifact_DropsNotFoundAndEmptyFacts(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{
		"documentType": "finance agreement",
		"lender_name": "not found",
		"dealer_name": "  ",
		"agreement_number": null,
		"finance_amount": "not found",
		"confidence": 55
	}`), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "doc-2", Filename: "agreement.pdf", MediaType: "application/pdf", Data: "QUJD",
	})

	require.Equal(t, model.AnalysisDone, result.Status)
	assert.NotContains(t, result.Fields, "lender_name")
	assert.NotContains(t, result.Fields, "dealer_name")
	assert.NotContains(t, result.Fields, "agreement_number")
	assert.Equal(t, "not found", result.Fields["finance_amount"])
}

func TestAnalyzeArtifact_CallFailureDegrades(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("anthropic: create message: boom"))

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "doc-3", Filename: "agreement.pdf", MediaType: "application/pdf", Data: "QUJD",
	})

	assert.Equal(t, model.AnalysisError, result.Status)
	assert.Equal(t, ReasonUnparseableResponse, result.Error)
}

func TestAnalyzeArtifact_NonJSONResponseDegrades(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("I could not read this document."), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "doc-4", Filename: "blur.jpg", MediaType: "image/jpeg", Data: "QUJD",
	})

	assert.Equal(t, model.AnalysisError, result.Status)
	assert.Equal(t, ReasonUnparseableResponse, result.Error)
}

func TestAnalyzeArtifact_SchemaViolationDegrades(t *testing.T) {
	llm := new(mockLLM)
	// Missing the required documentType key.
	llm.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse(`{"lender_name": "Acme Finance", "confidence": 80}`), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeArtifact(context.Background(), model.Artifact{
		ID: "doc-5", Filename: "agreement.pdf", MediaType: "application/pdf", Data: "QUJD",
	})

	assert.Equal(t, model.AnalysisError, result.Status)
	assert.Equal(t, ReasonUnparseableResponse, result.Error)
}

func TestAnalyzeNarrative(t *testing.T) {
	llm := new(mockLLM)
	llm.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 && req.Messages[0].Content != "" && len(req.Messages[0].Parts) == 0
	})).Return(textResponse(`{
		"complaint_type": "section75",
		"complaint_type_confidence": 65,
		"facts": {"purchase_amount": "3200", "merchant_name": "Sunny Breaks Ltd"},
		"issues": ["Goods never delivered", "Card provider refused the claim"],
		"missing": ["Date of the card payment"],
		"questions": [
			{"question": "Did you pay any part of the amount by credit card?", "rationale": "Section 75 requires a credit card payment"},
			{"question": "", "rationale": "dropped"}
		]
	}`), nil)

	a := testAnalyzer(llm)
	result := a.AnalyzeNarrative(context.Background(), "sess-1", "I bought a holiday and it was never provided.")

	require.Equal(t, model.AnalysisDone, result.Status)
	assert.Equal(t, "sess-1:narrative", result.SourceID)
	assert.Equal(t, model.SourceNarrative, result.SourceKind)
	assert.Equal(t, "section75", result.Fields["complaint_type"])
	assert.Equal(t, 65, result.Confidence)
	assert.Equal(t, "3200", result.Fields["purchase_amount"])
	assert.Len(t, result.IssuesFound, 2)
	assert.Equal(t, []string{"Date of the card payment"}, result.MissingInformation)
	require.Len(t, result.FollowUpQuestions, 1)
	assert.Equal(t, "Did you pay any part of the amount by credit card?", result.FollowUpQuestions[0].Question)
	llm.AssertExpectations(t)
}

func TestAnalyzeNarrative_EmptyText(t *testing.T) {
	llm := new(mockLLM)
	a := testAnalyzer(llm)

	result := a.AnalyzeNarrative(context.Background(), "sess-2", "   ")
	assert.Equal(t, model.AnalysisError, result.Status)
	assert.Equal(t, ReasonEmptyPayload, result.Error)
	llm.AssertNotCalled(t, "CreateMessage")
}

func TestCleanJSONExtraction(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding prose", "Here you go: {\"a\": 1} hope that helps", `{"a": 1}`},
		{"no object", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
