package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/templates"
)

func testComposer(t *testing.T) *Composer {
	t.Helper()
	lib, err := templates.Load()
	require.NoError(t, err)
	return NewComposer(lib)
}

func TestCompose_Deterministic(t *testing.T) {
	c := testComposer(t)
	profile := &model.ComplaintProfile{
		Category:   model.CategoryMotorFinance,
		Confidence: 80,
		ExtractedFacts: map[string]any{
			"lender_name":    "Acme Finance",
			"full_name":      "Jane Doe",
			"settlement_fee": float64(250),
		},
		KeyIssues: []string{"Commission on the finance agreement was not disclosed"},
	}
	precedent := model.PrecedentContext{
		Category: model.CategoryMotorFinance,
		Summaries: []model.PrecedentSummary{{
			Summary:             "Discretionary commission complaint upheld.",
			SuccessfulArguments: []string{"Commission model inflated the interest rate"},
			LegalReferences:     []string{"CONC 4.5.3R"},
		}},
	}

	first := c.Compose(profile, precedent)
	second := c.Compose(profile, precedent)
	assert.Equal(t, first, second)
}

func TestCompose_OmitsPrecedentSectionWhenEmpty(t *testing.T) {
	c := testComposer(t)
	profile := &model.ComplaintProfile{
		Category:       model.CategorySection75,
		ExtractedFacts: map[string]any{},
	}

	ctx := c.Compose(profile, model.PrecedentContext{Category: model.CategorySection75})

	assert.Empty(t, ctx.PrecedentRendered)
	assert.NotEmpty(t, ctx.LegalArgument)
	assert.NotEmpty(t, ctx.EvidenceChecklist)
}

func TestCompose_RendersPrecedent(t *testing.T) {
	c := testComposer(t)
	profile := &model.ComplaintProfile{
		Category:       model.CategoryMotorFinance,
		ExtractedFacts: map[string]any{},
	}
	precedent := model.PrecedentContext{
		Category: model.CategoryMotorFinance,
		Summaries: []model.PrecedentSummary{
			{Summary: "First case.", LegalReferences: []string{"CONC 4.5.3R"}},
			{Summary: "Second case.", SuccessfulArguments: []string{"Undisclosed commission"}},
		},
	}

	ctx := c.Compose(profile, precedent)

	assert.Contains(t, ctx.PrecedentRendered, "1. First case.")
	assert.Contains(t, ctx.PrecedentRendered, "2. Second case.")
	assert.Contains(t, ctx.PrecedentRendered, "Legal references: CONC 4.5.3R")
	assert.Contains(t, ctx.PrecedentRendered, "Arguments that succeeded: Undisclosed commission")
}

func TestFactPairs_DeclaredOrderFirstThenSorted(t *testing.T) {
	c := testComposer(t)
	facts := map[string]any{
		"zz_custom":   "last",
		"lender_name": "Acme Finance",
		"full_name":   "Jane Doe",
		"aa_custom":   "first of the rest",
	}

	pairs := c.factPairs(facts)
	require.Len(t, pairs, 4)

	assert.Equal(t, "Full name", pairs[0].Label)
	assert.Equal(t, "Lender", pairs[1].Label)
	assert.Equal(t, "Aa Custom", pairs[2].Label)
	assert.Equal(t, "Zz Custom", pairs[3].Label)
}

func TestFormatFactValue(t *testing.T) {
	assert.Equal(t, "Acme", formatFactValue("Acme"))
	assert.Equal(t, "250", formatFactValue(float64(250)))
	assert.Equal(t, "249.99", formatFactValue(249.99))
	assert.Equal(t, "yes", formatFactValue(true))
	assert.Equal(t, "no", formatFactValue(false))
}

func TestResult_CopiesProfileData(t *testing.T) {
	c := testComposer(t)
	profile := &model.ComplaintProfile{
		Category:           model.CategoryUnaffordableLending,
		Confidence:         70,
		ExtractedFacts:     map[string]any{"lender_name": "QuickLoans"},
		KeyIssues:          []string{"Financial stress: Persistent overdraft use"},
		MissingInformation: []string{"Income at the time of lending"},
		FollowUpQuestions:  []model.FollowUpQuestion{{Question: "How many loans did you take?"}},
	}
	letterCtx := c.Compose(profile, model.PrecedentContext{})

	result := c.Result(profile, letterCtx)

	assert.Equal(t, model.CategoryUnaffordableLending, result.Category)
	assert.Equal(t, "Unaffordable Lending", result.CategoryLabel)
	assert.Equal(t, 70, result.Confidence)
	require.NotNil(t, result.LetterContext)
	assert.Equal(t, letterCtx, *result.LetterContext)

	result.KeyIssues[0] = "mutated"
	assert.Equal(t, "Financial stress: Persistent overdraft use", profile.KeyIssues[0])
}

func TestClassify_CoercesInvalidCategory(t *testing.T) {
	profile := &model.ComplaintProfile{Category: model.Category("pcp-claim")}
	Classify(profile)
	assert.Equal(t, model.CategoryOther, profile.Category)

	profile.Category = model.CategorySection75
	Classify(profile)
	assert.Equal(t, model.CategorySection75, profile.Category)
}
