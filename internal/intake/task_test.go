package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

func TestBuildExtractionTask_ExplicitCategoryWins(t *testing.T) {
	task := BuildExtractionTask("bank-statement", "hp_agreement.pdf")
	assert.Equal(t, model.DocBankStatement, task.Category)
}

func TestBuildExtractionTask_UnknownExplicitFallsBackToFilename(t *testing.T) {
	task := BuildExtractionTask("payslip", "barclays_statement_march.pdf")
	assert.Equal(t, model.DocBankStatement, task.Category)
}

func TestBuildExtractionTask_FilenameInference(t *testing.T) {
	tests := []struct {
		filename string
		want     model.DocumentCategory
	}{
		{"HP_Agreement_2019.pdf", model.DocFinanceAgreement},
		{"car-finance-contract.jpg", model.DocFinanceAgreement},
		{"finance docs.png", model.DocFinanceAgreement},
		{"bank_statement_jan.pdf", model.DocBankStatement},
		{"Lloyds Bank Jan.pdf", model.DocBankStatement},
		{"final_response_letter.pdf", model.DocCorrespondence},
		{"email from lender.png", model.DocCorrespondence},
		{"IMG_4412.jpg", model.DocGeneric},
		{"", model.DocGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			task := BuildExtractionTask("", tt.filename)
			assert.Equal(t, tt.want, task.Category)
		})
	}
}

func TestBuildExtractionTask_AlwaysComplete(t *testing.T) {
	for _, explicit := range []string{"", "finance-agreement", "bank-statement", "correspondence", "generic", "nonsense"} {
		task := BuildExtractionTask(explicit, "whatever.bin")
		require.NotEmpty(t, task.Prompt, "category %q", explicit)
		require.NotNil(t, task.Schema, "category %q", explicit)
	}
}

func TestNarrativeTask(t *testing.T) {
	task := NarrativeTask()
	assert.Equal(t, model.DocNarrative, task.Category)
	assert.Contains(t, task.Prompt, "complaint_type")
	require.NotNil(t, task.Schema)
}
