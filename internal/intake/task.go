// Package intake implements the complaint intake pipeline: per-artifact
// document analysis, streaming aggregation into a complaint profile,
// category classification, precedent retrieval and letter context
// composition.
package intake

import (
	"path/filepath"
	"strings"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

const financeAgreementPrompt = `You are analysing a consumer finance agreement (PCP, HP or personal
loan) photographed or scanned by the customer. Extract the fields below.
Use null for anything you cannot read. For currency fields, answer with
the number only, or the string "not found" if the document does not show
it. Respond with a single JSON object and nothing else:
{
  "documentType": "what kind of document this appears to be",
  "lender_name": "name of the lender or finance company",
  "dealer_name": "dealer or broker who arranged the finance, if shown",
  "agreement_number": "agreement or account reference",
  "agreement_date": "date the agreement was signed, ISO format if possible",
  "finance_amount": "total amount financed",
  "monthly_payment": "monthly payment amount",
  "interest_rate": "APR as shown",
  "commission_disclosed": "yes/no/partial - does the document disclose dealer commission?",
  "issues": ["anything in the document that looks unfair or non-compliant"],
  "confidence": 0-100 integer, how confident you are in this reading
}`

const bankStatementPrompt = `You are analysing a consumer bank statement provided as complaint
evidence. Look for signs of financial stress relevant to an
irresponsible-lending complaint. Respond with a single JSON object and
nothing else:
{
  "documentType": "what kind of document this appears to be",
  "account_holder": "account holder name if shown",
  "statement_period": "period covered",
  "overdraft_usage": "yes/no - is the account in overdraft during the period?",
  "failed_payments": "count of returned or failed payments, 0 if none",
  "high_cost_credit": "yes/no - are there payments to payday or high-cost lenders?",
  "stress_indicators": ["each distinct sign of financial stress you can see"],
  "confidence": 0-100 integer
}`

const correspondencePrompt = `You are analysing a letter or email between the customer and a firm,
provided as complaint evidence. Respond with a single JSON object and
nothing else:
{
  "documentType": "what kind of document this appears to be",
  "sender": "who sent it",
  "date": "date of the correspondence",
  "subject": "what it concerns",
  "key_points": ["the substantive points made"],
  "admissions": ["anything the firm admits, offers or refuses"],
  "confidence": 0-100 integer
}`

const genericDocumentPrompt = `You are analysing a document uploaded as evidence for a consumer
complaint. Identify what it is and extract anything useful. Respond with
a single JSON object and nothing else:
{
  "documentType": "what kind of document this appears to be",
  "facts": {"fact_name": "value for each useful fact you can extract"},
  "issues": ["anything that supports a complaint"],
  "confidence": 0-100 integer
}`

const narrativePrompt = `The customer has described their complaint in their own words below.
Classify the complaint and extract the facts they mention. Valid
complaint types: motor-finance-commission, section75,
unaffordable-lending, holiday-park-misselling, other. Respond with a
single JSON object and nothing else:
{
  "complaint_type": "one of the valid complaint types",
  "complaint_type_confidence": 0-100 integer, 0 if you had to guess,
  "facts": {"fact_name": "value for each concrete fact mentioned"},
  "issues": ["each distinct grievance in the customer's own framing"],
  "missing": ["important details the customer has not provided"],
  "questions": [{"question": "...", "rationale": "..."}]
}`

// taskPrompts maps each document category to its extraction prompt.
var taskPrompts = map[model.DocumentCategory]string{
	model.DocFinanceAgreement: financeAgreementPrompt,
	model.DocBankStatement:    bankStatementPrompt,
	model.DocCorrespondence:   correspondencePrompt,
	model.DocGeneric:          genericDocumentPrompt,
	model.DocNarrative:        narrativePrompt,
}

// filenameKeywords maps filename substrings to document categories,
// checked in declaration order.
var filenameKeywords = []struct {
	keyword  string
	category model.DocumentCategory
}{
	{"agreement", model.DocFinanceAgreement},
	{"contract", model.DocFinanceAgreement},
	{"finance", model.DocFinanceAgreement},
	{"statement", model.DocBankStatement},
	{"bank", model.DocBankStatement},
	{"letter", model.DocCorrespondence},
	{"email", model.DocCorrespondence},
	{"response", model.DocCorrespondence},
}

// BuildExtractionTask returns the extraction task for an artifact. An
// explicit caller-supplied category wins; otherwise the category is
// inferred from the filename; the generic task is the total fallback.
// Pure function, always succeeds.
func BuildExtractionTask(explicit string, filename string) model.ExtractionTask {
	category := model.DocGeneric

	if _, ok := taskPrompts[model.DocumentCategory(explicit)]; ok && explicit != "" {
		category = model.DocumentCategory(explicit)
	} else if inferred, ok := inferFromFilename(filename); ok {
		category = inferred
	}

	return model.ExtractionTask{
		Category: category,
		Prompt:   taskPrompts[category],
		Schema:   taskSchemas[category],
	}
}

// NarrativeTask returns the extraction task for the free-text narrative.
func NarrativeTask() model.ExtractionTask {
	return model.ExtractionTask{
		Category: model.DocNarrative,
		Prompt:   taskPrompts[model.DocNarrative],
		Schema:   taskSchemas[model.DocNarrative],
	}
}

func inferFromFilename(filename string) (model.DocumentCategory, bool) {
	base := strings.ToLower(filepath.Base(filename))
	for _, kw := range filenameKeywords {
		if strings.Contains(base, kw.keyword) {
			return kw.category, true
		}
	}
	return "", false
}
