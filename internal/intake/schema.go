package intake

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// Extraction responses are loosely typed JSON from the model. Each task
// carries a schema so the untyped payload is validated once, at this
// boundary, before it becomes a RawAnalysisResult.

var confidenceSchema = map[string]any{
	"type":    "integer",
	"minimum": 0,
	"maximum": 100,
}

var stringOrNull = map[string]any{
	"type": []any{"string", "number", "null"},
}

var stringList = map[string]any{
	"type":  "array",
	"items": map[string]any{"type": "string"},
}

// taskSchemas maps each document category to the JSON schema its
// extraction response must satisfy.
var taskSchemas = map[model.DocumentCategory]map[string]any{
	model.DocFinanceAgreement: {
		"type":     "object",
		"required": []any{"documentType"},
		"properties": map[string]any{
			"documentType":         map[string]any{"type": "string"},
			"lender_name":          stringOrNull,
			"dealer_name":          stringOrNull,
			"agreement_number":     stringOrNull,
			"agreement_date":       stringOrNull,
			"finance_amount":       stringOrNull,
			"monthly_payment":      stringOrNull,
			"interest_rate":        stringOrNull,
			"commission_disclosed": stringOrNull,
			"issues":               stringList,
			"confidence":           confidenceSchema,
		},
	},
	model.DocBankStatement: {
		"type":     "object",
		"required": []any{"documentType"},
		"properties": map[string]any{
			"documentType":      map[string]any{"type": "string"},
			"account_holder":    stringOrNull,
			"statement_period":  stringOrNull,
			"overdraft_usage":   stringOrNull,
			"failed_payments":   map[string]any{"type": []any{"integer", "string", "null"}},
			"high_cost_credit":  stringOrNull,
			"stress_indicators": stringList,
			"confidence":        confidenceSchema,
		},
	},
	model.DocCorrespondence: {
		"type":     "object",
		"required": []any{"documentType"},
		"properties": map[string]any{
			"documentType": map[string]any{"type": "string"},
			"sender":       stringOrNull,
			"date":         stringOrNull,
			"subject":      stringOrNull,
			"key_points":   stringList,
			"admissions":   stringList,
			"confidence":   confidenceSchema,
		},
	},
	model.DocGeneric: {
		"type":     "object",
		"required": []any{"documentType"},
		"properties": map[string]any{
			"documentType": map[string]any{"type": "string"},
			"facts":        map[string]any{"type": "object"},
			"issues":       stringList,
			"confidence":   confidenceSchema,
		},
	},
	model.DocNarrative: {
		"type":     "object",
		"required": []any{"complaint_type"},
		"properties": map[string]any{
			"complaint_type":            map[string]any{"type": "string"},
			"complaint_type_confidence": confidenceSchema,
			"facts":                     map[string]any{"type": "object"},
			"issues":                    stringList,
			"missing":                   stringList,
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"question"},
					"properties": map[string]any{
						"question":  map[string]any{"type": "string"},
						"rationale": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

// validateAgainstSchema validates raw JSON against a task schema.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return eris.Wrap(err, "intake: marshal schema")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return eris.Wrap(err, "intake: add schema resource")
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return eris.Wrap(err, "intake: compile schema")
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "intake: unmarshal extraction payload")
	}
	if err := schema.Validate(v); err != nil {
		return eris.Wrap(err, "intake: payload does not match schema")
	}
	return nil
}
