package intake

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/templates"
)

// The aggregator is the single serialization point of the pipeline:
// Merge is applied once per RawAnalysisResult, in completion order, with
// the profile exclusively owned by the caller. Completion order is not
// upload order, and the narrative override below is order-sensitive, so
// the final category can depend on which analysis completes last. That
// nondeterminism is deliberate and must not be "fixed" into a
// trust-weighted merge.

// defaultFinanceConfidence is used when a financing document reports no
// confidence of its own.
const defaultFinanceConfidence = 70

// stressIssueTag prefixes key issues derived from bank statement stress
// indicators.
const stressIssueTag = "Financial stress: "

// metaFields are narrative payload keys that steer classification and
// never become extracted facts.
var metaFields = map[string]bool{
	"complaint_type":            true,
	"complaint_type_confidence": true,
}

// Merge folds one analysis result into the profile. Results with status
// error contribute nothing. The profile is mutated in place and
// returned.
func Merge(profile *model.ComplaintProfile, result model.RawAnalysisResult) *model.ComplaintProfile {
	if result.Status != model.AnalysisDone {
		return profile
	}

	guess := strings.ToLower(result.DocumentTypeGuess)

	if isFinancingGuess(guess) {
		profile.Category = model.CategoryMotorFinance
		reported := result.Confidence
		if reported == 0 {
			reported = defaultFinanceConfidence
		}
		profile.Confidence = maxInt(profile.Confidence, reported)

		if disclosed, ok := result.Fields["commission_disclosed"].(string); ok {
			switch strings.ToLower(disclosed) {
			case "no", "none", "not disclosed":
				profile.KeyIssues = appendUnique(profile.KeyIssues,
					"Commission on the finance agreement was not disclosed")
			case "partial", "partially":
				profile.KeyIssues = appendUnique(profile.KeyIssues,
					"Commission on the finance agreement was only partially disclosed")
			}
		}
	}

	if isBankStatementGuess(guess) {
		stressed := false
		for _, indicator := range result.IssuesFound {
			profile.KeyIssues = appendUnique(profile.KeyIssues, stressIssueTag+indicator)
			stressed = true
		}
		if stressed && profile.Category == model.CategoryOther {
			profile.Category = model.CategoryUnaffordableLending
		}
	} else {
		for _, issue := range result.IssuesFound {
			profile.KeyIssues = appendUnique(profile.KeyIssues, issue)
		}
	}

	// A narrative reporting its own non-default complaint type overrides
	// any document-derived category: it reflects the user's own framing.
	if result.SourceKind == model.SourceNarrative {
		if ct, ok := result.Fields["complaint_type"].(string); ok {
			reported := model.Category(ct)
			if reported.Valid() && reported != model.CategoryOther {
				if profile.Category != reported {
					zap.L().Debug("narrative overrides category",
						zap.String("from", string(profile.Category)),
						zap.String("to", string(reported)),
					)
				}
				profile.Category = reported
				profile.Confidence = maxInt(profile.Confidence, result.Confidence)
			}
		}
	}

	// Last merge wins per fact key.
	for key, value := range result.Fields {
		if metaFields[key] {
			continue
		}
		profile.ExtractedFacts[key] = value
	}

	for _, missing := range result.MissingInformation {
		profile.MissingInformation = appendUnique(profile.MissingInformation, missing)
	}

	for _, q := range result.FollowUpQuestions {
		if len(profile.FollowUpQuestions) >= model.MaxFollowUpQuestions {
			break
		}
		profile.FollowUpQuestions = append(profile.FollowUpQuestions, q)
	}

	if profile.Confidence > model.MaxConfidence {
		profile.Confidence = model.MaxConfidence
	}

	return profile
}

// Finalize applies the display caps and synthesizes default follow-up
// questions when every merge yielded none. After Finalize the profile is
// read-only.
func Finalize(profile *model.ComplaintProfile, lib *templates.Library) *model.ComplaintProfile {
	if profile.Confidence > model.MaxConfidence {
		profile.Confidence = model.MaxConfidence
	}
	if len(profile.KeyIssues) > model.MaxKeyIssues {
		profile.KeyIssues = profile.KeyIssues[:model.MaxKeyIssues]
	}
	if len(profile.MissingInformation) > model.MaxMissingInformation {
		profile.MissingInformation = profile.MissingInformation[:model.MaxMissingInformation]
	}
	if len(profile.FollowUpQuestions) > model.MaxFollowUpQuestions {
		profile.FollowUpQuestions = profile.FollowUpQuestions[:model.MaxFollowUpQuestions]
	}

	if len(profile.FollowUpQuestions) == 0 {
		profile.FollowUpQuestions = lib.DefaultFollowUps(profile.Category)
	}

	return profile
}

func isFinancingGuess(guess string) bool {
	return strings.Contains(guess, "financ") ||
		strings.Contains(guess, "agreement") ||
		strings.Contains(guess, "loan")
}

func isBankStatementGuess(guess string) bool {
	return strings.Contains(guess, "bank") || strings.Contains(guess, "statement")
}

// appendUnique appends item unless an exact-string duplicate is already
// present, preserving first-seen order.
func appendUnique(items []string, item string) []string {
	for _, existing := range items {
		if existing == item {
			return items
		}
	}
	return append(items, item)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
