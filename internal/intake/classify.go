package intake

import (
	"go.uber.org/zap"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

// Classify confirms the category chosen during aggregation. No model
// call is made here: classification is a derived property of the merge
// rules, which keeps this step stateless and deterministic. Anything
// outside the closed set (which would indicate a bug upstream) is
// coerced to the default category.
func Classify(profile *model.ComplaintProfile) *model.ComplaintProfile {
	if !profile.Category.Valid() {
		zap.L().Warn("profile carried a category outside the closed set",
			zap.String("category", string(profile.Category)),
		)
		profile.Category = model.CategoryOther
	}

	zap.L().Info("complaint classified",
		zap.String("category", string(profile.Category)),
		zap.Int("confidence", profile.Confidence),
		zap.Int("key_issues", len(profile.KeyIssues)),
		zap.Int("facts", len(profile.ExtractedFacts)),
	)

	return profile
}
