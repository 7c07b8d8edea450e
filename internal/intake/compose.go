package intake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
	"github.com/Kofibk/icomplain.ai-sub000/internal/templates"
)

// Composer assembles the letter generation context and the outward
// intake result. Pure formatting over already-resolved data: no
// inference, no external calls, identical output for identical input.
type Composer struct {
	lib *templates.Library
}

// NewComposer builds a Composer over the loaded template library.
func NewComposer(lib *templates.Library) *Composer {
	return &Composer{lib: lib}
}

// Compose builds the complete generation context for a finalized
// profile. The precedent section is omitted entirely when no precedent
// was found.
func (c *Composer) Compose(profile *model.ComplaintProfile, precedent model.PrecedentContext) model.LetterContext {
	ctx := model.LetterContext{
		Category:          profile.Category,
		LegalArgument:     c.lib.LegalArgument(profile.Category),
		FactsRendered:     c.renderFacts(profile.ExtractedFacts),
		KeyIssues:         append([]string{}, profile.KeyIssues...),
		EvidenceChecklist: c.lib.Checklist(profile.Category),
	}

	if !precedent.Empty() {
		ctx.PrecedentRendered = renderPrecedent(precedent)
	}

	return ctx
}

// Result produces the outward contract handed to the session layer.
func (c *Composer) Result(profile *model.ComplaintProfile, letterCtx model.LetterContext) *model.IntakeResult {
	return &model.IntakeResult{
		Category:           profile.Category,
		CategoryLabel:      profile.Category.Label(),
		Confidence:         profile.Confidence,
		KeyIssues:          append([]string{}, profile.KeyIssues...),
		SuggestedQuestions: append([]model.FollowUpQuestion{}, profile.FollowUpQuestions...),
		ExtractedFacts:     c.factPairs(profile.ExtractedFacts),
		MissingInformation: append([]string{}, profile.MissingInformation...),
		LetterContext:      &letterCtx,
	}
}

// factPairs renders extractedFacts in the fixed display order: declared
// identity and category facts first, then any remaining keys in sorted
// order. Never map iteration order.
func (c *Composer) factPairs(facts map[string]any) []model.FactPair {
	pairs := make([]model.FactPair, 0, len(facts))
	rendered := make(map[string]bool, len(facts))

	for _, spec := range c.lib.FactOrder() {
		value, ok := facts[spec.Key]
		if !ok {
			continue
		}
		pairs = append(pairs, model.FactPair{Label: spec.Label, Value: formatFactValue(value)})
		rendered[spec.Key] = true
	}

	rest := make([]string, 0, len(facts))
	for key := range facts {
		if !rendered[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		pairs = append(pairs, model.FactPair{Label: c.lib.FactLabel(key), Value: formatFactValue(facts[key])})
	}

	return pairs
}

func (c *Composer) renderFacts(facts map[string]any) string {
	pairs := c.factPairs(facts)
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.Label)
		b.WriteString(": ")
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderPrecedent(pc model.PrecedentContext) string {
	var b strings.Builder
	b.WriteString("Relevant precedents with successful outcomes:\n")
	for i, s := range pc.Summaries {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, s.Summary)
		if len(s.SuccessfulArguments) > 0 {
			b.WriteString("   Arguments that succeeded: ")
			b.WriteString(strings.Join(s.SuccessfulArguments, "; "))
			b.WriteString("\n")
		}
		if len(s.LegalReferences) > 0 {
			b.WriteString("   Legal references: ")
			b.WriteString(strings.Join(s.LegalReferences, "; "))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatFactValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%.2f", val)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprintf("%v", val)
	}
}
