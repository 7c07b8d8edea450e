// Package templates holds the immutable per-category reference data used
// by the intake pipeline: legal argument guidance, evidence checklists,
// default follow-up questions and the fact display order. The data is
// embedded and loaded once at process start.
package templates

import (
	"embed"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/Kofibk/icomplain.ai-sub000/internal/model"
)

//go:embed data/*.yaml
var dataFS embed.FS

// FactSpec is one entry in the fixed fact display order.
type FactSpec struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// Library is the loaded, read-only template data.
type Library struct {
	legalArguments map[model.Category]string
	checklists     map[model.Category][]string
	common         []string
	followUps      map[model.Category][]model.FollowUpQuestion
	factOrder      []FactSpec
	factLabels     map[string]string

	titleCaser cases.Caser
}

type checklistFile struct {
	Common     []string                    `yaml:"common"`
	Categories map[model.Category][]string `yaml:"categories"`
}

// Load parses the embedded template data. Called once at startup; the
// returned Library is safe for concurrent reads.
func Load() (*Library, error) {
	lib := &Library{
		titleCaser: cases.Title(language.BritishEnglish),
	}

	raw, err := dataFS.ReadFile("data/legal_arguments.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "templates: read legal arguments")
	}
	if err := yaml.Unmarshal(raw, &lib.legalArguments); err != nil {
		return nil, eris.Wrap(err, "templates: parse legal arguments")
	}

	raw, err = dataFS.ReadFile("data/checklists.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "templates: read checklists")
	}
	var cl checklistFile
	if err := yaml.Unmarshal(raw, &cl); err != nil {
		return nil, eris.Wrap(err, "templates: parse checklists")
	}
	lib.common = cl.Common
	lib.checklists = cl.Categories

	raw, err = dataFS.ReadFile("data/follow_ups.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "templates: read follow ups")
	}
	if err := yaml.Unmarshal(raw, &lib.followUps); err != nil {
		return nil, eris.Wrap(err, "templates: parse follow ups")
	}

	raw, err = dataFS.ReadFile("data/fact_order.yaml")
	if err != nil {
		return nil, eris.Wrap(err, "templates: read fact order")
	}
	if err := yaml.Unmarshal(raw, &lib.factOrder); err != nil {
		return nil, eris.Wrap(err, "templates: parse fact order")
	}

	lib.factLabels = make(map[string]string, len(lib.factOrder))
	for _, spec := range lib.factOrder {
		lib.factLabels[spec.Key] = spec.Label
	}

	for _, c := range model.Categories() {
		if _, ok := lib.legalArguments[c]; !ok {
			return nil, eris.Errorf("templates: missing legal argument for category %s", c)
		}
		if _, ok := lib.checklists[c]; !ok {
			return nil, eris.Errorf("templates: missing checklist for category %s", c)
		}
	}

	return lib, nil
}

// LegalArgument returns the argument guidance for a category, falling
// back to the generic text for anything outside the closed set.
func (l *Library) LegalArgument(c model.Category) string {
	if text, ok := l.legalArguments[c]; ok {
		return text
	}
	return l.legalArguments[model.CategoryOther]
}

// Checklist returns the evidence checklist for a category: the
// category-specific hints followed by the common items, with exact-string
// duplicates removed.
func (l *Library) Checklist(c model.Category) []string {
	items, ok := l.checklists[c]
	if !ok {
		items = l.checklists[model.CategoryOther]
	}

	seen := make(map[string]bool, len(items)+len(l.common))
	out := make([]string, 0, len(items)+len(l.common))
	for _, item := range append(append([]string{}, items...), l.common...) {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// DefaultFollowUps returns the fixed default question list for a
// category, truncated to the display cap. Categories without defaults
// return nil.
func (l *Library) DefaultFollowUps(c model.Category) []model.FollowUpQuestion {
	qs := l.followUps[c]
	if len(qs) > model.MaxFollowUpQuestions {
		qs = qs[:model.MaxFollowUpQuestions]
	}
	return qs
}

// FactOrder returns the fixed display ordering for extracted facts.
func (l *Library) FactOrder() []FactSpec {
	return l.factOrder
}

// FactLabel returns the display label for a fact key, deriving a
// title-cased label from the key for anything not in the declared order.
func (l *Library) FactLabel(key string) string {
	if label, ok := l.factLabels[key]; ok {
		return label
	}
	words := strings.ReplaceAll(key, "_", " ")
	return l.titleCaser.String(words)
}
