package model

// Category is the closed set of complaint classifications. Every profile
// carries exactly one; templates, checklists and precedent lookups are all
// keyed on it.
type Category string

const (
	CategoryMotorFinance        Category = "motor-finance-commission"
	CategorySection75           Category = "section75"
	CategoryUnaffordableLending Category = "unaffordable-lending"
	CategoryHolidayPark         Category = "holiday-park-misselling"
	CategoryOther               Category = "other"
)

// categoryLabels maps each category to its human-readable display label.
var categoryLabels = map[Category]string{
	CategoryMotorFinance:        "Motor Finance Commission",
	CategorySection75:           "Section 75 Credit Card Claim",
	CategoryUnaffordableLending: "Unaffordable Lending",
	CategoryHolidayPark:         "Holiday Park Mis-selling",
	CategoryOther:               "General Complaint",
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label for the category, falling back to the
// generic label for anything outside the closed set.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// ParseCategory maps a raw string onto the closed category set. Unknown
// values resolve to CategoryOther rather than erroring; the closed set is
// an invariant of the whole pipeline.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Categories returns every member of the closed set in a fixed order.
func Categories() []Category {
	return []Category{
		CategoryMotorFinance,
		CategorySection75,
		CategoryUnaffordableLending,
		CategoryHolidayPark,
		CategoryOther,
	}
}
