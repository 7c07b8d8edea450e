package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		want     bool
	}{
		{"motor finance", CategoryMotorFinance, true},
		{"section 75", CategorySection75, true},
		{"unaffordable lending", CategoryUnaffordableLending, true},
		{"holiday park", CategoryHolidayPark, true},
		{"other", CategoryOther, true},
		{"arbitrary string", Category("pcp"), false},
		{"empty", Category(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.category.Valid())
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Motor Finance Commission", CategoryMotorFinance.Label())
	assert.Equal(t, "Section 75 Credit Card Claim", CategorySection75.Label())

	// unknown categories fall back to the generic label
	assert.Equal(t, "General Complaint", Category("nonsense").Label())
}

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategorySection75, ParseCategory("section75"))
	assert.Equal(t, CategoryOther, ParseCategory("pcp"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestCategories_ClosedSet(t *testing.T) {
	all := Categories()
	assert.Len(t, all, 5)
	for _, c := range all {
		assert.True(t, c.Valid())
	}
}

func TestNewProfile(t *testing.T) {
	t.Run("no hint", func(t *testing.T) {
		p := NewProfile("")
		assert.Equal(t, CategoryOther, p.Category)
		assert.NotNil(t, p.ExtractedFacts)
		assert.Zero(t, p.Confidence)
	})

	t.Run("valid hint", func(t *testing.T) {
		p := NewProfile("section75")
		assert.Equal(t, CategorySection75, p.Category)
	})

	t.Run("unknown hint falls back to default", func(t *testing.T) {
		p := NewProfile("pcp")
		assert.Equal(t, CategoryOther, p.Category)
	})

	t.Run("explicit other stays the default", func(t *testing.T) {
		p := NewProfile("other")
		assert.Equal(t, CategoryOther, p.Category)
	})
}
