package conditions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Same(t, c, Default())
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, []string{
		"diabetes", "high_blood_pressure", "heart_disease", "kidney_disease", "celiac_disease",
		"lactose_intolerance", "high_cholesterol", "gout", "gerd", "ibs",
	}, c.IDs())

	for _, id := range c.IDs() {
		r, ok := c.Lookup(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Avoid)
		assert.NotEmpty(t, r.Recommend)
		assert.NotEmpty(t, r.Description)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
		found  bool
	}{
		{name: "canonical id", id: "diabetes", wantID: "diabetes", found: true},
		{name: "display name", id: "High Blood Pressure", wantID: "high_blood_pressure", found: true},
		{name: "hyphenated", id: "celiac-disease", wantID: "celiac_disease", found: true},
		{name: "upper case acronym", id: "GERD", wantID: "gerd", found: true},
		{name: "surrounding space", id: "  ibs ", wantID: "ibs", found: true},
		{name: "unknown", id: "scurvy", found: false},
		{name: "empty", id: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Default().Lookup(tt.id)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, r.ID)
		})
	}
}

func TestDescribe(t *testing.T) {
	c := Default()

	rules := c.Describe([]string{"Gout", "scurvy", "diabetes", "gout"})
	require.Len(t, rules, 2)
	assert.Equal(t, "gout", rules[0].ID)
	assert.Equal(t, "Gout", rules[0].Name)
	assert.Equal(t, "diabetes", rules[1].ID)

	assert.Empty(t, c.Describe(nil))
	assert.Empty(t, c.Describe([]string{"unknown"}))
}

func TestDescribeReturnsCopies(t *testing.T) {
	c := Default()
	rules := c.Describe([]string{"diabetes"})
	require.Len(t, rules, 1)
	rules[0].Avoid[0] = "mutated"

	again, _ := c.Lookup("diabetes")
	assert.Equal(t, "sugar", again.Avoid[0])
}

func TestKnown(t *testing.T) {
	got := Default().Known([]string{"Lactose Intolerance", "made_up", "IBS"})
	assert.Equal(t, []string{"lactose_intolerance", "ibs"}, got)
	assert.Empty(t, Default().Known(nil))
}

func TestAvoidTerms(t *testing.T) {
	c := Default()

	// processed meats appears under both conditions
	terms := c.AvoidTerms([]string{"high_blood_pressure", "heart_disease"})
	assert.Equal(t, []string{
		"salt", "processed meats", "pickles", "canned soups", "fast food", "bacon",
		"saturated fats", "trans fats", "fried foods", "butter",
	}, terms)

	assert.Empty(t, c.AvoidTerms([]string{"unknown"}))
}

func TestNewCatalog(t *testing.T) {
	t.Run("duplicate ids rejected", func(t *testing.T) {
		_, err := NewCatalog([]Rule{{ID: "a_b"}, {ID: "A B"}})
		assert.Error(t, err)
	})

	t.Run("empty id rejected", func(t *testing.T) {
		_, err := NewCatalog([]Rule{{ID: " ", Name: "blank"}})
		assert.Error(t, err)
	})

	t.Run("name defaults to id", func(t *testing.T) {
		c, err := NewCatalog([]Rule{{ID: "Low Iron", Avoid: []string{"tea"}}})
		require.NoError(t, err)
		r, ok := c.Lookup("low iron")
		require.True(t, ok)
		assert.Equal(t, "low_iron", r.ID)
		assert.Equal(t, "low_iron", r.Name)
	})

	t.Run("input slices are not retained", func(t *testing.T) {
		avoid := []string{"tea"}
		c, err := NewCatalog([]Rule{{ID: "low_iron", Avoid: avoid}})
		require.NoError(t, err)
		avoid[0] = "coffee"
		r, _ := c.Lookup("low_iron")
		assert.Equal(t, []string{"tea"}, r.Avoid)
	})
}
