package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func ruleInput() ShippingRuleInput {
	return ShippingRuleInput{
		Name:         "Southeast Economy",
		States:       []string{"SP", "RJ"},
		MinWeight:    0,
		MaxWeight:    5,
		Price:        decimal.RequireFromString("15"),
		DeliveryDays: 7,
	}
}

func TestNewShippingRule_Normalizes(t *testing.T) {
	in := ruleInput()
	in.Name = "  Southeast Economy "
	in.States = []string{" sp", "rj", "SP", ""}

	rule, err := NewShippingRule(in)
	require.NoError(t, err)
	require.Equal(t, "Southeast Economy", rule.Name)
	require.Equal(t, []string{"SP", "RJ"}, rule.States)
}

func TestNewShippingRule_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mut    func(in *ShippingRuleInput)
		field  string
		reason string
	}{
		{"name required", func(in *ShippingRuleInput) { in.Name = "" }, "name", "is required"},
		{"states required", func(in *ShippingRuleInput) { in.States = []string{} }, "states", "must have at least 1 entries"},
		{"state letters", func(in *ShippingRuleInput) { in.States = []string{"S1"} }, "states[0]", "must contain letters only"},
		{"min weight", func(in *ShippingRuleInput) { in.MinWeight = -0.5 }, "minWeight", "must be greater than or equal to 0"},
		{"bracket order", func(in *ShippingRuleInput) { in.MinWeight = 6 }, "maxWeight", "must be greater than or equal to minWeight"},
		{"price", func(in *ShippingRuleInput) { in.Price = decimal.RequireFromString("-0.01") }, "price", "must be greater than or equal to 0"},
		{"days", func(in *ShippingRuleInput) { in.DeliveryDays = 0 }, "deliveryDays", "must be greater than or equal to 1"},
		{"price scale", func(in *ShippingRuleInput) { in.Price = decimal.RequireFromString("15.005") }, "price", "must have at most 2 decimal places"},
		{"price too large", func(in *ShippingRuleInput) { in.Price = decimal.RequireFromString("123456789012.34") }, "price", "must be less than 10000000000"},
		{"price at bound", func(in *ShippingRuleInput) { in.Price = MaxRulePrice }, "price", "must be less than 10000000000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := ruleInput()
			tc.mut(&in)

			_, err := NewShippingRule(in)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, tc.field, ve.Field)
			require.Equal(t, tc.reason, ve.Reason)
		})
	}
}

func TestShippingRule_AppliesToInclusiveBracket(t *testing.T) {
	rule, err := NewShippingRule(ruleInput())
	require.NoError(t, err)

	require.True(t, rule.AppliesTo("SP", 0))
	require.True(t, rule.AppliesTo("RJ", 5))
	require.True(t, rule.AppliesTo("SP", 2.5))
	require.False(t, rule.AppliesTo("SP", 5.01))
	require.False(t, rule.AppliesTo("MG", 1))
}

func TestShippingRule_Option(t *testing.T) {
	rule, err := NewShippingRule(ruleInput())
	require.NoError(t, err)
	rule.ID = "abc"

	opt := rule.Option()
	require.Equal(t, "rule:abc", opt.ID)
	require.Equal(t, "Southeast Economy", opt.Name)
	require.True(t, opt.Price.Equal(decimal.RequireFromString("15")))
	require.Equal(t, 7, opt.DeliveryDays)
	require.Equal(t, SourceFallbackRule, opt.Source)
}

func TestShippingRulePatch_Apply(t *testing.T) {
	rule, err := NewShippingRule(ruleInput())
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		require.True(t, ShippingRulePatch{}.IsEmpty())
		_, err := ShippingRulePatch{}.Apply(*rule)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("merges onto a copy", func(t *testing.T) {
		maxW := 10.0
		merged, err := ShippingRulePatch{States: []string{"mg"}, MaxWeight: &maxW}.Apply(*rule)
		require.NoError(t, err)
		require.Equal(t, []string{"MG"}, merged.States)
		require.Equal(t, 10.0, merged.MaxWeight)
		require.Equal(t, rule.Name, merged.Name)
		require.Equal(t, []string{"SP", "RJ"}, rule.States)
		require.Equal(t, 5.0, rule.MaxWeight)
	})

	t.Run("revalidates", func(t *testing.T) {
		minW := 9.0
		_, err := ShippingRulePatch{MinWeight: &minW}.Apply(*rule)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestNewShippingRule_PriceFitsStorage(t *testing.T) {
	for _, p := range []string{"0", "15.5", "15.50", "9999999999.99"} {
		in := ruleInput()
		in.Price = decimal.RequireFromString(p)
		_, err := NewShippingRule(in)
		require.NoError(t, err, p)
	}
}
