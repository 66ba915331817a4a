package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frieren/internal/domain"
	"frieren/internal/pricing"
)

func TestDefaultCatalogIsConsistent(t *testing.T) {
	require.NoError(t, pricing.Default.Check())
	db := pricing.Default.Database
	assert.Less(t, db[domain.FeatureCombo], db[domain.FeatureUser]+db[domain.FeatureGridFS])
}

func TestCheckRejectsComboWithoutDiscount(t *testing.T) {
	c := pricing.Catalog{
		Frontend: pricing.Default.Frontend,
		Backend:  pricing.Default.Backend,
		Database: map[string]int64{"user": 1000, "gridfs": 1000, "combo": 2000},
		Payment:  1,
	}
	assert.Error(t, c.Check())
}

func TestPriceScenarios(t *testing.T) {
	cases := []struct {
		name string
		sel  pricing.Selection
		want int64
	}{
		{"frontend only", pricing.Selection{Frontend: "modern"}, 3000},
		{"frontend with user feature", pricing.Selection{Frontend: "modern", Features: []string{"user"}}, 6000},
		{"full bundle collapses to combo", pricing.Selection{
			Frontend: "animations", Backend: "modern", Features: []string{"user", "gridfs"}, Payment: true,
		}, 17000},
		{"everything premium gridfs", pricing.Selection{Frontend: "everything", Backend: "premium", Features: []string{"gridfs"}}, 16500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, pricing.Default.Total(tc.sel))
		})
	}
}

func TestComboCollapseMatchesExplicitCombo(t *testing.T) {
	pairs := [][]string{
		{"user", "gridfs"},
		{"gridfs", "user"},
		{"user", "gridfs", "combo"},
		{"combo", "user"},
		{"user", "user", "gridfs"},
	}
	combo := pricing.Selection{Frontend: "modern", Backend: "modern", Features: []string{"combo"}}
	want := pricing.Default.Total(combo)
	for _, f := range pairs {
		sel := pricing.Selection{Frontend: "modern", Backend: "modern", Features: f}
		services, total := pricing.Default.Price(sel)
		assert.Equal(t, want, total, "features %v", f)
		assert.Equal(t, []string{"combo"}, services.Database.Features)
		assert.Equal(t, pricing.Default.Database["combo"], services.Database.Price)
	}
}

func TestPriceIsPureAndIdempotent(t *testing.T) {
	sel := pricing.Selection{Frontend: "modern", Backend: "premium", Features: []string{"user", "gridfs"}, Payment: true}
	first, t1 := pricing.Default.Price(sel)
	second, t2 := pricing.Default.Price(sel)
	assert.Equal(t, t1, t2)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"user", "gridfs"}, sel.Features, "input must not be modified")

	again, t3 := pricing.Default.Price(pricing.SelectionOf(first))
	assert.Equal(t, t1, t3)
	assert.Equal(t, first, again)
}

func TestPriceBreakdown(t *testing.T) {
	services, total := pricing.Default.Price(pricing.Selection{
		Frontend: "animations", Backend: "premium", Features: []string{"gridfs"}, Payment: true,
	})
	assert.Equal(t, int64(6000), services.Frontend.Price)
	assert.Equal(t, int64(5000), services.Backend.Price)
	assert.Equal(t, int64(2500), services.Database.Price)
	assert.Equal(t, int64(3500), services.Payment.Price)
	assert.Equal(t, int64(17000), total)

	empty, _ := pricing.Default.Price(pricing.Selection{Frontend: "modern"})
	assert.Equal(t, "", empty.Backend.Tier)
	assert.Zero(t, empty.Backend.Price)
	assert.Empty(t, empty.Database.Features)
	assert.False(t, empty.Payment.Included)
}

func TestToggleFeature(t *testing.T) {
	f := pricing.ToggleFeature(nil, "user", true)
	assert.Equal(t, []string{"user"}, f)

	f = pricing.ToggleFeature(f, "gridfs", true)
	assert.Equal(t, []string{"combo"}, f, "both individual features collapse to combo")

	f = pricing.ToggleFeature(f, "user", true)
	assert.Equal(t, []string{"user"}, f, "checking an individual feature drops combo")

	f = pricing.ToggleFeature(f, "combo", true)
	assert.Equal(t, []string{"combo"}, f)

	f = pricing.ToggleFeature(f, "combo", false)
	assert.Empty(t, f)

	f = pricing.ToggleFeature([]string{"user"}, "user", false)
	assert.Empty(t, f)
}

func TestBackendRequired(t *testing.T) {
	assert.False(t, pricing.Selection{Frontend: "modern"}.BackendRequired())
	assert.True(t, pricing.Selection{Frontend: "modern", Features: []string{"user"}}.BackendRequired())
	assert.True(t, pricing.Selection{Frontend: "modern", Payment: true}.BackendRequired())
}

func TestKnownDropsUnknownIdentifiers(t *testing.T) {
	sel := pricing.Default.Known(pricing.Selection{
		Frontend: "modern",
		Backend:  "enterprise",
		Features: []string{domain.FeatureUser, "blockchain"},
	})
	priced, total := pricing.Default.Price(sel)
	assert.Equal(t, int64(6000), total)
	assert.Empty(t, priced.Backend.Tier)
	assert.Equal(t, []string{domain.FeatureUser}, priced.Database.Features)

	_, total = pricing.Default.Price(pricing.Default.Known(pricing.Selection{}))
	assert.Zero(t, total)
}
