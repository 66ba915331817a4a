// Package pricing holds the fixed price list and the bundle calculator used by
// both the intake form and the order service.
package pricing

import (
	"fmt"

	"frieren/internal/domain"
)

// Catalog is the single source of truth for every price in the system.
type Catalog struct {
	Frontend map[string]int64
	Backend  map[string]int64
	Database map[string]int64
	Payment  int64
}

// Default is the current price list (INR).
var Default = Catalog{
	Frontend: map[string]int64{
		"modern":     3000,
		"animations": 6000,
		"everything": 9000,
	},
	Backend: map[string]int64{
		"modern":  2500,
		"premium": 5000,
	},
	Database: map[string]int64{
		domain.FeatureUser:   3000,
		domain.FeatureGridFS: 2500,
		domain.FeatureCombo:  5000,
	},
	Payment: 3500,
}

var (
	FrontendTiers    = []string{"modern", "animations", "everything"}
	BackendTiers     = []string{"modern", "premium"}
	DatabaseFeatures = []string{domain.FeatureUser, domain.FeatureGridFS, domain.FeatureCombo}
)

// Check reports a configuration error when a known tier is missing a price or
// the combo no longer undercuts its parts.
func (c Catalog) Check() error {
	for _, t := range FrontendTiers {
		if _, ok := c.Frontend[t]; !ok {
			return fmt.Errorf("pricing: frontend tier %q has no price", t)
		}
	}
	for _, t := range BackendTiers {
		if _, ok := c.Backend[t]; !ok {
			return fmt.Errorf("pricing: backend tier %q has no price", t)
		}
	}
	for _, f := range DatabaseFeatures {
		if _, ok := c.Database[f]; !ok {
			return fmt.Errorf("pricing: database feature %q has no price", f)
		}
	}
	if c.Database[domain.FeatureCombo] >= c.Database[domain.FeatureUser]+c.Database[domain.FeatureGridFS] {
		return fmt.Errorf("pricing: combo price %d must be below user+gridfs", c.Database[domain.FeatureCombo])
	}
	return nil
}

// Known drops every identifier the catalog cannot price, so a partial or
// tampered selection can still be previewed.
func (c Catalog) Known(sel Selection) Selection {
	if _, ok := c.Frontend[sel.Frontend]; !ok {
		sel.Frontend = ""
	}
	if _, ok := c.Backend[sel.Backend]; !ok {
		sel.Backend = ""
	}
	known := make([]string, 0, len(sel.Features))
	for _, f := range sel.Features {
		if _, ok := c.Database[f]; ok {
			known = append(known, f)
		}
	}
	sel.Features = known
	return sel
}

func (c Catalog) mustFrontend(tier string) int64 {
	p, ok := c.Frontend[tier]
	if !ok {
		panic(fmt.Sprintf("pricing: unknown frontend tier %q", tier))
	}
	return p
}

func (c Catalog) mustBackend(tier string) int64 {
	p, ok := c.Backend[tier]
	if !ok {
		panic(fmt.Sprintf("pricing: unknown backend tier %q", tier))
	}
	return p
}

func (c Catalog) mustFeature(f string) int64 {
	p, ok := c.Database[f]
	if !ok {
		panic(fmt.Sprintf("pricing: unknown database feature %q", f))
	}
	return p
}
