package pricing

import (
	"slices"

	"frieren/internal/domain"
)

// Selection is the unpriced shape of a bundle.
type Selection struct {
	Frontend string
	Backend  string
	Features []string
	Payment  bool
}

// SelectionOf strips prices from a submitted bundle.
func SelectionOf(s domain.Services) Selection {
	return Selection{
		Frontend: s.Frontend.Tier,
		Backend:  s.Backend.Tier,
		Features: slices.Clone(s.Database.Features),
		Payment:  s.Payment.Included,
	}
}

// NormalizeFeatures dedupes the set and collapses user+gridfs (or any set
// containing combo) into {combo}. Unknown identifiers are kept so validation
// can report them.
func NormalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	for _, f := range features {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if slices.Contains(out, domain.FeatureCombo) ||
		(slices.Contains(out, domain.FeatureUser) && slices.Contains(out, domain.FeatureGridFS)) {
		rest := []string{domain.FeatureCombo}
		for _, f := range out {
			if f != domain.FeatureCombo && f != domain.FeatureUser && f != domain.FeatureGridFS {
				rest = append(rest, f)
			}
		}
		return rest
	}
	slices.Sort(out)
	return out
}

// ToggleFeature applies one checkbox change the way the intake form does.
// Checking combo replaces the set; checking an individual feature drops combo.
func ToggleFeature(features []string, feature string, checked bool) []string {
	if feature == domain.FeatureCombo {
		if checked {
			return []string{domain.FeatureCombo}
		}
		return []string{}
	}
	out := make([]string, 0, len(features)+1)
	for _, f := range features {
		if f == feature || (checked && f == domain.FeatureCombo) {
			continue
		}
		out = append(out, f)
	}
	if checked {
		out = append(out, feature)
	}
	return NormalizeFeatures(out)
}

// BackendRequired reports whether the selection needs a backend tier.
func (s Selection) BackendRequired() bool {
	return len(s.Features) > 0 || s.Payment
}

// Price resolves every group against the catalog and returns the priced
// bundle with its total. It is pure: the input is not modified. Tiers must
// already be validated; an unknown identifier panics.
func (c Catalog) Price(sel Selection) (domain.Services, int64) {
	var (
		out   domain.Services
		total int64
	)

	if sel.Frontend != "" {
		out.Frontend = domain.FrontendService{Tier: sel.Frontend, Price: c.mustFrontend(sel.Frontend)}
		total += out.Frontend.Price
	}

	if sel.Backend != "" {
		out.Backend = domain.BackendService{Tier: sel.Backend, Price: c.mustBackend(sel.Backend)}
		total += out.Backend.Price
	}

	features := NormalizeFeatures(sel.Features)
	out.Database.Features = features
	if slices.Contains(features, domain.FeatureCombo) {
		out.Database.Price = c.mustFeature(domain.FeatureCombo)
	} else {
		for _, f := range features {
			out.Database.Price += c.mustFeature(f)
		}
	}
	total += out.Database.Price

	if sel.Payment {
		out.Payment = domain.PaymentService{Included: true, Price: c.Payment}
		total += out.Payment.Price
	}

	return out, total
}

// Total is Price without the breakdown.
func (c Catalog) Total(sel Selection) int64 {
	_, t := c.Price(sel)
	return t
}
