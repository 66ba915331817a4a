// Package intake drives the three-step quote form: client details, service
// selection, review. Every price it shows comes from the pricing package, the
// same calculator the order service uses on submit.
package intake

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"frieren/internal/domain"
	"frieren/internal/pricing"
	"frieren/internal/validate"
)

type Step int

const (
	StepClient Step = iota + 1
	StepServices
	StepReview
)

// Form is the client-side state of one quote. The zero value is not usable;
// call New.
type Form struct {
	Step    Step              `json:"step"`
	Client  Client            `json:"client"`
	Sel     pricing.Selection `json:"-"`
	Errors  map[string]string `json:"errors,omitempty"`
	catalog pricing.Catalog
}

type Client struct {
	Name            string `json:"clientName"`
	Email           string `json:"clientEmail"`
	Phone           string `json:"clientPhone"`
	BusinessSummary string `json:"businessSummary"`
	AdditionalInfo  string `json:"additionalInfo"`
}

func New(c pricing.Catalog) *Form {
	return &Form{Step: StepClient, Sel: pricing.Selection{Features: []string{}}, catalog: c}
}

func (f *Form) SetFrontend(tier string) { f.Sel.Frontend = tier }

// SetBackend selects a backend tier; "" clears it.
func (f *Form) SetBackend(tier string) { f.Sel.Backend = tier }

func (f *Form) ToggleFeature(feature string, checked bool) {
	f.Sel.Features = pricing.ToggleFeature(f.Sel.Features, feature, checked)
}

func (f *Form) SetPayment(on bool) { f.Sel.Payment = on }

func (f *Form) BackendRequired() bool { return f.Sel.BackendRequired() }

// Priced returns the running breakdown, ignoring identifiers the catalog does
// not know.
func (f *Form) Priced() (domain.Services, int64) {
	return f.catalog.Price(f.catalog.Known(f.Sel))
}

func (f *Form) Total() int64 {
	_, t := f.Priced()
	return t
}

// ValidateStep checks one step and records the errors on the form.
func (f *Form) ValidateStep(s Step) bool {
	errs := map[string]string{}
	switch s {
	case StepClient:
		if _, ok := validate.PersonName(f.Client.Name); !ok {
			name := strings.TrimSpace(f.Client.Name)
			switch n := utf8.RuneCountInString(name); {
			case n == 0:
				errs["clientName"] = "Client name is required"
			case n < validate.NameMin:
				errs["clientName"] = fmt.Sprintf("Name must be at least %d characters", validate.NameMin)
			case n > validate.NameMax:
				errs["clientName"] = fmt.Sprintf("Name cannot exceed %d characters", validate.NameMax)
			default:
				errs["clientName"] = "Name can only contain letters and spaces"
			}
		}
		if _, ok := validate.Email(f.Client.Email); !ok {
			errs["clientEmail"] = "Please enter a valid email address"
		}
		if _, ok := validate.Phone(f.Client.Phone); !ok {
			errs["clientPhone"] = "Please enter a valid 10-digit Indian phone number"
		}
		if _, ok := validate.FreeText(f.Client.BusinessSummary); !ok {
			errs["businessSummary"] = "Business summary cannot exceed 2000 characters"
		}
		if _, ok := validate.FreeText(f.Client.AdditionalInfo); !ok {
			errs["additionalInfo"] = "Additional info cannot exceed 2000 characters"
		}
	case StepServices:
		if _, ok := f.catalog.Frontend[f.Sel.Frontend]; !ok {
			errs["services.frontend"] = "Please select a frontend option"
		}
		if _, ok := f.catalog.Backend[f.Sel.Backend]; f.Sel.Backend != "" && !ok {
			errs["services.backend"] = "Unknown backend option"
		} else if f.BackendRequired() && f.Sel.Backend == "" {
			errs["services.backend"] = "Backend is required when database features or payment integration is selected"
		}
		for _, ft := range f.Sel.Features {
			if _, ok := f.catalog.Database[ft]; !ok {
				errs["services.database"] = "Unknown database feature"
			}
		}
	}
	f.Errors = errs
	return len(errs) == 0
}

// Next advances when the current step is valid.
func (f *Form) Next() bool {
	if f.Step >= StepReview || !f.ValidateStep(f.Step) {
		return false
	}
	f.Step++
	return true
}

func (f *Form) Back() {
	if f.Step > StepClient {
		f.Step--
	}
	f.Errors = nil
}

// Submission builds the order body. Services are re-validated first; on
// failure the form returns to the services step.
func (f *Form) Submission() (domain.OrderInput, bool) {
	if !f.ValidateStep(StepClient) {
		f.Step = StepClient
		return domain.OrderInput{}, false
	}
	if !f.ValidateStep(StepServices) {
		f.Step = StepServices
		return domain.OrderInput{}, false
	}
	priced, total := f.Priced()
	claimed := float64(total)
	return domain.OrderInput{
		ClientName:      f.Client.Name,
		ClientEmail:     f.Client.Email,
		ClientPhone:     f.Client.Phone,
		Services:        priced,
		TotalPrice:      &claimed,
		BusinessSummary: f.Client.BusinessSummary,
		AdditionalInfo:  f.Client.AdditionalInfo,
	}, true
}
