package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"frieren/internal/domain"
	"frieren/internal/pricing"
)

const tagBackendRequired = "backend_required"

// ValidOrder is a submission that passed every field and cross-field rule.
// Features are already collapsed; ClaimedTotal is whatever the client sent.
type ValidOrder struct {
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	Selection       pricing.Selection
	BusinessSummary string
	AdditionalInfo  string
	ClaimedTotal    *float64
}

var orders = newOrderValidator()

func newOrderValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		return rePersonName.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile_in", func(fl validator.FieldLevel) bool {
		return rePhoneIN.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(backendRule, domain.Services{})
	return v
}

// backendRule: a backend tier is required iff database features or payment
// integration are selected.
func backendRule(sl validator.StructLevel) {
	s := sl.Current().Interface().(domain.Services)
	if pricing.SelectionOf(s).BackendRequired() && s.Backend.Tier == "" {
		sl.ReportError(s.Backend, "backend", "Backend", tagBackendRequired, "")
	}
}

// Normalize trims the text fields, lower-cases the email and collapses the
// database feature set. Prices are left untouched.
func Normalize(in domain.OrderInput) domain.OrderInput {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientEmail = strings.ToLower(strings.TrimSpace(in.ClientEmail))
	in.ClientPhone = strings.TrimSpace(in.ClientPhone)
	in.BusinessSummary = strings.TrimSpace(in.BusinessSummary)
	in.AdditionalInfo = strings.TrimSpace(in.AdditionalInfo)
	in.Services.Frontend.Tier = strings.TrimSpace(in.Services.Frontend.Tier)
	in.Services.Backend.Tier = strings.TrimSpace(in.Services.Backend.Tier)
	in.Services.Database.Features = pricing.NormalizeFeatures(in.Services.Database.Features)
	return in
}

// Order validates a raw submission. It returns either a ValidOrder or a
// *domain.ValidationError keyed by field path, never both.
func Order(raw domain.OrderInput) (ValidOrder, error) {
	in := Normalize(raw)

	if err := orders.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ValidOrder{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			key := fieldKey(fe.Namespace())
			if _, seen := fields[key]; !seen {
				fields[key] = message(key, fe.Tag())
			}
		}
		return ValidOrder{}, &domain.ValidationError{Fields: fields}
	}

	return ValidOrder{
		ClientName:      in.ClientName,
		ClientEmail:     in.ClientEmail,
		ClientPhone:     in.ClientPhone,
		Selection:       pricing.SelectionOf(in.Services),
		BusinessSummary: in.BusinessSummary,
		AdditionalInfo:  in.AdditionalInfo,
		ClaimedTotal:    in.TotalPrice,
	}, nil
}

// fieldKey turns "OrderInput.services.database.features[1]" into
// "services.database" and "OrderInput.clientName" into "clientName".
func fieldKey(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		ns = rest
	}
	if strings.HasPrefix(ns, "services.") {
		parts := strings.SplitN(ns, ".", 3)
		group, _, _ := strings.Cut(parts[1], "[")
		return "services." + group
	}
	return ns
}

func message(key, tag string) string {
	switch key {
	case "clientName":
		switch tag {
		case "required":
			return "Client name is required"
		case "min":
			return "Name must be at least 2 characters"
		case "max":
			return "Name cannot exceed 100 characters"
		}
		return "Name can only contain letters and spaces"
	case "clientEmail":
		return "Please enter a valid email address"
	case "clientPhone":
		return "Please enter a valid 10-digit Indian phone number"
	case "services.frontend":
		return "Please select a frontend option"
	case "services.backend":
		if tag == tagBackendRequired {
			return "Backend is required when database features or payment integration is selected"
		}
		return "Unknown backend option"
	case "services.database":
		return "Unknown database feature"
	case "businessSummary":
		return "Business summary cannot exceed 2000 characters"
	case "additionalInfo":
		return "Additional info cannot exceed 2000 characters"
	}
	return "Invalid value"
}
