package domain

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Database feature identifiers.
const (
	FeatureUser   = "user"
	FeatureGridFS = "gridfs"
	FeatureCombo  = "combo"
)

type FrontendService struct {
	Tier  string `json:"tier" bson:"tier" validate:"required,oneof=modern animations everything"`
	Price int64  `json:"price" bson:"price"`
}

// BackendService with an empty Tier means no backend was selected.
type BackendService struct {
	Tier  string `json:"tier" bson:"tier" validate:"omitempty,oneof=modern premium"`
	Price int64  `json:"price" bson:"price"`
}

type DatabaseService struct {
	Features []string `json:"features" bson:"features" validate:"dive,oneof=user gridfs combo"`
	Price    int64    `json:"price" bson:"price"`
}

type PaymentService struct {
	Included bool  `json:"included" bson:"included"`
	Price    int64 `json:"price" bson:"price"`
}

// Services is the four-group bundle, each group carrying its resolved price.
type Services struct {
	Frontend FrontendService `json:"frontend" bson:"frontend"`
	Backend  BackendService  `json:"backend" bson:"backend"`
	Database DatabaseService `json:"database" bson:"database"`
	Payment  PaymentService  `json:"payment" bson:"payment"`
}

type Order struct {
	ID              string    `json:"id" bson:"_id"`
	ClientName      string    `json:"clientName" bson:"clientName"`
	ClientEmail     string    `json:"clientEmail" bson:"clientEmail"`
	ClientPhone     string    `json:"clientPhone" bson:"clientPhone"`
	Services        Services  `json:"services" bson:"services"`
	TotalPrice      int64     `json:"totalPrice" bson:"totalPrice"`
	BusinessSummary string    `json:"businessSummary" bson:"businessSummary"`
	AdditionalInfo  string    `json:"additionalInfo" bson:"additionalInfo"`
	Status          Status    `json:"status" bson:"status"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OrderInput is the raw public submission. TotalPrice is advisory only.
type OrderInput struct {
	ClientName      string   `json:"clientName" validate:"required,min=2,max=100,person_name"`
	ClientEmail     string   `json:"clientEmail" validate:"required,email"`
	ClientPhone     string   `json:"clientPhone" validate:"required,mobile_in"`
	Services        Services `json:"services"`
	TotalPrice      *float64 `json:"totalPrice,omitempty"`
	BusinessSummary string   `json:"businessSummary" validate:"max=2000"`
	AdditionalInfo  string   `json:"additionalInfo" validate:"max=2000"`
}
