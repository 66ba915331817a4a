package repos

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"frieren/internal/domain"
)

type OrderRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db, now: time.Now} }

func (r *OrderRepo) WithClock(now func() time.Time) *OrderRepo {
	r.now = now
	return r
}

type orderRow struct {
	ID               string `db:"id"`
	ClientName       string `db:"client_name"`
	ClientEmail      string `db:"client_email"`
	ClientPhone      string `db:"client_phone"`
	FrontendTier     string `db:"frontend_tier"`
	FrontendPrice    int64  `db:"frontend_price"`
	BackendTier      string `db:"backend_tier"`
	BackendPrice     int64  `db:"backend_price"`
	DatabaseFeatures string `db:"database_features"`
	DatabasePrice    int64  `db:"database_price"`
	PaymentIncluded  bool   `db:"payment_included"`
	PaymentPrice     int64  `db:"payment_price"`
	TotalPrice       int64  `db:"total_price"`
	BusinessSummary  string `db:"business_summary"`
	AdditionalInfo   string `db:"additional_info"`
	Status           string `db:"status"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

const orderCols = `id, client_name, client_email, client_phone,
  frontend_tier, frontend_price, backend_tier, backend_price,
  database_features, database_price, payment_included, payment_price,
  total_price, business_summary, additional_info, status, created_at, updated_at`

// sqlSortColumns whitelists the sortable fields by their JSON name.
var sqlSortColumns = map[string]string{
	"id":                         "id",
	"clientName":                 "client_name",
	"clientEmail":                "client_email",
	"clientPhone":                "client_phone",
	"services.frontend.tier":     "frontend_tier",
	"services.frontend.price":    "frontend_price",
	"services.backend.tier":      "backend_tier",
	"services.backend.price":     "backend_price",
	"services.database.features": "database_features",
	"services.database.price":    "database_price",
	"services.payment.included":  "payment_included",
	"services.payment.price":     "payment_price",
	"totalPrice":                 "total_price",
	"businessSummary":            "business_summary",
	"additionalInfo":             "additional_info",
	"status":                     "status",
	"createdAt":                  "created_at",
	"updatedAt":                  "updated_at",
}

func toRow(o domain.Order) (orderRow, error) {
	features := o.Services.Database.Features
	if features == nil {
		features = []string{}
	}
	fj, err := json.Marshal(features)
	if err != nil {
		return orderRow{}, err
	}
	return orderRow{
		ID:               o.ID,
		ClientName:       o.ClientName,
		ClientEmail:      o.ClientEmail,
		ClientPhone:      o.ClientPhone,
		FrontendTier:     o.Services.Frontend.Tier,
		FrontendPrice:    o.Services.Frontend.Price,
		BackendTier:      o.Services.Backend.Tier,
		BackendPrice:     o.Services.Backend.Price,
		DatabaseFeatures: string(fj),
		DatabasePrice:    o.Services.Database.Price,
		PaymentIncluded:  o.Services.Payment.Included,
		PaymentPrice:     o.Services.Payment.Price,
		TotalPrice:       o.TotalPrice,
		BusinessSummary:  o.BusinessSummary,
		AdditionalInfo:   o.AdditionalInfo,
		Status:           string(o.Status),
		CreatedAt:        formatTS(o.CreatedAt),
		UpdatedAt:        formatTS(o.UpdatedAt),
	}, nil
}

func (r orderRow) toDomain() domain.Order {
	features := []string{}
	_ = json.Unmarshal([]byte(r.DatabaseFeatures), &features)
	return domain.Order{
		ID:          r.ID,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
		Services: domain.Services{
			Frontend: domain.FrontendService{Tier: r.FrontendTier, Price: r.FrontendPrice},
			Backend:  domain.BackendService{Tier: r.BackendTier, Price: r.BackendPrice},
			Database: domain.DatabaseService{Features: features, Price: r.DatabasePrice},
			Payment:  domain.PaymentService{Included: r.PaymentIncluded, Price: r.PaymentPrice},
		},
		TotalPrice:      r.TotalPrice,
		BusinessSummary: r.BusinessSummary,
		AdditionalInfo:  r.AdditionalInfo,
		Status:          domain.Status(r.Status),
		CreatedAt:       parseTS(r.CreatedAt),
		UpdatedAt:       parseTS(r.UpdatedAt),
	}
}

// Create inserts a new order as pending and stamps its timestamps.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	now := r.now().UTC()
	o.Status = domain.StatusPending
	o.CreatedAt, o.UpdatedAt = now, now

	row, err := toRow(*o)
	if err != nil {
		return domain.Persistence("create", err)
	}
	_, err = r.db.NamedExecContext(ctx, `
	  INSERT INTO orders (`+orderCols+`)
	  VALUES (:id, :client_name, :client_email, :client_phone,
	    :frontend_tier, :frontend_price, :backend_tier, :backend_price,
	    :database_features, :database_price, :payment_included, :payment_price,
	    :total_price, :business_summary, :additional_info, :status, :created_at, :updated_at)
	`, row)
	return domain.Persistence("create", err)
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Persistence("get", err)
	}
	return row.toDomain(), nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.NewValidationError("status", "Invalid status value")
	}
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), formatTS(r.now()), id)
	if err != nil {
		return domain.Order{}, domain.Persistence("update status", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return domain.Order{}, domain.Persistence("update status", err)
	} else if n == 0 {
		return domain.Order{}, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return domain.Persistence("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Persistence("delete", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Query returns one page of matching orders. Count and stats run over the
// same WHERE clause as the page.
func (r *OrderRepo) Query(ctx context.Context, q domain.OrderQuery) (domain.OrderList, error) {
	where, args := sqlWhere(q.Filter)

	var agg struct {
		Total   int     `db:"total"`
		Revenue int64   `db:"revenue"`
		Avg     float64 `db:"avg_value"`
		Pending int     `db:"pending"`
	}
	if err := r.db.GetContext(ctx, &agg, `
		SELECT COUNT(*) AS total,
		  COALESCE(SUM(total_price), 0) AS revenue,
		  COALESCE(AVG(total_price), 0.0) AS avg_value,
		  COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending
		FROM orders
		WHERE `+where, args...); err != nil {
		return domain.OrderList{}, domain.Persistence("query stats", err)
	}

	col, ok := sqlSortColumns[q.SortField]
	if !ok {
		col = sqlSortColumns[domain.DefaultSort]
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}

	var rows []orderRow
	pageArgs := append(append([]any{}, args...), q.Limit, q.Offset())
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+orderCols+`
		FROM orders
		WHERE `+where+`
		ORDER BY `+col+` `+dir+`, id `+dir+`
		LIMIT ? OFFSET ?`, pageArgs...); err != nil {
		return domain.OrderList{}, domain.Persistence("query", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	return domain.OrderList{
		Orders: orders,
		Pagination: domain.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: agg.Total,
			Pages: domain.PageCount(agg.Total, q.Limit),
		},
		Stats: domain.OrderStats{
			TotalRevenue:  agg.Revenue,
			AvgOrderValue: agg.Avg,
			PendingCount:  agg.Pending,
		},
	}, nil
}

func sqlWhere(f domain.OrderFilter) (string, []any) {
	where := `1 = 1`
	args := []any{}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Search != "" {
		p := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		where += ` AND (LOWER(client_name) LIKE ? ESCAPE '\' OR LOWER(client_email) LIKE ? ESCAPE '\' OR LOWER(client_phone) LIKE ? ESCAPE '\')`
		args = append(args, p, p, p)
	}
	if f.StartDate != nil {
		where += ` AND created_at >= ?`
		args = append(args, formatTS(*f.StartDate))
	}
	if f.EndDate != nil {
		where += ` AND created_at <= ?`
		args = append(args, formatTS(*f.EndDate))
	}
	if f.MinPrice != nil {
		where += ` AND total_price >= ?`
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		where += ` AND total_price <= ?`
		args = append(args, *f.MaxPrice)
	}
	return where, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
