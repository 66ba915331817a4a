package repos

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"frieren/internal/domain"
)

// MongoOrderRepo is the document-store OrderStore. Orders keep the same JSON
// shape as documents, keyed by their uuid in _id.
type MongoOrderRepo struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoOrderRepo(db *mongo.Database) *MongoOrderRepo {
	return &MongoOrderRepo{col: db.Collection(ordersCollection), now: time.Now}
}

var mongoSortFields = map[string]string{
	"id":                         "_id",
	"clientName":                 "clientName",
	"clientEmail":                "clientEmail",
	"clientPhone":                "clientPhone",
	"services.frontend.tier":     "services.frontend.tier",
	"services.frontend.price":    "services.frontend.price",
	"services.backend.tier":      "services.backend.tier",
	"services.backend.price":     "services.backend.price",
	"services.database.features": "services.database.features",
	"services.database.price":    "services.database.price",
	"services.payment.included":  "services.payment.included",
	"services.payment.price":     "services.payment.price",
	"totalPrice":                 "totalPrice",
	"businessSummary":            "businessSummary",
	"additionalInfo":             "additionalInfo",
	"status":                     "status",
	"createdAt":                  "createdAt",
	"updatedAt":                  "updatedAt",
}

func (r *MongoOrderRepo) WithClock(now func() time.Time) *MongoOrderRepo {
	r.now = now
	return r
}

func (r *MongoOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	o.Status = domain.StatusPending
	o.CreatedAt, o.UpdatedAt = now, now
	if o.Services.Database.Features == nil {
		o.Services.Database.Features = []string{}
	}
	_, err := r.col.InsertOne(ctx, o)
	return domain.Persistence("create", err)
}

func (r *MongoOrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Persistence("get", err)
	}
	return o, nil
}

func (r *MongoOrderRepo) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, domain.NewValidationError("status", "Invalid status value")
	}
	var o domain.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": r.now().UTC().Truncate(time.Millisecond)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, domain.Persistence("update status", err)
	}
	return o, nil
}

func (r *MongoOrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return domain.Persistence("delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MongoOrderRepo) Query(ctx context.Context, q domain.OrderQuery) (domain.OrderList, error) {
	filter := MongoFilter(q.Filter)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domain.OrderList{}, domain.Persistence("count", err)
	}

	cur, err := r.col.Find(ctx, filter, options.Find().
		SetSort(MongoSort(q.SortField, q.SortOrder)).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit)))
	if err != nil {
		return domain.OrderList{}, domain.Persistence("query", err)
	}
	orders := []domain.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return domain.OrderList{}, domain.Persistence("query decode", err)
	}

	stats, err := r.stats(ctx, filter)
	if err != nil {
		return domain.OrderList{}, err
	}
	return domain.OrderList{
		Orders: orders,
		Pagination: domain.Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: int(total),
			Pages: domain.PageCount(int(total), q.Limit),
		},
		Stats: stats,
	}, nil
}

func (r *MongoOrderRepo) stats(ctx context.Context, filter bson.M) (domain.OrderStats, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "revenue", Value: bson.M{"$sum": "$totalPrice"}},
			{Key: "avg", Value: bson.M{"$avg": "$totalPrice"}},
			{Key: "pending", Value: bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", domain.StatusPending}}, 1, 0},
			}}},
		}}},
	})
	if err != nil {
		return domain.OrderStats{}, domain.Persistence("stats", err)
	}
	var out []struct {
		Revenue int64   `bson:"revenue"`
		Avg     float64 `bson:"avg"`
		Pending int     `bson:"pending"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return domain.OrderStats{}, domain.Persistence("stats decode", err)
	}
	if len(out) == 0 {
		return domain.OrderStats{}, nil
	}
	return domain.OrderStats{TotalRevenue: out[0].Revenue, AvgOrderValue: out[0].Avg, PendingCount: out[0].Pending}, nil
}

// MongoFilter builds the match document shared by the page and the stats.
// Search text is matched literally and case-insensitively.
func MongoFilter(f domain.OrderFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"clientName": re},
			bson.M{"clientEmail": re},
			bson.M{"clientPhone": re},
		}
	}
	if f.StartDate != nil || f.EndDate != nil {
		created := bson.M{}
		if f.StartDate != nil {
			created["$gte"] = f.StartDate.UTC()
		}
		if f.EndDate != nil {
			created["$lte"] = f.EndDate.UTC()
		}
		filter["createdAt"] = created
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["totalPrice"] = price
	}
	return filter
}

// MongoSort whitelists the sort field; _id breaks ties.
func MongoSort(field string, order domain.SortOrder) bson.D {
	key, ok := mongoSortFields[field]
	if !ok {
		key = mongoSortFields[domain.DefaultSort]
	}
	dir := -1
	if order == domain.SortAsc {
		dir = 1
	}
	if key == "_id" {
		return bson.D{{Key: key, Value: dir}}
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}
