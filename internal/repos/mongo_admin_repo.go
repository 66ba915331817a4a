package repos

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"frieren/internal/domain"
)

type MongoAdminRepo struct{ col *mongo.Collection }

func NewMongoAdminRepo(db *mongo.Database) *MongoAdminRepo {
	return &MongoAdminRepo{col: db.Collection(adminsCollection)}
}

func (r *MongoAdminRepo) ByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.col.FindOne(ctx, bson.M{"username": strings.ToLower(username)}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Persistence("admin by username", err)
	}
	return &a, nil
}

func (r *MongoAdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	a.Username = strings.ToLower(a.Username)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	_, err := r.col.InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicate
	}
	return domain.Persistence("create admin", err)
}

func (r *MongoAdminRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"lastLogin": at.UTC()}})
	return domain.Persistence("touch login", err)
}
