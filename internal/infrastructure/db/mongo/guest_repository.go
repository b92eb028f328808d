package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hotelcore/reservations/internal/core/domain"
)

const collectionGuests = "guests"

var guestIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "email", Value: 1}}},
}

type GuestRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewGuestRepository(db *mongo.Database, timeout time.Duration) *GuestRepository {
	return &GuestRepository{col: db.Collection(collectionGuests), timeout: opTimeout(timeout)}
}

type guestDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d guestDoc) toDomain() *domain.Guest {
	return &domain.Guest{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, CreatedAt: d.CreatedAt.UTC()}
}

func (r *GuestRepository) Create(ctx context.Context, g *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := guestDoc{ID: g.ID, Name: g.Name, Email: g.Email, Phone: g.Phone, CreatedAt: g.CreatedAt}
	_, err := r.col.InsertOne(ctx, doc)
	return mapErr("insert guest", err, nil)
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc guestDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapErr("find guest", err, domain.ErrGuestNotFound)
	}
	return doc.toDomain(), nil
}

func (r *GuestRepository) FindByEmail(ctx context.Context, email string) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, mapErr("find guests", err, nil)
	}
	var docs []guestDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("decode guests", err, nil)
	}
	out := make([]*domain.Guest, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
