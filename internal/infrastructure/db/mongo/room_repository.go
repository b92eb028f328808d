package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

const collectionRooms = "rooms"

var roomIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
	{Keys: bson.D{{Key: "status", Value: 1}}},
}

var bookableRoomStatuses = []domain.RoomStatus{domain.RoomAvailable, domain.RoomOccupied, domain.RoomCleaning}

type RoomRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewRoomRepository(db *mongo.Database, timeout time.Duration) *RoomRepository {
	return &RoomRepository{col: db.Collection(collectionRooms), timeout: opTimeout(timeout)}
}

type roomDoc struct {
	ID        string    `bson:"_id"`
	Number    string    `bson:"number"`
	Type      string    `bson:"type"`
	Capacity  int       `bson:"capacity"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d roomDoc) toDomain() *domain.Room {
	return &domain.Room{
		ID:        d.ID,
		Number:    d.Number,
		Type:      d.Type,
		Capacity:  d.Capacity,
		Status:    domain.RoomStatus(d.Status),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := roomDoc{
		ID:        room.ID,
		Number:    room.Number,
		Type:      room.Type,
		Capacity:  room.Capacity,
		Status:    string(room.Status),
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoomExists
		}
		return mapErr("insert room", err, nil)
	}
	return nil
}

func (r *RoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc roomDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapErr("find room", err, domain.ErrRoomNotFound)
	}
	return doc.toDomain(), nil
}

func (r *RoomRepository) List(ctx context.Context, filter ports.RoomFilter) ([]*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	q := bson.M{}
	switch {
	case filter.Status != "":
		q["status"] = string(filter.Status)
	case filter.BookableOnly:
		q["status"] = bson.M{"$in": bookableRoomStatuses}
	}
	if filter.Status != "" && filter.BookableOnly && !filter.Status.Bookable() {
		return []*domain.Room{}, nil
	}

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, mapErr("list rooms", err, nil)
	}
	var docs []roomDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("decode rooms", err, nil)
	}
	out := make([]*domain.Room, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return mapErr("update room status", err, nil)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}
