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

const collectionReservations = "reservations"

var reservationIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "check_in", Value: 1}, {Key: "check_out", Value: 1}}},
	{Keys: bson.D{{Key: "guest_id", Value: 1}}},
	{Keys: bson.D{{Key: "status", Value: 1}}},
}

// ReservationRepository stores reservations in MongoDB. Mongo has no range
// exclusion constraint, so double-booking protection relies on the room lock.
type ReservationRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewReservationRepository(db *mongo.Database, timeout time.Duration) *ReservationRepository {
	return &ReservationRepository{col: db.Collection(collectionReservations), timeout: opTimeout(timeout)}
}

type reservationDoc struct {
	ID           string    `bson:"_id"`
	GuestID      string    `bson:"guest_id"`
	RoomID       string    `bson:"room_id"`
	CheckIn      time.Time `bson:"check_in"`
	CheckOut     time.Time `bson:"check_out"`
	Status       string    `bson:"status"`
	PartySize    int       `bson:"party_size"`
	Notes        string    `bson:"notes,omitempty"`
	CancelReason string    `bson:"cancel_reason,omitempty"`
	CreatedBy    string    `bson:"created_by"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toReservationDoc(r *domain.Reservation) reservationDoc {
	return reservationDoc{
		ID:           r.ID,
		GuestID:      r.GuestID,
		RoomID:       r.RoomID,
		CheckIn:      r.Stay.CheckIn,
		CheckOut:     r.Stay.CheckOut,
		Status:       string(r.Status),
		PartySize:    r.PartySize,
		Notes:        r.Notes,
		CancelReason: r.CancelReason,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (d reservationDoc) toDomain() *domain.Reservation {
	return &domain.Reservation{
		ID:           d.ID,
		GuestID:      d.GuestID,
		RoomID:       d.RoomID,
		Stay:         domain.DateRange{CheckIn: d.CheckIn.UTC(), CheckOut: d.CheckOut.UTC()},
		Status:       domain.ReservationStatus(d.Status),
		PartySize:    d.PartySize,
		Notes:        d.Notes,
		CancelReason: d.CancelReason,
		CreatedBy:    d.CreatedBy,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, toReservationDoc(res))
	return mapErr("insert reservation", err, nil)
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc reservationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, mapErr("find reservation", err, domain.ErrReservationNotFound)
	}
	return doc.toDomain(), nil
}

// FindOverlapping uses half-open semantics: existing.in < out && existing.out > in.
func (r *ReservationRepository) FindOverlapping(ctx context.Context, roomID string, stay domain.DateRange, statuses []domain.ReservationStatus) ([]*domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{
		"room_id":   roomID,
		"check_in":  bson.M{"$lt": stay.CheckOut},
		"check_out": bson.M{"$gt": stay.CheckIn},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statusStrings(statuses)}
	}
	return r.find(ctx, filter, options.Find())
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Reservation, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr("find reservations", err, nil)
	}
	var docs []reservationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapErr("decode reservations", err, nil)
	}
	out := make([]*domain.Reservation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// UpdateStatus only matches a document still in change.From.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, change ports.StatusChange) error {
	set := bson.M{"status": string(change.To), "updated_at": change.At}
	if change.CancelReason != "" {
		set["cancel_reason"] = change.CancelReason
	}
	return r.conditionalSet(ctx, id, change.From, change.Where, set)
}

func (r *ReservationRepository) UpdateDetails(ctx context.Context, res *domain.Reservation, expected domain.ReservationStatus, where ports.Placement) error {
	return r.conditionalSet(ctx, res.ID, expected, where, bson.M{
		"room_id":    res.RoomID,
		"check_in":   res.Stay.CheckIn,
		"check_out":  res.Stay.CheckOut,
		"party_size": res.PartySize,
		"notes":      res.Notes,
		"updated_at": res.UpdatedAt,
	})
}

func (r *ReservationRepository) conditionalSet(ctx context.Context, id string, expected domain.ReservationStatus, where ports.Placement, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"_id": id, "status": string(expected)}
	if where.RoomID != "" {
		filter["room_id"] = where.RoomID
		filter["check_in"] = where.Stay.CheckIn
		filter["check_out"] = where.Stay.CheckOut
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return mapErr("update reservation", err, nil)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return mapErr("count reservation", err, nil)
	}
	if n == 0 {
		return domain.ErrReservationNotFound
	}
	return domain.ErrStaleStatus
}

func (r *ReservationRepository) List(ctx context.Context, f ports.ListReservationsFilter) ([]*domain.Reservation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if f.GuestIDs != nil {
		filter["guest_id"] = bson.M{"$in": f.GuestIDs}
	}
	if f.RoomID != "" {
		filter["room_id"] = f.RoomID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if !f.To.IsZero() {
		filter["check_in"] = bson.M{"$lt": f.To}
	}
	if !f.From.IsZero() {
		filter["check_out"] = bson.M{"$gt": f.From}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapErr("count reservations", err, nil)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))
	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
