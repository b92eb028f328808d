package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hotelcore/reservations/internal/core/domain"
)

const collectionUsers = "users"

var userIndexes = []mongo.IndexModel{
	{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
}

type UserRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers), timeout: opTimeout(timeout)}
}

type userDoc struct {
	ID               string     `bson:"_id"`
	Username         string     `bson:"username"`
	Email            string     `bson:"email"`
	PasswordHash     string     `bson:"password_hash"`
	Role             string     `bson:"role"`
	IsActive         bool       `bson:"is_active"`
	LockedUntil      *time.Time `bson:"locked_until"`
	FailedLoginCount int        `bson:"failed_login_count"`
	CreatedAt        time.Time  `bson:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Role:             u.Role.String(),
		IsActive:         u.IsActive,
		LockedUntil:      u.LockedUntil,
		FailedLoginCount: u.FailedLoginCount,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (d userDoc) toDomain() (*domain.User, error) {
	role, err := domain.ParseRole(d.Role)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:               d.ID,
		Username:         d.Username,
		Email:            d.Email,
		PasswordHash:     d.PasswordHash,
		Role:             role,
		IsActive:         d.IsActive,
		FailedLoginCount: d.FailedLoginCount,
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.LockedUntil != nil {
		until := d.LockedUntil.UTC()
		u.LockedUntil = &until
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return mapErr("insert user", err, nil)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapErr("find user", err, domain.ErrUserNotFound)
	}
	return doc.toDomain()
}

// IncrementFailedLogins uses $inc so concurrent failures are all counted.
func (r *UserRepository) IncrementFailedLogins(ctx context.Context, id string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc userDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"failed_login_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, mapErr("increment failed logins", err, domain.ErrUserNotFound)
	}
	return doc.FailedLoginCount, nil
}

func (r *UserRepository) ResetLoginState(ctx context.Context, id string) error {
	return r.set(ctx, id, bson.M{"failed_login_count": 0, "locked_until": nil})
}

func (r *UserRepository) LockUntil(ctx context.Context, id string, until time.Time) error {
	return r.set(ctx, id, bson.M{"failed_login_count": 0, "locked_until": until.UTC()})
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.set(ctx, id, bson.M{"is_active": active})
}

func (r *UserRepository) SetRole(ctx context.Context, id string, role domain.Role) error {
	return r.set(ctx, id, bson.M{"role": role.String()})
}

func (r *UserRepository) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	fields["updated_at"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return mapErr("update user", err, nil)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
