package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tabkeep/authd/internal/auth/domain"
	"github.com/tabkeep/authd/internal/auth/store"
)

// userDoc is the persisted document shape.
type userDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Phone            string             `bson:"phone"`
	PasswordHash     string             `bson:"password"`
	TwoFactorSecret  string             `bson:"twoFASecret,omitempty"`
	TwoFactorEnabled bool               `bson:"isTwoFAEnabled"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

type usersRepo struct {
	coll *mongo.Collection
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (string, error) {
	doc := userDoc{
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		PasswordHash:     u.PasswordHash,
		TwoFactorSecret:  u.TwoFactorSecret,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", store.ErrAlreadyExists
		}
		return "", err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("mongo: unexpected inserted id type")
	}
	return oid.Hex(), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.User{}, store.ErrNotFound
	}

	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(doc), nil
}

func (r *usersRepo) UpdateTwoFactorSecret(ctx context.Context, userID, secret string) error {
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"twoFASecret": secret}})
}

func (r *usersRepo) EnableTwoFactor(ctx context.Context, userID string) error {
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"isTwoFAEnabled": true}})
}

func (r *usersRepo) updateByID(ctx context.Context, userID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapUser(doc userDoc) domain.User {
	return domain.User{
		ID:               doc.ID.Hex(),
		Name:             doc.Name,
		Email:            doc.Email,
		Phone:            doc.Phone,
		PasswordHash:     doc.PasswordHash,
		TwoFactorSecret:  doc.TwoFactorSecret,
		TwoFactorEnabled: doc.TwoFactorEnabled,
		CreatedAt:        doc.CreatedAt,
	}
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
