package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const identityCollection = "identities"

// MongoIdentityRepository is the auth service's credential store. A unique
// index on email backs the one-identity-per-email invariant.
type MongoIdentityRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{db: db, coll: db.Collection(identityCollection)}
}

type identityDoc struct {
	ID           int64  `bson:"_id"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	// Duplicate check up front keeps sequence numbers from burning on the
	// common conflict path; the unique email index remains the backstop.
	if err := r.coll.FindOne(ctx, bson.M{"email": identity.Email}).Err(); err == nil {
		return nil, domain.ErrIdentityExists
	} else if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("check identity email: %w", err)
	}

	id, err := nextSequence(ctx, r.db, identityCollection)
	if err != nil {
		return nil, err
	}

	doc := identityDoc{
		ID:           id,
		Email:        identity.Email,
		PasswordHash: identity.PasswordHash,
		Role:         identity.Role,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *identity
	created.ID = id
	return &created, nil
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var doc identityDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}

	return &domain.Identity{
		ID:           doc.ID,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
	}, nil
}
