package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const replicaCollection = "user_replicas"

// MongoReplicaRepository is the users service's store of replicated
// identities. Ids come from the auth service; no sequence is consulted here.
type MongoReplicaRepository struct {
	coll *mongo.Collection
}

func NewReplicaRepository(db *mongo.Database) *MongoReplicaRepository {
	return &MongoReplicaRepository{coll: db.Collection(replicaCollection)}
}

type replicaDoc struct {
	ID    int64  `bson:"_id"`
	Email string `bson:"email"`
	Role  string `bson:"role"`
}

func toPublic(doc replicaDoc) domain.PublicIdentity {
	return domain.PublicIdentity{ID: doc.ID, Email: doc.Email, Role: doc.Role}
}

func (r *MongoReplicaRepository) Create(ctx context.Context, identity *domain.PublicIdentity) error {
	doc := replicaDoc{ID: identity.ID, Email: identity.Email, Role: identity.Role}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrIdentityExists
		}
		return fmt.Errorf("insert replica: %w", err)
	}
	return nil
}

func (r *MongoReplicaRepository) FindByID(ctx context.Context, id int64) (*domain.PublicIdentity, error) {
	var doc replicaDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find replica: %w", err)
	}
	identity := toPublic(doc)
	return &identity, nil
}

func (r *MongoReplicaRepository) FindByEmail(ctx context.Context, email string) (*domain.PublicIdentity, error) {
	var doc replicaDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find replica: %w", err)
	}
	identity := toPublic(doc)
	return &identity, nil
}

func (r *MongoReplicaRepository) List(ctx context.Context) ([]domain.PublicIdentity, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list replicas: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.PublicIdentity
	for cursor.Next(ctx) {
		var doc replicaDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode replica: %w", err)
		}
		out = append(out, toPublic(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list replicas: %w", err)
	}
	return out, nil
}

func (r *MongoReplicaRepository) Update(ctx context.Context, identity *domain.PublicIdentity) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": identity.ID},
		bson.M{"$set": bson.M{"email": identity.Email, "role": identity.Role}},
	)
	if err != nil {
		return fmt.Errorf("update replica: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func (r *MongoReplicaRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete replica: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}
