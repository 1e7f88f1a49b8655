package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mercadito/marketplace-system/internal/core/domain"
)

const orderCollection = "orders"

type MongoOrderRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{db: db, coll: db.Collection(orderCollection)}
}

type orderDoc struct {
	ID       int64   `bson:"_id"`
	Product  string  `bson:"product"`
	Price    float64 `bson:"price"`
	Quantity int     `bson:"quantity"`
	Total    float64 `bson:"total"`
}

func toOrder(doc orderDoc) domain.Order {
	return domain.Order{
		ID:       doc.ID,
		Product:  doc.Product,
		Price:    doc.Price,
		Quantity: doc.Quantity,
		Total:    doc.Total,
	}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	id, err := nextSequence(ctx, r.db, orderCollection)
	if err != nil {
		return nil, err
	}

	doc := orderDoc{
		ID:       id,
		Product:  order.Product,
		Price:    order.Price,
		Quantity: order.Quantity,
		Total:    order.Total,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	created := *order
	created.ID = id
	return &created, nil
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	order := toOrder(doc)
	return &order, nil
}

func (r *MongoOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.Order
	for cursor.Next(ctx) {
		var doc orderDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		out = append(out, toOrder(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}
