package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecomstack/commerce-api/internal/core/domain"
)

const ordersCollection = "orders"

type OrderRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{db: db, coll: db.Collection(ordersCollection)}
}

type mongoOrderItem struct {
	ProductID int64   `bson:"product_id"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
}

type mongoOrder struct {
	ID          int64            `bson:"_id"`
	UserID      int64            `bson:"user_id"`
	Items       []mongoOrderItem `bson:"items"`
	TotalAmount float64          `bson:"total_amount"`
	CreatedAt   int64            `bson:"created_at"`
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := nextSequence(ctx, r.db, ordersCollection)
	if err != nil {
		return nil, err
	}

	doc := mongoOrder{
		ID:          id,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt.Unix(),
	}
	for _, item := range order.Items {
		doc.Items = append(doc.Items, mongoOrderItem(item))
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return toDomainOrder(doc), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mo mongoOrder
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return toDomainOrder(mo), nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID int64) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cur.Close(ctx)

	var orders []*domain.Order
	for cur.Next(ctx) {
		var mo mongoOrder
		if err := cur.Decode(&mo); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		orders = append(orders, toDomainOrder(mo))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// EnsureIndexes creates the owner index used by per-user listings.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func toDomainOrder(mo mongoOrder) *domain.Order {
	order := &domain.Order{
		ID:          mo.ID,
		UserID:      mo.UserID,
		TotalAmount: mo.TotalAmount,
		CreatedAt:   unixToTime(mo.CreatedAt),
	}
	for _, item := range mo.Items {
		order.Items = append(order.Items, domain.OrderItem(item))
	}
	return order
}
