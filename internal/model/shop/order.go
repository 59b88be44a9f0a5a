package shop

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/pkg/mongodb"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // 待支付
	OrderStatusPaid      OrderStatus = "paid"      // 已支付
	OrderStatusShipped   OrderStatus = "shipped"   // 已发货
	OrderStatusCompleted OrderStatus = "completed" // 已完成
	OrderStatusCancelled OrderStatus = "cancelled" // 已取消
)

// orderTransitions 管理员可执行的状态流转
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:    {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped: {OrderStatusCompleted},
}

// CanTransitionTo 状态流转是否合法
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem 下单时的商品快照
type OrderItem struct {
	ProductID int64  `bson:"product_id" json:"product_id"`
	Name      string `bson:"name" json:"name"`
	Price     int64  `bson:"price" json:"price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
}

// Order 订单
type Order struct {
	Base   `bson:",inline"`
	UserID int64       `bson:"user_id" json:"user_id"`
	Items  []OrderItem `bson:"items" json:"items"`
	Total  int64       `bson:"total" json:"total"` // 单位：分
	Status OrderStatus `bson:"status" json:"status"`
}

// Collection 返回集合名称
func (o *Order) Collection() string {
	return "orders"
}

// EnsureIndexes 创建和维护索引
func (o *Order) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(o.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
	}
	return mongodb.CreateIndexes(ctx, coll, indexes)
}
