package shop

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/pkg/mongodb"
)

// CartItem 购物车条目，同一用户同一商品只有一条
type CartItem struct {
	Base      `bson:",inline"`
	UserID    int64 `bson:"user_id" json:"user_id"`
	ProductID int64 `bson:"product_id" json:"product_id"`
	Quantity  int   `bson:"quantity" json:"quantity"`
}

// Collection 返回集合名称
func (c *CartItem) Collection() string {
	return "cart_items"
}

// EnsureIndexes 创建和维护索引
func (c *CartItem) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(c.Collection())
	return mongodb.CreateIndex(ctx, coll, mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "user_id", Value: 1}, bson.E{Key: "product_id", Value: 1}},
		Options: options.Index().SetName("idx_user_product").SetUnique(true),
	})
}
