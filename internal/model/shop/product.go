package shop

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/pkg/mongodb"
)

// Product 商品
type Product struct {
	Base        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Category    string `bson:"category,omitempty" json:"category,omitempty"`
	Price       int64  `bson:"price" json:"price"` // 单位：分
	Stock       int    `bson:"stock" json:"stock"`
	OnSale      bool   `bson:"on_sale" json:"on_sale"`
}

// Collection 返回集合名称
func (p *Product) Collection() string {
	return "products"
}

// EnsureIndexes 创建和维护索引
func (p *Product) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(p.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "category", Value: 1}, bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_category_created"),
		},
		{
			Keys:    bson.D{bson.E{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	}
	return mongodb.CreateIndexes(ctx, coll, indexes)
}
