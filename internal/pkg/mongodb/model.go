package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Model 需要管理集合与索引的持久化模型（用户、角色、商城实体）
type Model interface {
	// Collection 返回集合名称
	Collection() string

	// EnsureIndexes 创建和维护索引，需幂等
	EnsureIndexes(ctx context.Context, db *mongo.Database) error
}

// CreateIndexes 批量创建索引；已存在的同定义索引不会报错
func CreateIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}

// CreateIndex 创建单个索引
func CreateIndex(ctx context.Context, coll *mongo.Collection, index mongo.IndexModel) error {
	return CreateIndexes(ctx, coll, []mongo.IndexModel{index})
}

// IsDuplicateKey 唯一索引冲突（username/email/购物车条目）
func IsDuplicateKey(err error) bool {
	return err != nil && mongo.IsDuplicateKeyError(err)
}
