package mongodb

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes 应用启动时为所有模型创建索引
// 模型列表由调用方（server）给出，避免本包依赖业务模型
func EnsureIndexes(ctx context.Context, db *mongo.Database, models ...Model) error {
	for _, model := range models {
		if err := model.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", model.Collection(), err)
		}
		log.Debug().Str("collection", model.Collection()).Msg("indexes ensured")
	}
	return nil
}
