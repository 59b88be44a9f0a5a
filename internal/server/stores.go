package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"shopfront/internal/model/auth"
	"shopfront/internal/model/shop"
	"shopfront/internal/pkg/mongodb"
	"shopfront/internal/repository"
	authRepo "shopfront/internal/repository/auth"
	"shopfront/internal/service"
	shopService "shopfront/internal/service/shop"
)

type roleStore interface {
	service.RoleStore
	EnsureDefaults(ctx context.Context) error
}

type stores struct {
	users service.UserStore
	roles roleStore
	shop  shopService.Stores
}

// persistentModels 需要在 MongoDB 中建索引的模型
func persistentModels() []mongodb.Model {
	return []mongodb.Model{
		&auth.User{},
		&auth.Role{},
		&shop.Product{},
		&shop.CartItem{},
		&shop.Order{},
		&shop.Post{},
		&shop.Comment{},
	}
}

// openStores 有 MongoDB 时使用 Mongo 仓库并建索引，否则使用内存仓库
func (s *Server) openStores(ctx context.Context) (*stores, error) {
	var st *stores
	if s.mongo != nil {
		db := s.mongo.Database()
		if err := mongodb.EnsureIndexes(ctx, db, persistentModels()...); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		st = &stores{
			users: authRepo.NewUserRepo(db),
			roles: authRepo.NewRoleRepo(db),
			shop: shopService.Stores{
				Products:  repository.NewMongoRepo[shop.Product](db),
				CartItems: repository.NewMongoRepo[shop.CartItem](db),
				Orders:    repository.NewMongoRepo[shop.Order](db),
				Posts:     repository.NewMongoRepo[shop.Post](db),
				Comments:  repository.NewMongoRepo[shop.Comment](db),
			},
		}
	} else {
		log.Warn().Msg("MongoDB not configured, using in-memory stores (data is lost on restart)")
		st = &stores{
			users: authRepo.NewMemoryUserRepo(),
			roles: authRepo.NewMemoryRoleRepo(),
			shop: shopService.Stores{
				Products:  repository.NewMemoryRepo[shop.Product](),
				CartItems: repository.NewMemoryRepo[shop.CartItem]([]string{"user_id", "product_id"}),
				Orders:    repository.NewMemoryRepo[shop.Order](),
				Posts:     repository.NewMemoryRepo[shop.Post](),
				Comments:  repository.NewMemoryRepo[shop.Comment](),
			},
		}
	}

	if err := st.roles.EnsureDefaults(ctx); err != nil {
		return nil, fmt.Errorf("ensure default roles: %w", err)
	}
	return st, nil
}
