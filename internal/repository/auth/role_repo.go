package auth

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/model/auth"
)

// RoleRepo 角色仓库，运行期只读
type RoleRepo struct {
	collection *mongo.Collection
}

// NewRoleRepo 创建角色仓库
func NewRoleRepo(db *mongo.Database) *RoleRepo {
	return &RoleRepo{
		collection: db.Collection(auth.RolesCollection),
	}
}

// EnsureDefaults 写入内置角色（幂等）
func (r *RoleRepo) EnsureDefaults(ctx context.Context) error {
	for _, name := range auth.AllRoles {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": name},
			bson.M{"$setOnInsert": bson.M{"_id": name}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByName 根据角色名查询
func (r *RoleRepo) FindByName(ctx context.Context, name auth.RoleName) (*auth.Role, error) {
	var role auth.Role
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&role)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
