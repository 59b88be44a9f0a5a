package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合与索引名
const (
	UsersCollection = "users"
	RolesCollection = "roles"

	IndexUsernameProvider = "idx_username_provider"
	IndexEmailProvider    = "idx_email_provider"
)

// Collection 返回集合名称
func (u *User) Collection() string {
	return UsersCollection
}

// EnsureIndexes 创建 users 集合索引
// (username, provider) 与 (email, provider) 唯一；email 为空的 OAuth2 账号不参与邮箱唯一约束
func (u *User) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "username", Value: 1}, bson.E{Key: "provider", Value: 1}},
			Options: options.Index().SetName(IndexUsernameProvider).SetUnique(true),
		},
		{
			Keys: bson.D{bson.E{Key: "email", Value: 1}, bson.E{Key: "provider", Value: 1}},
			Options: options.Index().SetName(IndexEmailProvider).SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$exists": true}}),
		},
		{
			Keys:    bson.D{bson.E{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_email"),
		},
	})
	return err
}

// Collection 返回集合名称
func (r *Role) Collection() string {
	return RolesCollection
}

// EnsureIndexes roles 集合以角色名为 _id，无需额外索引
func (r *Role) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return nil
}
