package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/model/auth"
)

// UserRepo 用户仓库（MongoDB）
// 唯一性由 users 集合上的 idx_username_provider / idx_email_provider 唯一索引保证，
// 并发注册时的竞争由数据库裁决而不是先查后写。
type UserRepo struct {
	collection *mongo.Collection
}

// NewUserRepo 创建用户仓库
func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{
		collection: db.Collection(auth.UsersCollection),
	}
}

// Create 创建用户
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return mapWriteError(err)
}

// FindByID 根据ID查询用户
func (r *UserRepo) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByUsername 根据用户名查询用户（跨 provider，取最早创建的一条）
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

// FindByUsernameAndProviderAndEmail 三元组精确匹配
func (r *UserRepo) FindByUsernameAndProviderAndEmail(ctx context.Context, username, provider, email string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "provider": provider, "email": email})
}

// FindByUsernameAndProvider 根据用户名和 provider 查询
func (r *UserRepo) FindByUsernameAndProvider(ctx context.Context, username, provider string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "provider": provider})
}

// FindByEmailAndProvider 根据邮箱和 provider 查询
func (r *UserRepo) FindByEmailAndProvider(ctx context.Context, email, provider string) (*auth.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "provider": provider})
}

// ExistsByUsername 用户名是否已被任一 provider 使用
func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

// ExistsByEmail 邮箱是否已被任一 provider 使用
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

// Search 按关键字（用户名或邮箱包含，大小写不敏感）查询用户
func (r *UserRepo) Search(ctx context.Context, keyword string) ([]*auth.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(keyword)), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"email": pattern},
	}}

	opts := options.Find().SetSort(bson.D{bson.E{Key: "_id", Value: 1}}).SetLimit(100)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]*auth.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Update 整体替换用户文档（ID 与创建时间不变）
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	user.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return mapWriteError(err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete 删除用户
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*auth.User, error) {
	opts := options.FindOne().SetSort(bson.D{bson.E{Key: "_id", Value: 1}})

	var user auth.User
	err := r.collection.FindOne(ctx, filter, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// mapWriteError 将唯一索引冲突转换为仓库错误，依据冲突的索引名区分用户名与邮箱
func mapWriteError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if strings.Contains(err.Error(), auth.IndexEmailProvider) {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}
