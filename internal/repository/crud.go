package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/pkg/id"
	"shopfront/internal/pkg/mongodb"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束
	ErrDuplicate = errors.New("duplicate record")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Entity 通用持久化实体：数值主键 + 时间戳
type Entity interface {
	mongodb.Model
	GetID() int64
	SetID(id int64)
	Touch(now time.Time)
}

// Query 通用查询条件
type Query struct {
	Equals   map[string]any // 字段等值过滤（bson 字段名）
	Keyword  string         // 关键字，大小写不敏感的子串匹配
	Fields   []string       // 关键字匹配的字段
	Page     int            // 从 1 开始
	PageSize int
}

// Normalize 规范化分页参数
func (q Query) Normalize() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	return q
}

// Store 通用 CRUD 仓库
type Store[T any] interface {
	Save(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id int64) (*T, error)
	DeleteByID(ctx context.Context, id int64) error
	Search(ctx context.Context, q Query) ([]*T, int64, error)
}

// MongoRepo 基于 MongoDB 的通用仓库
type MongoRepo[T any, PT interface {
	*T
	Entity
}] struct {
	collection *mongo.Collection
}

// NewMongoRepo 创建通用仓库，集合名取自模型的 Collection()
func NewMongoRepo[T any, PT interface {
	*T
	Entity
}](db *mongo.Database) *MongoRepo[T, PT] {
	var zero T
	return &MongoRepo[T, PT]{collection: db.Collection(PT(&zero).Collection())}
}

// Save 保存实体；ID 为 0 时分配新ID并插入，否则整体替换（不存在则插入）
func (r *MongoRepo[T, PT]) Save(ctx context.Context, entity *T) error {
	e := PT(entity)
	e.Touch(time.Now())

	var err error
	if e.GetID() == 0 {
		e.SetID(id.Next())
		_, err = r.collection.InsertOne(ctx, entity)
	} else {
		_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": e.GetID()}, entity, options.Replace().SetUpsert(true))
	}
	if mongodb.IsDuplicateKey(err) {
		return ErrDuplicate
	}
	return err
}

// FindByID 根据ID查询
func (r *MongoRepo[T, PT]) FindByID(ctx context.Context, entityID int64) (*T, error) {
	var entity T
	err := r.collection.FindOne(ctx, bson.M{"_id": entityID}).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// DeleteByID 根据ID删除
func (r *MongoRepo[T, PT]) DeleteByID(ctx context.Context, entityID int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": entityID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Search 分页查询，按创建时间倒序
func (r *MongoRepo[T, PT]) Search(ctx context.Context, q Query) ([]*T, int64, error) {
	q = q.Normalize()
	filter := buildFilter(q)

	// 查询总数
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{bson.E{Key: "created_at", Value: -1}, bson.E{Key: "_id", Value: -1}}).
		SetLimit(int64(q.PageSize)).
		SetSkip(int64((q.Page - 1) * q.PageSize))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	entities := make([]*T, 0)
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func buildFilter(q Query) bson.M {
	filter := bson.M{}
	for k, v := range q.Equals {
		filter[k] = v
	}
	if q.Keyword != "" && len(q.Fields) > 0 {
		pattern := keywordRegex(q.Keyword)
		or := make(bson.A, 0, len(q.Fields))
		for _, f := range q.Fields {
			or = append(or, bson.M{f: pattern})
		}
		filter["$or"] = or
	}
	return filter
}

func keywordRegex(keyword string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
}
