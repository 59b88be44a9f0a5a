package shop

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/pkg/mongodb"
)

// Post 社区帖子
type Post struct {
	Base     `bson:",inline"`
	AuthorID int64  `bson:"author_id" json:"author_id"`
	Title    string `bson:"title" json:"title"`
	Content  string `bson:"content" json:"content"`
}

// Collection 返回集合名称
func (p *Post) Collection() string {
	return "posts"
}

// EnsureIndexes 创建和维护索引
func (p *Post) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.CreateIndex(ctx, db.Collection(p.Collection()), mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "author_id", Value: 1}, bson.E{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_author_created"),
	})
}

// Comment 帖子评论
type Comment struct {
	Base     `bson:",inline"`
	PostID   int64  `bson:"post_id" json:"post_id"`
	AuthorID int64  `bson:"author_id" json:"author_id"`
	Content  string `bson:"content" json:"content"`
}

// Collection 返回集合名称
func (c *Comment) Collection() string {
	return "comments"
}

// EnsureIndexes 创建和维护索引
func (c *Comment) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.CreateIndex(ctx, db.Collection(c.Collection()), mongo.IndexModel{
		Keys:    bson.D{bson.E{Key: "post_id", Value: 1}, bson.E{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idx_post_created"),
	})
}
