package shop

import "time"

// Base 商城实体公共字段，嵌入后满足 repository.Entity
type Base struct {
	ID        int64     `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (b *Base) GetID() int64 { return b.ID }

func (b *Base) SetID(id int64) { b.ID = id }

// Touch 更新时间戳，首次保存时同时写入创建时间
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}
