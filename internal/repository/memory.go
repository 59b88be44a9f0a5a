package repository

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"shopfront/internal/pkg/id"
)

type memoryRecord struct {
	raw       []byte
	doc       bson.M
	createdAt time.Time
}

// MemoryRepo 进程内通用仓库，未配置 MongoDB 时使用，也用于测试。
// 记录以 bson 编码保存，查询语义与 MongoRepo 一致。
type MemoryRepo[T any, PT interface {
	*T
	Entity
}] struct {
	mu      sync.RWMutex
	records map[int64]memoryRecord
	unique  [][]string
}

// NewMemoryRepo 创建进程内仓库；unique 为需要保持唯一的字段组合（对应唯一索引）
func NewMemoryRepo[T any, PT interface {
	*T
	Entity
}](unique ...[]string) *MemoryRepo[T, PT] {
	return &MemoryRepo[T, PT]{
		records: make(map[int64]memoryRecord),
		unique:  unique,
	}
}

// Save 保存实体
func (r *MemoryRepo[T, PT]) Save(ctx context.Context, entity *T) error {
	e := PT(entity)

	r.mu.Lock()
	defer r.mu.Unlock()

	isNew := e.GetID() == 0
	if isNew {
		e.SetID(id.Next())
	}
	e.Touch(time.Now())

	raw, err := bson.Marshal(entity)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}

	if err := r.checkUnique(e.GetID(), doc); err != nil {
		if isNew {
			e.SetID(0)
		}
		return err
	}

	createdAt := time.Now()
	if old, ok := r.records[e.GetID()]; ok {
		createdAt = old.createdAt
	}
	r.records[e.GetID()] = memoryRecord{raw: raw, doc: doc, createdAt: createdAt}
	return nil
}

// FindByID 根据ID查询
func (r *MemoryRepo[T, PT]) FindByID(ctx context.Context, entityID int64) (*T, error) {
	r.mu.RLock()
	rec, ok := r.records[entityID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode[T](rec.raw)
}

// DeleteByID 根据ID删除
func (r *MemoryRepo[T, PT]) DeleteByID(ctx context.Context, entityID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[entityID]; !ok {
		return ErrNotFound
	}
	delete(r.records, entityID)
	return nil
}

// Search 分页查询，按创建时间倒序
func (r *MemoryRepo[T, PT]) Search(ctx context.Context, q Query) ([]*T, int64, error) {
	q = q.Normalize()

	r.mu.RLock()
	type hit struct {
		id  int64
		rec memoryRecord
	}
	hits := make([]hit, 0)
	for key, rec := range r.records {
		if matches(rec.doc, q) {
			hits = append(hits, hit{id: key, rec: rec})
		}
	}
	r.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if !hits[i].rec.createdAt.Equal(hits[j].rec.createdAt) {
			return hits[i].rec.createdAt.After(hits[j].rec.createdAt)
		}
		return hits[i].id > hits[j].id
	})

	total := int64(len(hits))
	start := (q.Page - 1) * q.PageSize
	if start >= len(hits) {
		return []*T{}, total, nil
	}
	end := min(start+q.PageSize, len(hits))

	out := make([]*T, 0, end-start)
	for _, h := range hits[start:end] {
		entity, err := decode[T](h.rec.raw)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, entity)
	}
	return out, total, nil
}

// checkUnique 调用方需持有写锁
func (r *MemoryRepo[T, PT]) checkUnique(self int64, doc bson.M) error {
	for _, fields := range r.unique {
		for key, rec := range r.records {
			if key == self {
				continue
			}
			same := true
			for _, f := range fields {
				if normalize(rec.doc[f]) != normalize(doc[f]) {
					same = false
					break
				}
			}
			if same {
				return ErrDuplicate
			}
		}
	}
	return nil
}

func decode[T any](raw []byte) (*T, error) {
	var entity T
	if err := bson.Unmarshal(raw, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

func matches(doc bson.M, q Query) bool {
	for k, want := range q.Equals {
		if normalize(doc[k]) != normalize(want) {
			return false
		}
	}
	if q.Keyword == "" || len(q.Fields) == 0 {
		return true
	}
	keyword := strings.ToLower(q.Keyword)
	for _, f := range q.Fields {
		if s, ok := normalize(doc[f]).(string); ok && strings.Contains(strings.ToLower(s), keyword) {
			return true
		}
	}
	return false
}

// normalize 统一整数与字符串别名类型，使 bson 解码值能与查询条件直接比较
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.String:
		return rv.String()
	default:
		return v
	}
}
