package repository

import (
	"context"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopfront/internal/model/shop"
)

func runStoreSuite(products Store[shop.Product], items Store[shop.CartItem]) {
	ctx := context.Background()

	Convey("Save 分配ID并写入时间戳", func() {
		p := &shop.Product{Name: "Red Mug", Category: "kitchen", Price: 1299, Stock: 5}
		So(products.Save(ctx, p), ShouldBeNil)
		So(p.ID, ShouldBeGreaterThan, 0)
		So(p.CreatedAt.IsZero(), ShouldBeFalse)

		got, err := products.FindByID(ctx, p.ID)
		So(err, ShouldBeNil)
		So(got.Name, ShouldEqual, "Red Mug")
		So(got.Price, ShouldEqual, 1299)

		Convey("再次 Save 覆盖原记录", func() {
			got.Stock = 3
			So(products.Save(ctx, got), ShouldBeNil)
			again, err := products.FindByID(ctx, p.ID)
			So(err, ShouldBeNil)
			So(again.Stock, ShouldEqual, 3)
			So(again.ID, ShouldEqual, p.ID)
		})

		Convey("DeleteByID 后查询返回 ErrNotFound", func() {
			So(products.DeleteByID(ctx, p.ID), ShouldBeNil)
			_, err := products.FindByID(ctx, p.ID)
			So(err, ShouldEqual, ErrNotFound)
			So(products.DeleteByID(ctx, p.ID), ShouldEqual, ErrNotFound)
		})
	})

	Convey("Search 支持等值过滤、关键字与分页", func() {
		for _, name := range []string{"Blue Mug", "Green Mug", "Tea Pot"} {
			So(products.Save(ctx, &shop.Product{Name: name, Category: "kitchen"}), ShouldBeNil)
			time.Sleep(2 * time.Millisecond)
		}
		So(products.Save(ctx, &shop.Product{Name: "Desk Mug", Category: "office"}), ShouldBeNil)

		list, total, err := products.Search(ctx, Query{Equals: map[string]any{"category": "kitchen"}})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 3)
		So(list[0].Name, ShouldEqual, "Tea Pot")

		list, total, err = products.Search(ctx, Query{Keyword: "MUG", Fields: []string{"name"}})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 3)

		list, total, err = products.Search(ctx, Query{Keyword: "mug", Fields: []string{"name"}, Page: 2, PageSize: 2})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 3)
		So(len(list), ShouldEqual, 1)

		list, _, err = products.Search(ctx, Query{Keyword: "m.g", Fields: []string{"name"}})
		So(err, ShouldBeNil)
		So(len(list), ShouldEqual, 0)
	})

	Convey("唯一约束冲突返回 ErrDuplicate", func() {
		So(items.Save(ctx, &shop.CartItem{UserID: 1, ProductID: 9, Quantity: 1}), ShouldBeNil)
		err := items.Save(ctx, &shop.CartItem{UserID: 1, ProductID: 9, Quantity: 2})
		So(err, ShouldEqual, ErrDuplicate)

		list, total, err := items.Search(ctx, Query{Equals: map[string]any{"user_id": int64(1)}})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 1)
		So(list[0].Quantity, ShouldEqual, 1)
	})
}

func TestMemoryRepo(t *testing.T) {
	Convey("MemoryRepo", t, func() {
		products := NewMemoryRepo[shop.Product]()
		items := NewMemoryRepo[shop.CartItem]([]string{"user_id", "product_id"})
		runStoreSuite(products, items)
	})
}

func TestMemoryRepo_Normalize(t *testing.T) {
	Convey("整数与字符串别名类型的等值过滤", t, func() {
		ctx := context.Background()
		orders := NewMemoryRepo[shop.Order]()
		So(orders.Save(ctx, &shop.Order{UserID: 7, Status: shop.OrderStatusPending}), ShouldBeNil)

		_, total, err := orders.Search(ctx, Query{Equals: map[string]any{"user_id": 7, "status": shop.OrderStatusPending}})
		So(err, ShouldBeNil)
		So(total, ShouldEqual, 1)

		_, total, _ = orders.Search(ctx, Query{Equals: map[string]any{"status": "paid"}})
		So(total, ShouldEqual, 0)
	})
}

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	Convey("MongoRepo", t, func() {
		ctx := context.Background()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		So(err, ShouldBeNil)
		db := client.Database("shopfront_test")
		_ = db.Drop(ctx)
		So((&shop.CartItem{}).EnsureIndexes(ctx, db), ShouldBeNil)

		Reset(func() {
			_ = db.Drop(ctx)
			_ = client.Disconnect(ctx)
		})

		runStoreSuite(NewMongoRepo[shop.Product](db), NewMongoRepo[shop.CartItem](db))
	})
}
