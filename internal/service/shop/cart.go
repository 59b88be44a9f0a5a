package shop

import (
	"context"
	"errors"
	"fmt"

	"shopfront/internal/model/shop"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

func (s *shopService) ListCartItems(ctx context.Context) ([]*shop.CartItem, error) {
	uid := s.principals.CurrentPrincipal(ctx).ID
	items, _, err := s.stores.CartItems.Search(ctx, repository.Query{
		Equals:   map[string]any{"user_id": uid},
		PageSize: maxCartItems,
	})
	return items, err
}

func (s *shopService) AddCartItem(ctx context.Context, productID int64, quantity int) (*shop.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", service.ErrInvalidInput)
	}
	uid := s.principals.CurrentPrincipal(ctx).ID

	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	existing, _, err := s.stores.CartItems.Search(ctx, repository.Query{
		Equals: map[string]any{"user_id": uid, "product_id": productID},
	})
	if err != nil {
		return nil, err
	}

	item := &shop.CartItem{UserID: uid, ProductID: productID}
	if len(existing) > 0 {
		item = existing[0]
	}
	item.Quantity += quantity
	if item.Quantity > product.Stock {
		return nil, ErrOutOfStock
	}

	if err := s.stores.CartItems.Save(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// 并发加入同一商品，按已有条目重试一次
			return s.AddCartItem(ctx, productID, quantity)
		}
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	return item, nil
}

func (s *shopService) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*shop.CartItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", service.ErrInvalidInput)
	}
	item, err := s.ownCartItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, ErrOutOfStock
	}

	item.Quantity = quantity
	if err := s.stores.CartItems.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("save cart item: %w", err)
	}
	return item, nil
}

func (s *shopService) RemoveCartItem(ctx context.Context, itemID int64) error {
	if _, err := s.ownCartItem(ctx, itemID); err != nil {
		return err
	}
	return notFound("cart item", itemID, s.stores.CartItems.DeleteByID(ctx, itemID))
}

func (s *shopService) ownCartItem(ctx context.Context, itemID int64) (*shop.CartItem, error) {
	item, err := s.stores.CartItems.FindByID(ctx, itemID)
	if err != nil {
		return nil, notFound("cart item", itemID, err)
	}
	if item.UserID != s.principals.CurrentPrincipal(ctx).ID {
		return nil, ErrForbidden
	}
	return item, nil
}
