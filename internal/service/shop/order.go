package shop

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"shopfront/internal/model/auth"
	"shopfront/internal/model/shop"
	"shopfront/internal/repository"
)

func (s *shopService) CreateOrderFromCart(ctx context.Context) (*shop.Order, error) {
	uid := s.principals.CurrentPrincipal(ctx).ID

	items, err := s.ListCartItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := &shop.Order{
		UserID: uid,
		Items:  make([]shop.OrderItem, 0, len(items)),
		Status: shop.OrderStatusPending,
	}
	for _, item := range items {
		product, err := s.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.OnSale || item.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
		}
		order.Items = append(order.Items, shop.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		order.Total += product.Price * int64(item.Quantity)
	}

	if err := s.stores.Orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	for _, item := range items {
		if err := s.stores.CartItems.DeleteByID(ctx, item.ID); err != nil {
			log.Warn().Err(err).Int64("cart_item_id", item.ID).Msg("failed to clear cart item after order")
		}
	}

	log.Info().Int64("order_id", order.ID).Int64("user_id", uid).Int64("total", order.Total).Msg("order created")
	return order, nil
}

func (s *shopService) ListOrders(ctx context.Context, page, pageSize int) ([]*shop.Order, int64, error) {
	uid := s.principals.CurrentPrincipal(ctx).ID
	return s.stores.Orders.Search(ctx, repository.Query{
		Equals:   map[string]any{"user_id": uid},
		Page:     page,
		PageSize: pageSize,
	})
}

func (s *shopService) GetOrder(ctx context.Context, id int64) (*shop.Order, error) {
	order, err := s.stores.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("order", id, err)
	}
	p := s.principals.CurrentPrincipal(ctx)
	if order.UserID != p.ID && !p.HasAnyRole(auth.RoleAdmin) {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *shopService) CancelOrder(ctx context.Context, id int64) (*shop.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != s.principals.CurrentPrincipal(ctx).ID {
		return nil, ErrForbidden
	}
	if order.Status != shop.OrderStatusPending {
		return nil, ErrInvalidStatus
	}
	order.Status = shop.OrderStatusCancelled
	if err := s.stores.Orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return order, nil
}

func (s *shopService) UpdateOrderStatus(ctx context.Context, id int64, status shop.OrderStatus) (*shop.Order, error) {
	p := s.principals.CurrentPrincipal(ctx)
	if !p.HasAnyRole(auth.RoleAdmin) {
		return nil, ErrForbidden
	}
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, ErrInvalidStatus
	}

	order.Status = status
	if err := s.stores.Orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	log.Info().Int64("order_id", id).Str("status", string(status)).Int64("operator", p.ID).Msg("order status updated")
	return order, nil
}
