package shop

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"shopfront/internal/model/shop"
	"shopfront/internal/repository"
	"shopfront/internal/service"
)

func (s *shopService) ListProducts(ctx context.Context, params ListParams) ([]*shop.Product, int64, error) {
	q := repository.Query{
		Keyword:  strings.TrimSpace(params.Keyword),
		Fields:   []string{"name", "description"},
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	if params.Category != "" {
		q.Equals = map[string]any{"category": params.Category}
	}
	return s.stores.Products.Search(ctx, q)
}

func (s *shopService) GetProduct(ctx context.Context, id int64) (*shop.Product, error) {
	p, err := s.stores.Products.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("product", id, err)
	}
	return p, nil
}

func (s *shopService) CreateProduct(ctx context.Context, in ProductInput) (*shop.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p := &shop.Product{}
	applyProduct(p, in)
	if err := s.stores.Products.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	log.Info().Int64("product_id", p.ID).
		Int64("operator", s.principals.CurrentPrincipal(ctx).ID).
		Msg("product created")
	return p, nil
}

func (s *shopService) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*shop.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(p, in)
	if err := s.stores.Products.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return p, nil
}

func (s *shopService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.stores.Products.DeleteByID(ctx, id); err != nil {
		return notFound("product", id, err)
	}
	log.Info().Int64("product_id", id).
		Int64("operator", s.principals.CurrentPrincipal(ctx).ID).
		Msg("product deleted")
	return nil
}

func validateProduct(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" || in.Price < 0 || in.Stock < 0 {
		return fmt.Errorf("%w: product name required, price and stock must not be negative", service.ErrInvalidInput)
	}
	return nil
}

func applyProduct(p *shop.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.Stock = in.Stock
	p.OnSale = in.OnSale
}
