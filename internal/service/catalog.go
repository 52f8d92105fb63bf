package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/internal/repo"
	"github.com/kstrelkov/webshop/pkg/logging"
)

// ProductEvents receives catalog change notifications. Failures are logged
// and never fail the request.
type ProductEvents interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// ProductIndex mirrors published products into the search index.
type ProductIndex interface {
	IndexProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uint) error
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Events ProductEvents
	Index  ProductIndex
}

// ProductView is a product enriched with rating aggregates, the shape every
// public listing returns.
type ProductView struct {
	models.Product
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

type ProductInput struct {
	CategoryID  uint
	Title       string
	Description string
	About       string
	Price       float64
	Discount    float64
}

func (in *ProductInput) validate() error {
	fields := map[string][]string{}
	if in.Title == "" {
		fields["title"] = append(fields["title"], "is required")
	}
	if in.Description == "" {
		fields["description"] = append(fields["description"], "is required")
	}
	if in.About == "" {
		fields["about"] = append(fields["about"], "is required")
	}
	if in.Price < 0 {
		fields["price"] = append(fields["price"], "must not be negative")
	}
	if in.Discount < 0 {
		fields["discount"] = append(fields["discount"], "must not be negative")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func view(p models.Product) ProductView {
	v := ProductView{Product: p}
	for _, r := range p.Ratings {
		v.AverageRating += float64(r.Rating)
	}
	v.TotalRatings = len(p.Ratings)
	if v.TotalRatings > 0 {
		v.AverageRating /= float64(v.TotalRatings)
	}
	return v
}

func views(products []models.Product) []ProductView {
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = view(p)
	}
	return out
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*ProductView, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	v := view(*product)
	return &v, nil
}

func (s *CatalogService) List(ctx context.Context, publishedOnly bool, offset, limit int) ([]ProductView, int64, error) {
	products, total, err := s.Repo.ListProducts(ctx, publishedOnly, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return views(products), total, nil
}

func (s *CatalogService) Latest(ctx context.Context, limit int) ([]ProductView, error) {
	products, err := s.Repo.LatestProducts(ctx, false, limit)
	if err != nil {
		return nil, err
	}
	return views(products), nil
}

func (s *CatalogService) LatestOnSale(ctx context.Context, limit int) ([]ProductView, error) {
	products, err := s.Repo.LatestProducts(ctx, true, limit)
	if err != nil {
		return nil, err
	}
	return views(products), nil
}

// TopRated sorts published products by average rating. When nothing has been
// rated yet it falls back to the newest products.
func (s *CatalogService) TopRated(ctx context.Context, limit int) ([]ProductView, error) {
	products, err := s.Repo.PublishedProducts(ctx)
	if err != nil {
		return nil, err
	}

	rated := views(products)
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].AverageRating > rated[j].AverageRating
	})
	if len(rated) > limit {
		rated = rated[:limit]
	}

	allZero := true
	for _, v := range rated {
		if v.AverageRating > 0 {
			allZero = false
			break
		}
	}
	if len(rated) == 0 || allZero {
		latest, err := s.Repo.LatestProducts(ctx, false, limit)
		if err != nil {
			return nil, err
		}
		return views(latest), nil
	}
	return rated, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if err := in.validate(); err != nil {
		return nil, err
	}

	product := models.Product{
		CategoryID:  in.CategoryID,
		Title:       in.Title,
		Description: in.Description,
		About:       in.About,
		Price:       in.Price,
		Discount:    in.Discount,
		Status:      models.StatusPublished,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		l.Error("create_failed", "error", err)
		return nil, err
	}

	s.notify(ctx, "product_created", &product)
	return &product, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)

	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	product.CategoryID = in.CategoryID
	product.Title = in.Title
	product.Description = in.Description
	product.About = in.About
	product.Price = in.Price
	product.Discount = in.Discount
	product.Status = models.StatusPublished

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		l.Error("save_failed", "error", err)
		return nil, err
	}

	s.notify(ctx, "product_updated", product)
	return product, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) ([]models.ProductImage, error) {
	images, err := s.Repo.ListProductImages(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}

	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)
	if s.Events != nil {
		event := map[string]any{"type": "product_deleted", "product_id": id}
		if err := s.Events.PublishEvent(ctx, "product_events", fmt.Sprint(id), event); err != nil {
			l.Warn("event_publish_failed", "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("index_delete_failed", "error", err)
		}
	}
	return images, nil
}

func (s *CatalogService) notify(ctx context.Context, eventType string, product *models.Product) {
	l := logging.FromContext(ctx).With("svc", "catalog", "product_id", product.ID)

	if s.Events != nil {
		event := map[string]any{
			"type":       eventType,
			"product_id": product.ID,
			"title":      product.Title,
		}
		if err := s.Events.PublishEvent(ctx, "product_events", fmt.Sprint(product.ID), event); err != nil {
			l.Warn("event_publish_failed", "error", err)
		}
	}
	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, product); err != nil {
			l.Warn("index_failed", "error", err)
		}
	}
}
