package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Ratings").
		Preload("Category").
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, publishedOnly bool, offset, limit int) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if publishedOnly {
		q = q.Where("status = ?", models.StatusPublished)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	find := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Ratings").
		Preload("Category").
		Order("id ASC")
	if publishedOnly {
		find = find.Where("status = ?", models.StatusPublished)
	}
	if limit > 0 {
		find = find.Offset(offset).Limit(limit)
	}

	var products []models.Product
	if err := find.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// LatestProducts returns the newest published products, optionally only
// discounted ones.
func (r *GormRepo) LatestProducts(ctx context.Context, onSale bool, limit int) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Ratings").
		Preload("Category").
		Where("status = ?", models.StatusPublished)
	if onSale {
		q = q.Where("discount > 0")
	}

	var products []models.Product
	if err := q.Order("created_at DESC").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) PublishedProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Images").
		Preload("Ratings").
		Preload("Category").
		Where("status = ?", models.StatusPublished).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Create(product).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, product *models.Product) error {
	return r.DB.WithContext(ctx).Save(product).Error
}

// DeleteProduct removes the product together with its images, ratings and any
// cart lines that still reference it, in one transaction. The dependents go
// first so the foreign keys hold on Postgres.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

func (r *GormRepo) AddProductImage(ctx context.Context, image *models.ProductImage) error {
	return r.DB.WithContext(ctx).Create(image).Error
}

func (r *GormRepo) GetProductImage(ctx context.Context, id uint) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.DB.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *GormRepo) ListProductImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *GormRepo) DeleteProductImage(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.ProductImage{}, id).Error
}
