package repo

import (
	"context"

	"github.com/kstrelkov/webshop/internal/models"
)

func (r *GormRepo) ListRatings(ctx context.Context, productID uint) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.DB.WithContext(ctx).
		Preload("User").
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *GormRepo) GetUserRating(ctx context.Context, userID, productID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *GormRepo) GetRating(ctx context.Context, userID, id uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *GormRepo) CreateRating(ctx context.Context, rating *models.Rating) error {
	return r.DB.WithContext(ctx).Create(rating).Error
}

func (r *GormRepo) SaveRating(ctx context.Context, rating *models.Rating) error {
	return r.DB.WithContext(ctx).Save(rating).Error
}

func (r *GormRepo) DeleteRating(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Rating{}, id).Error
}

// RatingBreakdown returns how many ratings each star value got for a product.
func (r *GormRepo) RatingBreakdown(ctx context.Context, productID uint) (map[int]int64, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := r.DB.WithContext(ctx).Model(&models.Rating{}).
		Select("rating, COUNT(*) as count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	breakdown := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, row := range rows {
		breakdown[row.Rating] = row.Count
	}
	return breakdown, nil
}
