package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/internal/repo"
)

const maxReviewLen = 1000

type RatingService struct {
	Repo *repo.GormRepo
}

type ProductRatings struct {
	Ratings       []models.Rating `json:"ratings"`
	AverageRating float64         `json:"average_rating"`
	TotalRatings  int             `json:"total_ratings"`
}

type RatingStats struct {
	AverageRating float64       `json:"average_rating"`
	TotalRatings  int           `json:"total_ratings"`
	Breakdown     map[int]int64 `json:"rating_breakdown"`
}

func validRating(rating int, review string) error {
	fields := map[string][]string{}
	if rating < 1 || rating > 5 {
		fields["rating"] = append(fields["rating"], "must be between 1 and 5")
	}
	if len(review) > maxReviewLen {
		fields["review"] = append(fields["review"], fmt.Sprintf("must be at most %d characters", maxReviewLen))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func average(ratings []models.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += float64(r.Rating)
	}
	return sum / float64(len(ratings))
}

func (s *RatingService) ForProduct(ctx context.Context, productID uint) (*ProductRatings, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	ratings, err := s.Repo.ListRatings(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &ProductRatings{
		Ratings:       ratings,
		AverageRating: average(ratings),
		TotalRatings:  len(ratings),
	}, nil
}

func (s *RatingService) Stats(ctx context.Context, productID uint) (*RatingStats, error) {
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	ratings, err := s.Repo.ListRatings(ctx, productID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.Repo.RatingBreakdown(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &RatingStats{
		AverageRating: math.Round(average(ratings)*10) / 10,
		TotalRatings:  len(ratings),
		Breakdown:     breakdown,
	}, nil
}

// Upsert creates the caller's rating for a product or replaces an existing
// one. One rating per (user, product).
func (s *RatingService) Upsert(ctx context.Context, userID, productID uint, rating int, review string) (*models.Rating, bool, error) {
	if err := validRating(rating, review); err != nil {
		return nil, false, err
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, false, err
	}

	existing, err := s.Repo.GetUserRating(ctx, userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		existing.Rating = rating
		existing.Review = review
		if err := s.Repo.SaveRating(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	row := models.Rating{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Review:    review,
	}
	if err := s.Repo.CreateRating(ctx, &row); err != nil {
		return nil, false, err
	}
	return &row, true, nil
}

func (s *RatingService) ForUser(ctx context.Context, userID, productID uint) (*models.Rating, error) {
	rating, err := s.Repo.GetUserRating(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rating, nil
}

// Delete removes the caller's own rating. Someone else's resolves as not
// found.
func (s *RatingService) Delete(ctx context.Context, userID, id uint) error {
	rating, err := s.Repo.GetRating(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("rating %d: %w", id, ErrNotFound)
		}
		return err
	}
	return s.Repo.DeleteRating(ctx, rating.ID)
}
