package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/internal/repo"
)

func seedUser(t *testing.T, r *repo.GormRepo, name string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, r.CreateUser(context.Background(), &user))
	return &user
}

func seedProduct(t *testing.T, r *repo.GormRepo, title string, price, discount float64) *models.Product {
	t.Helper()
	product := models.Product{
		Title:       title,
		Description: "about " + title,
		Price:       price,
		Discount:    discount,
		Status:      models.StatusPublished,
	}
	require.NoError(t, r.CreateProduct(context.Background(), &product))
	return &product
}

func TestRatingService_Upsert_CreateThenReplace(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r, "rater")
	product := seedProduct(t, r, "lamp", 30, 0)

	rating, created, err := svc.Upsert(ctx, user.ID, product.ID, 4, "decent")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, rating.Rating)

	replaced, created, err := svc.Upsert(ctx, user.ID, product.ID, 2, "changed my mind")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, rating.ID, replaced.ID)
	assert.Equal(t, 2, replaced.Rating)
	assert.Equal(t, "changed my mind", replaced.Review)

	got, err := svc.ForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, got.Ratings, 1)
}

func TestRatingService_Upsert_Validation(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	user := seedUser(t, r, "strict")
	product := seedProduct(t, r, "chair", 50, 0)

	tests := []struct {
		name   string
		rating int
		review string
		field  string
	}{
		{name: "rating too low", rating: 0, review: "", field: "rating"},
		{name: "rating too high", rating: 6, review: "", field: "rating"},
		{name: "review too long", rating: 3, review: strings.Repeat("a", maxReviewLen+1), field: "review"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Upsert(ctx, user.ID, product.ID, tt.rating, tt.review)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Contains(t, vErr.Fields, tt.field)
		})
	}
}

func TestRatingService_Upsert_UnknownProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}

	user := seedUser(t, r, "lost")
	_, _, err := svc.Upsert(context.Background(), user.ID, 404, 5, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRatingService_Stats(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	product := seedProduct(t, r, "desk", 120, 0)
	for i, score := range []int{5, 4, 4} {
		user := seedUser(t, r, "stats"+strings.Repeat("x", i+1))
		_, _, err := svc.Upsert(ctx, user.ID, product.ID, score, "")
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, stats.AverageRating)
	assert.Equal(t, 3, stats.TotalRatings)
	assert.Equal(t, int64(2), stats.Breakdown[4])
	assert.Equal(t, int64(1), stats.Breakdown[5])
	assert.Equal(t, int64(0), stats.Breakdown[1])
}

func TestRatingService_ForUser_NoneYet(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}

	user := seedUser(t, r, "silent")
	product := seedProduct(t, r, "mug", 8, 0)

	rating, err := svc.ForUser(context.Background(), user.ID, product.ID)
	require.NoError(t, err)
	assert.Nil(t, rating)
}

func TestRatingService_Delete_OwnerScoped(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &RatingService{Repo: r}
	ctx := context.Background()

	owner := seedUser(t, r, "owner")
	other := seedUser(t, r, "other")
	product := seedProduct(t, r, "shelf", 75, 0)

	rating, _, err := svc.Upsert(ctx, owner.ID, product.ID, 3, "")
	require.NoError(t, err)

	err = svc.Delete(ctx, other.ID, rating.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner.ID, rating.ID))

	got, err := svc.ForProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Ratings)
}
