package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstrelkov/webshop/internal/models"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakeEvents struct {
	published []recordedEvent
}

func (f *fakeEvents) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.published = append(f.published, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type fakeIndex struct {
	indexed []uint
	deleted []uint
}

func (f *fakeIndex) IndexProduct(_ context.Context, product *models.Product) error {
	f.indexed = append(f.indexed, product.ID)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, productID uint) error {
	f.deleted = append(f.deleted, productID)
	return nil
}

func TestCatalogService_Create_PublishesAndIndexes(t *testing.T) {
	t.Parallel()

	events := &fakeEvents{}
	index := &fakeIndex{}
	svc := &CatalogService{Repo: newTestRepo(t), Events: events, Index: index}
	ctx := context.Background()

	product, err := svc.Create(ctx, ProductInput{
		Title:       "keyboard",
		Description: "mechanical keyboard",
		About:       "clicky",
		Price:       80,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, product.Status)

	require.Len(t, events.published, 1)
	assert.Equal(t, "product_events", events.published[0].Topic)
	assert.Equal(t, []uint{product.ID}, index.indexed)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}

	_, err := svc.Create(context.Background(), ProductInput{Price: -1})
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
	assert.Contains(t, vErr.Fields, "description")
	assert.Contains(t, vErr.Fields, "about")
	assert.Contains(t, vErr.Fields, "price")
}

func TestCatalogService_Update_UnknownProduct(t *testing.T) {
	t.Parallel()

	svc := &CatalogService{Repo: newTestRepo(t)}

	_, err := svc.Update(context.Background(), 404, ProductInput{
		Title:       "t",
		Description: "d",
		About:       "a",
		Price:       1,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Get_RatingAggregates(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product := seedProduct(t, r, "monitor", 200, 0)
	for i, score := range []int{5, 3} {
		user := seedUser(t, r, []string{"first", "second"}[i])
		require.NoError(t, r.CreateRating(ctx, &models.Rating{
			UserID:    user.ID,
			ProductID: product.ID,
			Rating:    score,
		}))
	}

	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.Equal(t, 2, got.TotalRatings)
}

func TestCatalogService_TopRated_SortsByAverage(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	low := seedProduct(t, r, "low", 10, 0)
	high := seedProduct(t, r, "high", 10, 0)
	user := seedUser(t, r, "judge")

	require.NoError(t, r.CreateRating(ctx, &models.Rating{UserID: user.ID, ProductID: low.ID, Rating: 2}))
	other := seedUser(t, r, "judge2")
	require.NoError(t, r.CreateRating(ctx, &models.Rating{UserID: other.ID, ProductID: high.ID, Rating: 5}))

	got, err := svc.TopRated(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].Title)
	assert.Equal(t, "low", got[1].Title)
}

func TestCatalogService_TopRated_FallsBackToLatest(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	seedProduct(t, r, "unrated one", 10, 0)
	seedProduct(t, r, "unrated two", 20, 0)

	got, err := svc.TopRated(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, v := range got {
		assert.Zero(t, v.AverageRating)
	}
}

func TestCatalogService_Delete_ReturnsImagesAndNotifies(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	events := &fakeEvents{}
	index := &fakeIndex{}
	svc := &CatalogService{Repo: r, Events: events, Index: index}
	ctx := context.Background()

	product := seedProduct(t, r, "poster", 5, 0)
	require.NoError(t, r.AddProductImage(ctx, &models.ProductImage{
		ProductID: product.ID,
		Image:     "/images/poster.jpg",
	}))

	images, err := svc.Delete(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "/images/poster.jpg", images[0].Image)

	assert.Equal(t, []uint{product.ID}, index.deleted)
	require.Len(t, events.published, 1)

	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogService_Delete_RatedAndCartedProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	product := seedProduct(t, r, "headphones", 60, 0)
	rater := seedUser(t, r, "critic")
	shopper := seedUser(t, r, "hoarder")

	require.NoError(t, r.AddProductImage(ctx, &models.ProductImage{
		ProductID: product.ID,
		Image:     "/images/headphones.jpg",
	}))
	require.NoError(t, r.CreateRating(ctx, &models.Rating{
		UserID:    rater.ID,
		ProductID: product.ID,
		Rating:    5,
	}))
	require.NoError(t, r.UpsertLine(ctx, &models.CartItem{
		UserID:    shopper.ID,
		ProductID: product.ID,
		Quantity:  2,
		Price:     60,
	}))

	images, err := svc.Delete(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, images, 1)

	_, err = svc.Get(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	leftImages, err := r.ListProductImages(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, leftImages)

	leftRatings, err := r.ListRatings(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, leftRatings)

	lines, err := r.ListLines(ctx, shopper.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}
