package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kstrelkov/webshop/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Rating{},
		&models.CartItem{},
	))
	return New(db)
}

func seedProduct(t *testing.T, r *GormRepo, price, discount float64) *models.Product {
	t.Helper()

	product := models.Product{
		Title:       "seeded",
		Description: "seeded product",
		Price:       price,
		Discount:    discount,
		Status:      models.StatusPublished,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	return &product
}

func TestGormRepo_UpsertLine_CreateThenMerge(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	product := seedProduct(t, r, 10, 0)

	item := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2, Price: 10}
	require.NoError(t, r.UpsertLine(ctx, &item))
	require.NotZero(t, item.ID)

	again := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 3, Price: 99}
	require.NoError(t, r.UpsertLine(ctx, &again))

	assert.Equal(t, item.ID, again.ID)
	assert.Equal(t, uint(5), again.Quantity)
	assert.Equal(t, 10.0, again.Price, "merge must not touch the snapshot")

	lines, err := r.ListLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestGormRepo_UpsertLine_PerUserRows(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	product := seedProduct(t, r, 10, 0)

	a := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2, Price: 10}
	b := models.CartItem{UserID: 2, ProductID: product.ID, Quantity: 7, Price: 10}
	require.NoError(t, r.UpsertLine(ctx, &a))
	require.NoError(t, r.UpsertLine(ctx, &b))

	assert.NotEqual(t, a.ID, b.ID)

	sum, err := r.SumQuantities(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), sum)
}

func TestGormRepo_UpdateLineQuantity_Scoped(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	product := seedProduct(t, r, 10, 0)

	item := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2, Price: 10}
	require.NoError(t, r.UpsertLine(ctx, &item))

	updated, err := r.UpdateLineQuantity(ctx, 1, item.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, uint(9), updated.Quantity)

	_, err = r.UpdateLineQuantity(ctx, 2, item.ID, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	line, err := r.GetLine(ctx, 1, item.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(9), line.Quantity)
}

func TestGormRepo_DeleteLine_Scoped(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()
	product := seedProduct(t, r, 10, 0)

	item := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 2, Price: 10}
	require.NoError(t, r.UpsertLine(ctx, &item))

	err := r.DeleteLine(ctx, 2, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, r.DeleteLine(ctx, 1, item.ID))

	err = r.DeleteLine(ctx, 1, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestGormRepo_DeleteAllLines_EmptyCartOK(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.DeleteAllLines(ctx, 1))

	sum, err := r.SumQuantities(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestGormRepo_ListLinesWithProducts(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	category := models.Category{Name: "books"}
	require.NoError(t, r.DB.Create(&category).Error)

	product := models.Product{
		CategoryID:  category.ID,
		Title:       "novel",
		Description: "a novel",
		Price:       12,
		Status:      models.StatusPublished,
	}
	require.NoError(t, r.DB.Create(&product).Error)
	require.NoError(t, r.DB.Create(&models.ProductImage{ProductID: product.ID, Image: "http://x/images/a.jpg"}).Error)

	item := models.CartItem{UserID: 1, ProductID: product.ID, Quantity: 1, Price: 12}
	require.NoError(t, r.UpsertLine(ctx, &item))

	lines, err := r.ListLinesWithProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].Product)
	assert.Equal(t, "novel", lines[0].Product.Title)
	require.NotNil(t, lines[0].Product.Category)
	assert.Equal(t, "books", lines[0].Product.Category.Name)
	require.Len(t, lines[0].Product.Images, 1)
}
