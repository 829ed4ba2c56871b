package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.Order{}))

	client := db.NewFromConn(conn)
	svc, err := NewService(NewRepository(conn), client)
	require.NoError(t, err)
	return svc, client
}

func TestCreateAndGetProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:          "Red Clay Standard",
		Category:      "Solid",
		PricePerUnit:  decimal.NewFromFloat(8.50),
		StockQuantity: 1200,
	})
	require.NoError(t, err)
	assert.Equal(t, "piece", created.Unit)

	loaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Red Clay Standard", loaded.Name)
	assert.True(t, loaded.PricePerUnit.Equal(decimal.NewFromFloat(8.50)))
	assert.Equal(t, 1200, loaded.StockQuantity)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Bad", PricePerUnit: decimal.NewFromInt(-1)})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Create(ctx, CreateInput{Name: "Bad", PricePerUnit: decimal.NewFromInt(1), StockQuantity: -2})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Hollow Block", PricePerUnit: decimal.NewFromInt(12)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Name: "Hollow Block", PricePerUnit: decimal.NewFromInt(12)})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestUpdateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Fly Ash", PricePerUnit: decimal.NewFromInt(6)})
	require.NoError(t, err)

	newName := "Fly Ash Premium"
	newPrice := decimal.NewFromFloat(7.25)
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: &newName, PricePerUnit: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Fly Ash Premium", updated.Name)
	assert.True(t, updated.PricePerUnit.Equal(newPrice))

	_, err = svc.Update(ctx, 999, UpdateInput{Name: &newName})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteProductBlockedByOrders(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Paver", PricePerUnit: decimal.NewFromInt(15)})
	require.NoError(t, err)

	order := &models.Order{
		OrderNumber:  "ORD1001",
		ProductID:    created.ID,
		Quantity:     10,
		UnitPrice:    decimal.NewFromInt(15),
		TotalAmount:  decimal.NewFromInt(150),
		CustomerName: "Mason & Co",
	}
	require.NoError(t, client.DB().Create(order).Error)

	err = svc.Delete(ctx, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, client.DB().Delete(order).Error)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListProductsNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Create(ctx, CreateInput{Name: name, PricePerUnit: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Equal(t, "A", list[2].Name)
}
