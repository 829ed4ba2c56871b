package order

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
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.SequenceCounter{},
	))
	return db.NewFromConn(conn)
}

type fakeProductLoader struct {
	conn *gorm.DB
}

func (f *fakeProductLoader) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := f.conn.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(NewRepository(client.DB()), client, &fakeProductLoader{conn: client.DB()})
	require.NoError(t, err)
	return svc
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         name,
		Category:     "Solid",
		Unit:         "piece",
		PricePerUnit: decimal.NewFromInt(price),
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr, "expected app error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestCreate_AssignsSequentialNumbersAndComputesTotal(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Red Clay Brick", 8)

	first, err := svc.Create(ctx, CreateInput{
		ProductID:    product.ID,
		Quantity:     500,
		CustomerName: "Sharma Constructions",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD1001", first.OrderNumber)
	assert.Equal(t, enums.OrderPending, first.Status)
	assert.True(t, first.UnitPrice.Equal(decimal.NewFromInt(8)), "unit price %s", first.UnitPrice)
	assert.True(t, first.TotalAmount.Equal(decimal.NewFromInt(4000)), "total %s", first.TotalAmount)
	assert.Equal(t, "Red Clay Brick", first.ProductName)

	second, err := svc.Create(ctx, CreateInput{
		ProductID:    product.ID,
		Quantity:     10,
		CustomerName: "Verma Traders",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD1002", second.OrderNumber)
}

func TestCreate_Validation(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Fly Ash Brick", 10)

	_, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 0, CustomerName: "X"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: -3, CustomerName: "X"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, CreateInput{ProductID: 999, Quantity: 5, CustomerName: "X"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdate_RecomputesTotalAndChangesStatus(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Hollow Brick", 12)
	created, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 100, CustomerName: "Buyer"})
	require.NoError(t, err)

	newQty := 250
	confirmed := enums.OrderConfirmed
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Quantity: &newQty, Status: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, 250, updated.Quantity)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(3000)), "total %s", updated.TotalAmount)
	assert.Equal(t, enums.OrderConfirmed, updated.Status)

	// price changes after booking do not retroactively reprice the order
	require.NoError(t, client.DB().Model(product).Update("price_per_unit", decimal.NewFromInt(99)).Error)
	newQty = 10
	updated, err = svc.Update(ctx, created.ID, UpdateInput{Quantity: &newQty})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(120)), "total %s", updated.TotalAmount)
}

func TestUpdate_RejectsClosedOrders(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Paver Block", 15)
	created, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 40, CustomerName: "Buyer"})
	require.NoError(t, err)

	delivered := enums.OrderDelivered
	_, err = svc.Update(ctx, created.ID, UpdateInput{Status: &delivered})
	require.NoError(t, err)

	qty := 50
	_, err = svc.Update(ctx, created.ID, UpdateInput{Quantity: &qty})
	assertCode(t, err, pkgerrors.CodeConflict)

	_, err = svc.Update(ctx, 9999, UpdateInput{Quantity: &qty})
	assertCode(t, err, pkgerrors.CodeNotFound)

	bad := enums.OrderStatus("Shipped")
	created2, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 5, CustomerName: "Buyer"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, created2.ID, UpdateInput{Status: &bad})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestList_FiltersByStatus(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Wire Cut Brick", 9)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 10 + i, CustomerName: "Buyer"})
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ORD1003", all[0].OrderNumber, "newest first")

	confirmed := enums.OrderConfirmed
	_, err = svc.Update(ctx, all[1].ID, UpdateInput{Status: &confirmed})
	require.NoError(t, err)

	pending := enums.OrderPending
	filtered, err := svc.List(ctx, &pending)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	bad := enums.OrderStatus("nope")
	_, err = svc.List(ctx, &bad)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteAndGetByNumber(t *testing.T) {
	client := newTestClient(t)
	svc := newTestService(t, client)
	ctx := context.Background()

	product := mustCreateTestProduct(t, client.DB(), "Perforated Brick", 11)
	created, err := svc.Create(ctx, CreateInput{ProductID: product.ID, Quantity: 20, CustomerName: "Buyer"})
	require.NoError(t, err)

	byNumber, err := svc.GetByNumber(ctx, created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNumber.ID)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetByNumber(ctx, created.OrderNumber)
	assertCode(t, err, pkgerrors.CodeNotFound)
}
