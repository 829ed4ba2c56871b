package batch

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Ani07-05/brickdash/pkg/db"
	"github.com/Ani07-05/brickdash/pkg/db/models"
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
		&models.InventoryLog{},
		&models.InventoryStage{},
		&models.InventoryBatch{},
		&models.BatchOrder{},
		&models.SequenceCounter{},
	))
	return db.NewFromConn(conn)
}

func mustCreateTestProduct(t *testing.T, tx *gorm.DB, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:         name,
		Category:     "Solid",
		Unit:         "piece",
		PricePerUnit: decimal.NewFromInt(8),
	}
	require.NoError(t, tx.Create(product).Error)
	return product
}

func mustCreateTestStage(t *testing.T, tx *gorm.DB, number, capacity int, name string) *models.InventoryStage {
	t.Helper()
	stage := &models.InventoryStage{
		StageNumber: number,
		StageName:   name,
		Capacity:    capacity,
	}
	require.NoError(t, tx.Create(stage).Error)
	return stage
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, number string, product *models.Product) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNumber:  number,
		ProductID:    product.ID,
		Quantity:     100,
		UnitPrice:    product.PricePerUnit,
		TotalAmount:  product.PricePerUnit.Mul(decimal.NewFromInt(100)),
		CustomerName: "Test Buyer",
	}
	require.NoError(t, tx.Create(order).Error)
	return order
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

type fakeOrderLoader struct {
	conn *gorm.DB
}

func (f *fakeOrderLoader) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	if err := f.conn.WithContext(ctx).First(&order, "order_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(
		NewRepository(client.DB()),
		client,
		&fakeProductLoader{conn: client.DB()},
		&fakeOrderLoader{conn: client.DB()},
	)
	require.NoError(t, err)
	return svc
}
