package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	productsvc "github.com/Ani07-05/brickdash/internal/products"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestProductCreate(t *testing.T) {
	logg := testLogger()

	t.Run("rejects invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		ProductCreate(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{"name":"Fire Bricks"}`))
		rec := httptest.NewRecorder()
		stub := &stubProductService{}
		ProductCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing fields, got %d", rec.Code)
		}
		if stub.createCalled {
			t.Fatalf("service must not be invoked on validation failure")
		}
	})

	t.Run("creates product", func(t *testing.T) {
		body := `{"name":"Fire Bricks","category":"Bricks","unit":"piece","price_per_unit":"25","stock_quantity":5000}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
		rec := httptest.NewRecorder()
		stub := &stubProductService{
			product: &productsvc.ProductDTO{ID: 7, Name: "Fire Bricks", Category: "Bricks", Unit: "piece", PricePerUnit: decimal.NewFromInt(25), StockQuantity: 5000},
		}
		ProductCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.createCalled {
			t.Fatalf("expected Create to be invoked")
		}
		var envelope struct {
			Success bool                  `json:"success"`
			Data    productsvc.ProductDTO `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !envelope.Success || envelope.Data.ID != 7 {
			t.Fatalf("unexpected envelope: %+v", envelope)
		}
	})
}

func TestProductDelete(t *testing.T) {
	logg := testLogger()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/abc", nil)
		req = withURLParam(req, "productId", "abc")
		rec := httptest.NewRecorder()
		ProductDelete(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("conflict surfaces as 409", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil)
		req = withURLParam(req, "productId", "7")
		rec := httptest.NewRecorder()
		stub := &stubProductService{deleteErr: pkgerrors.New(pkgerrors.CodeConflict, "product has orders and cannot be deleted")}
		ProductDelete(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/7", nil)
		req = withURLParam(req, "productId", "7")
		rec := httptest.NewRecorder()
		stub := &stubProductService{}
		ProductDelete(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if stub.deletedID != 7 {
			t.Fatalf("expected delete of product 7, got %d", stub.deletedID)
		}
	})
}

type stubProductService struct {
	product      *productsvc.ProductDTO
	createCalled bool
	deletedID    uint
	deleteErr    error
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.ProductDTO, error) {
	s.createCalled = true
	return s.product, nil
}

func (s *stubProductService) Update(ctx context.Context, id uint, input productsvc.UpdateInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubProductService) Delete(ctx context.Context, id uint) error {
	s.deletedID = id
	return s.deleteErr
}

func (s *stubProductService) Get(ctx context.Context, id uint) (*productsvc.ProductDTO, error) {
	return s.product, nil
}

func (s *stubProductService) List(ctx context.Context) ([]productsvc.ProductDTO, error) {
	panic("unimplemented")
}
