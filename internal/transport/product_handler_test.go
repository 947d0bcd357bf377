package transport

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type mockProductRepository struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for id := int64(1); id <= m.nextID; id++ {
		if p, ok := m.products[id]; ok {
			clone := *p
			products = append(products, &clone)
		}
	}
	return products, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, existing := range m.products {
		if existing.Name == product.Name {
			return repository.ErrProductNameTaken
		}
	}
	m.nextID++
	product.ID = m.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	product.UpdatedAt = time.Now()
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	for id, existing := range m.products {
		if id != excludeID && existing.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func newProductRouter() chi.Router {
	repo := newMockProductRepository()
	svc := service.NewProductService(repo, noopAuditSink{})
	handler := NewProductHandler(svc, zap.NewNop())

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func TestProductHandler_CreateReturnsTypedFields(t *testing.T) {
	router := newProductRouter()

	w := doRequest(router, http.MethodPost, "/api/products", `{"name":"Mouse","price":19.99,"stock":5,"is_active":true}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	envelope := decodeEnvelope(t, w)
	if envelope["message"] != "Producto creado exitosamente" {
		t.Errorf("unexpected message %v", envelope["message"])
	}

	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatal("data should be an object")
	}
	if data["price"] != 19.99 {
		t.Errorf("data.price = %v, want JSON number 19.99", data["price"])
	}
	if data["stock"] != float64(5) {
		t.Errorf("data.stock = %v, want JSON number 5", data["stock"])
	}
	if data["is_active"] != true {
		t.Errorf("data.is_active = %v, want boolean true", data["is_active"])
	}
	if _, ok := data["created_at"]; ok {
		t.Error("created_at must not be exposed")
	}
}

func TestProductHandler_CreateValidationErrors(t *testing.T) {
	router := newProductRouter()

	w := doRequest(router, http.MethodPost, "/api/products", `{"name":"Mouse","price":-1,"stock":-2,"is_active":true}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	envelope := decodeEnvelope(t, w)
	errs, ok := envelope["errors"].(map[string]any)
	if !ok {
		t.Fatal("errors should be an object")
	}
	if _, ok := errs["price"]; !ok {
		t.Error("errors.price should be present")
	}
	if _, ok := errs["stock"]; !ok {
		t.Error("errors.stock should be present")
	}
	if envelope["message"] != "El campo Precio debe ser al menos 0." {
		t.Errorf("message should surface the first error, got %v", envelope["message"])
	}
}

func TestProductHandler_PartialPriceUpdate(t *testing.T) {
	router := newProductRouter()

	w := doRequest(router, http.MethodPost, "/api/products", `{"name":"Mouse","price":10,"stock":5,"is_active":true}`)
	created := decodeEnvelope(t, w)["data"].(map[string]any)
	id := int64(created["id"].(float64))

	w = doRequest(router, http.MethodPut, fmt.Sprintf("/api/products/%d", id), `{"price":50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	envelope := decodeEnvelope(t, w)
	data := envelope["data"].(map[string]any)
	if data["price"] != float64(50) {
		t.Errorf("data.price = %v, want 50", data["price"])
	}
	if data["name"] != "Mouse" {
		t.Errorf("data.name = %v, unsupplied fields must keep their values", data["name"])
	}
	if data["stock"] != float64(5) {
		t.Errorf("data.stock = %v, unsupplied fields must keep their values", data["stock"])
	}
}

func TestProductHandler_NotFound(t *testing.T) {
	router := newProductRouter()

	w := doRequest(router, http.MethodGet, "/api/products/7", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	envelope := decodeEnvelope(t, w)
	if envelope["message"] != "Recurso no encontrado" {
		t.Errorf("message = %v", envelope["message"])
	}
}
