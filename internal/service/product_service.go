package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catalogo-api/internal/audit"
	"catalogo-api/internal/domain"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/validation"
)

const productLabel = "Producto"

// ProductService defines the business operations for products. Same shape
// as CategoryService, parameterized by the product rule set.
type ProductService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Create(ctx context.Context, input map[string]json.RawMessage) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, input map[string]json.RawMessage) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	repo  repository.ProductRepository
	audit audit.Sink
	rules *validation.RuleSet
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository, sink audit.Sink) ProductService {
	return &productService{
		repo:  repo,
		audit: sink,
		rules: validation.ProductRules(),
	}
}

// List returns all products in natural store order
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create validates the payload, inserts the product and records the audit
// entry with a full snapshot
func (s *productService) Create(ctx context.Context, input map[string]json.RawMessage) (*domain.Product, error) {
	fields, errs := s.rules.Validate(input, false)
	if err := s.checkNameUnique(ctx, fields, errs, 0); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	product := &domain.Product{
		Name:     fields["name"].(string),
		Price:    fields["price"].(float64),
		Stock:    fields["stock"].(int),
		IsActive: fields["is_active"].(bool),
	}
	if v, ok := fields["description"]; ok && v != nil {
		desc := v.(string)
		product.Description = &desc
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNameTaken) {
			// Concurrent create won the unique constraint race.
			return nil, nameTakenError(productLabel)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.audit.Created(ctx, audit.SubjectProduct, product.ID, product.Snapshot())

	return product, nil
}

// Get retrieves a product by id
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return findOrFail(ctx, id, s.repo.FindByID)
}

// Update applies the supplied fields to an existing product and records
// the changed-field diff as an audit entry. Absent fields keep their
// prior values.
func (s *productService) Update(ctx context.Context, id int64, input map[string]json.RawMessage) (*domain.Product, error) {
	product, err := findOrFail(ctx, id, s.repo.FindByID)
	if err != nil {
		return nil, err
	}

	fields, errs := s.rules.Validate(input, true)
	if err := s.checkNameUnique(ctx, fields, errs, id); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	changes := map[string]any{}

	if v, ok := fields["name"]; ok {
		name := v.(string)
		if name != product.Name {
			changes["name"] = []any{product.Name, name}
			product.Name = name
		}
	}
	if v, ok := fields["description"]; ok {
		var desc *string
		if v != nil {
			d := v.(string)
			desc = &d
		}
		if !equalStringPtr(product.Description, desc) {
			changes["description"] = []any{product.Description, desc}
			product.Description = desc
		}
	}
	if v, ok := fields["price"]; ok {
		price := v.(float64)
		if price != product.Price {
			changes["price"] = []any{product.Price, price}
			product.Price = price
		}
	}
	if v, ok := fields["stock"]; ok {
		stock := v.(int)
		if stock != product.Stock {
			changes["stock"] = []any{product.Stock, stock}
			product.Stock = stock
		}
	}
	if v, ok := fields["is_active"]; ok {
		isActive := v.(bool)
		if isActive != product.IsActive {
			changes["is_active"] = []any{product.IsActive, isActive}
			product.IsActive = isActive
		}
	}

	// Nothing changed: skip the store write and emit no audit entry.
	if len(changes) == 0 {
		return product, nil
	}

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNameTaken) {
			return nil, nameTakenError(productLabel)
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.audit.Updated(ctx, audit.SubjectProduct, product.ID, changes)

	return product, nil
}

// Delete removes a product and records a {id, name} audit entry captured
// before removal
func (s *productService) Delete(ctx context.Context, id int64) error {
	product, err := findOrFail(ctx, id, s.repo.FindByID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.audit.Deleted(ctx, audit.SubjectProduct, product.ID, product.Name)

	return nil
}

// checkNameUnique appends the uniqueness error when another product
// already uses the validated name, excluding the record being updated.
func (s *productService) checkNameUnique(ctx context.Context, fields map[string]any, errs *validation.Errors, excludeID int64) error {
	name, ok := fields["name"].(string)
	if !ok || errs.Has("name") {
		return nil
	}

	taken, err := s.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check product name: %w", err)
	}
	if taken {
		errs.Add("name", validation.UniqueMessage(productLabel))
	}
	return nil
}
