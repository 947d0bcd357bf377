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

const categoryLabel = "Categoría"

// CategoryService defines the business operations for categories. Write
// operations take the raw request field map; validation (including
// uniqueness) happens here, and unknown fields are stripped.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, input map[string]json.RawMessage) (*domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Update(ctx context.Context, id int64, input map[string]json.RawMessage) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	audit audit.Sink
	rules *validation.RuleSet
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(repo repository.CategoryRepository, sink audit.Sink) CategoryService {
	return &categoryService{
		repo:  repo,
		audit: sink,
		rules: validation.CategoryRules(),
	}
}

// List returns all categories in natural store order
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create validates the payload, inserts the category and records the
// audit entry with a full snapshot
func (s *categoryService) Create(ctx context.Context, input map[string]json.RawMessage) (*domain.Category, error) {
	fields, errs := s.rules.Validate(input, false)
	if err := s.checkNameUnique(ctx, fields, errs, 0); err != nil {
		return nil, err
	}
	if !errs.Empty() {
		return nil, validation.NewError(errs)
	}

	category := &domain.Category{
		Name:     fields["name"].(string),
		IsActive: fields["is_active"].(bool),
	}
	if v, ok := fields["description"]; ok && v != nil {
		desc := v.(string)
		category.Description = &desc
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			// Concurrent create won the unique constraint race.
			return nil, nameTakenError(categoryLabel)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.audit.Created(ctx, audit.SubjectCategory, category.ID, category.Snapshot())

	return category, nil
}

// Get retrieves a category by id
func (s *categoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	return findOrFail(ctx, id, s.repo.FindByID)
}

// Update applies the supplied fields to an existing category and records
// the changed-field diff as an audit entry. Absent fields keep their
// prior values.
func (s *categoryService) Update(ctx context.Context, id int64, input map[string]json.RawMessage) (*domain.Category, error) {
	category, err := findOrFail(ctx, id, s.repo.FindByID)
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
		if name != category.Name {
			changes["name"] = []any{category.Name, name}
			category.Name = name
		}
	}
	if v, ok := fields["description"]; ok {
		var desc *string
		if v != nil {
			d := v.(string)
			desc = &d
		}
		if !equalStringPtr(category.Description, desc) {
			changes["description"] = []any{category.Description, desc}
			category.Description = desc
		}
	}
	if v, ok := fields["is_active"]; ok {
		isActive := v.(bool)
		if isActive != category.IsActive {
			changes["is_active"] = []any{category.IsActive, isActive}
			category.IsActive = isActive
		}
	}

	// Nothing changed: skip the store write and emit no audit entry.
	if len(changes) == 0 {
		return category, nil
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, nameTakenError(categoryLabel)
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.audit.Updated(ctx, audit.SubjectCategory, category.ID, changes)

	return category, nil
}

// Delete removes a category and records a {id, name} audit entry
// captured before removal
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	category, err := findOrFail(ctx, id, s.repo.FindByID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.audit.Deleted(ctx, audit.SubjectCategory, category.ID, category.Name)

	return nil
}

// checkNameUnique appends the uniqueness error when another category
// already uses the validated name. excludeID skips the record being
// updated so a record may keep its own name.
func (s *categoryService) checkNameUnique(ctx context.Context, fields map[string]any, errs *validation.Errors, excludeID int64) error {
	name, ok := fields["name"].(string)
	if !ok || errs.Has("name") {
		return nil
	}

	taken, err := s.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check category name: %w", err)
	}
	if taken {
		errs.Add("name", validation.UniqueMessage(categoryLabel))
	}
	return nil
}
