package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"testing"
	"time"

	"catalogo-api/internal/domain"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			description TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			description TEXT,
			price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
			stock INTEGER NOT NULL CHECK (stock >= 0),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS activity_log (
			id UUID PRIMARY KEY,
			subject_type VARCHAR(50) NOT NULL,
			subject_id BIGINT NOT NULL,
			action VARCHAR(20) NOT NULL,
			properties JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatalf("could not teardown postgres container: %v", err)
		}
	}
}

func TestCategoryRepository_CreateAssignsIDAndTimestamps(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	desc := "Artículos electrónicos"
	category := &domain.Category{
		Name:        "Electrónica",
		Description: &desc,
		IsActive:    true,
	}

	if err := repo.Create(ctx, category); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if category.ID == 0 {
		t.Error("Create should assign an id")
	}
	if category.CreatedAt.IsZero() || category.UpdatedAt.IsZero() {
		t.Error("Create should populate timestamps")
	}

	found, err := repo.FindByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Electrónica" {
		t.Errorf("Name = %q", found.Name)
	}
	if found.Description == nil || *found.Description != desc {
		t.Errorf("Description = %v", found.Description)
	}
	if !found.IsActive {
		t.Error("IsActive should be true")
	}
}

func TestCategoryRepository_DuplicateNameReturnsNameTaken(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	first := &domain.Category{Name: "Hogar", IsActive: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &domain.Category{Name: "Hogar", IsActive: false}
	if err := repo.Create(ctx, second); err != ErrCategoryNameTaken {
		t.Errorf("expected ErrCategoryNameTaken, got %v", err)
	}
}

func TestCategoryRepository_NameExistsExcludesSelf(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := &domain.Category{Name: "Jardín", IsActive: true}
	if err := repo.Create(ctx, category); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	taken, err := repo.NameExists(ctx, "Jardín", 0)
	if err != nil {
		t.Fatalf("NameExists failed: %v", err)
	}
	if !taken {
		t.Error("name should be taken for a different record")
	}

	taken, err = repo.NameExists(ctx, "Jardín", category.ID)
	if err != nil {
		t.Fatalf("NameExists failed: %v", err)
	}
	if taken {
		t.Error("a record's own name must not count as taken")
	}
}

func TestCategoryRepository_MissingRecordOperations(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	if _, err := repo.FindByID(ctx, 999999); err != ErrCategoryNotFound {
		t.Errorf("FindByID: expected ErrCategoryNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 999999); err != ErrCategoryNotFound {
		t.Errorf("Delete: expected ErrCategoryNotFound, got %v", err)
	}
	if err := repo.Update(ctx, &domain.Category{ID: 999999, Name: "Nada", IsActive: true}); err != ErrCategoryNotFound {
		t.Errorf("Update: expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryRepository_DeleteRemovesRecord(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := &domain.Category{Name: "Temporal", IsActive: true}
	if err := repo.Create(ctx, category); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.FindByID(ctx, category.ID); err != ErrCategoryNotFound {
		t.Errorf("expected ErrCategoryNotFound after delete, got %v", err)
	}
}

func TestProductRepository_CreateUpdateRoundTrip(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &domain.Product{
		Name:     "Mouse inalámbrico",
		Price:    19.99,
		Stock:    5,
		IsActive: true,
	}

	if err := repo.Create(ctx, product); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if product.ID == 0 {
		t.Error("Create should assign an id")
	}

	product.Price = 50
	product.Stock = 3
	if err := repo.Update(ctx, product); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Price != 50 {
		t.Errorf("Price = %v, want 50", found.Price)
	}
	if found.Stock != 3 {
		t.Errorf("Stock = %d, want 3", found.Stock)
	}
}

func TestProductRepository_ListNaturalOrder(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	first := &domain.Product{Name: "Teclado", Price: 30, Stock: 2, IsActive: true}
	second := &domain.Product{Name: "Monitor", Price: 120, Stock: 1, IsActive: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	products, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var lastID int64
	for _, p := range products {
		if p.ID <= lastID {
			t.Fatal("List should return products in ascending id order")
		}
		lastID = p.ID
	}
}

func TestProductRepository_DuplicateNameReturnsNameTaken(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	first := &domain.Product{Name: "Audífonos", Price: 25, Stock: 10, IsActive: true}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &domain.Product{Name: "Audífonos", Price: 30, Stock: 1, IsActive: true}
	if err := repo.Create(ctx, second); err != ErrProductNameTaken {
		t.Errorf("expected ErrProductNameTaken, got %v", err)
	}
}

func TestActivityLogRepository_AppendPersistsProperties(t *testing.T) {
	repo := NewActivityLogRepository(testDB)
	ctx := context.Background()

	entry := &domain.ActivityLog{
		ID:          uuid.New(),
		SubjectType: "product",
		SubjectID:   42,
		Action:      domain.AuditActionUpdate,
		Properties:  map[string]any{"price": []any{10.0, 50.0}},
	}

	if err := repo.Append(ctx, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("Append should populate created_at")
	}

	var (
		subjectType string
		subjectID   int64
		action      string
		rawProps    []byte
	)
	err := testDB.QueryRowContext(ctx, `
		SELECT subject_type, subject_id, action, properties
		FROM activity_log WHERE id = $1
	`, entry.ID).Scan(&subjectType, &subjectID, &action, &rawProps)
	if err != nil {
		t.Fatalf("failed to read back entry: %v", err)
	}

	if subjectType != "product" || subjectID != 42 || action != "update" {
		t.Errorf("unexpected entry: %s %d %s", subjectType, subjectID, action)
	}

	props := map[string]any{}
	if err := json.Unmarshal(rawProps, &props); err != nil {
		t.Fatalf("properties are not valid JSON: %v", err)
	}
	pair, ok := props["price"].([]any)
	if !ok || len(pair) != 2 {
		t.Fatalf("properties.price = %v, want [old, new] pair", props["price"])
	}
	if pair[0] != 10.0 || pair[1] != 50.0 {
		t.Errorf("properties.price = %v, want [10, 50]", pair)
	}
}
