package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	stored := *product
	m.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	found := *product
	found.Category = nil
	return &found, nil
}

func (m *mockProductRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, exists := m.products[id]
	return exists, nil
}

func (m *mockProductRepository) List(ctx context.Context, categoryID *uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		found := *product
		found.Category = nil
		products = append(products, &found)
	}
	return products, len(products), nil
}

func (m *mockProductRepository) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	products := []*domain.Product{}
	for _, product := range m.products {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(product.Description), strings.ToLower(query)) {
			found := *product
			found.Category = nil
			products = append(products, &found)
		}
	}
	return products, len(products), nil
}

func seedCategory(t testing.TB, repo *mockCategoryRepository, name string) *domain.Category {
	t.Helper()
	service := NewCategoryService(repo)
	category, err := service.Create(context.Background(), name, "seed category")
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

// Property: creating a product against an existing category preserves its fields
// and attaches the resolved category
func TestProperty_ProductCreationPreservesInput(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("created product echoes input and references the category", prop.ForAll(
		func(name string, description string, price float64, stock int) bool {
			categoryRepo := newMockCategoryRepository()
			productRepo := newMockProductRepository()
			service := NewProductService(productRepo, categoryRepo)
			ctx := context.Background()

			category := seedCategory(t, categoryRepo, "Category "+uuid.New().String())

			input := ProductInput{
				Name:        name,
				Description: description,
				Price:       decimal.NewFromFloat(price),
				Stock:       stock,
				CategoryID:  category.ID,
				ImageURLs:   []string{"http://example.com/a.jpg", "http://example.com/b.jpg"},
			}

			product, err := service.Create(ctx, input)
			if err != nil {
				t.Logf("FAIL: Create failed: %v", err)
				return false
			}

			if product.Name != name || product.Description != description || product.Stock != stock {
				t.Logf("FAIL: field echo mismatch")
				return false
			}

			if !product.Price.Equal(input.Price) {
				t.Logf("FAIL: price mismatch. Expected %s, got %s", input.Price, product.Price)
				return false
			}

			if product.CategoryID != category.ID {
				t.Logf("FAIL: category_id mismatch")
				return false
			}

			if product.Category == nil || product.Category.ID != category.ID {
				t.Logf("FAIL: resolved category not attached")
				return false
			}

			if len(product.ImageURLs) != 2 {
				t.Logf("FAIL: image URL list not preserved")
				return false
			}

			stored, err := productRepo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: product not persisted: %v", err)
				return false
			}

			if stored.CategoryID != category.ID {
				t.Logf("FAIL: persisted category_id mismatch")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{2,50}`),
		gen.RegexMatch(`[A-Za-z0-9 .,!?]{1,200}`),
		gen.Float64Range(0.01, 9999.99),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: creating a product against a missing category fails with the
// category-not-found variant and persists nothing
func TestProperty_ProductCreationRejectsMissingCategory(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing category yields ErrCategoryNotFound and no product", prop.ForAll(
		func(name string, price float64, stock int) bool {
			categoryRepo := newMockCategoryRepository()
			productRepo := newMockProductRepository()
			service := NewProductService(productRepo, categoryRepo)
			ctx := context.Background()

			input := ProductInput{
				Name:        name,
				Description: "a product",
				Price:       decimal.NewFromFloat(price),
				Stock:       stock,
				CategoryID:  uuid.New(),
			}

			_, err := service.Create(ctx, input)
			if !errors.Is(err, repository.ErrCategoryNotFound) {
				t.Logf("FAIL: expected ErrCategoryNotFound, got %v", err)
				return false
			}

			if len(productRepo.products) != 0 {
				t.Logf("FAIL: product persisted despite missing category")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{2,50}`),
		gen.Float64Range(0.01, 9999.99),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: update re-resolves the category and fails on either missing side
func TestProperty_ProductUpdateDistinguishesNotFoundKinds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("update reports product-not-found and category-not-found distinctly", prop.ForAll(
		func(name string, price float64) bool {
			categoryRepo := newMockCategoryRepository()
			productRepo := newMockProductRepository()
			service := NewProductService(productRepo, categoryRepo)
			ctx := context.Background()

			category := seedCategory(t, categoryRepo, "Category "+uuid.New().String())

			input := ProductInput{
				Name:        name,
				Description: "a product",
				Price:       decimal.NewFromFloat(price),
				Stock:       1,
				CategoryID:  category.ID,
			}

			product, err := service.Create(ctx, input)
			if err != nil {
				t.Logf("FAIL: Create failed: %v", err)
				return false
			}

			// Absent product ID
			if _, err := service.Update(ctx, uuid.New(), input); !errors.Is(err, repository.ErrProductNotFound) {
				t.Logf("FAIL: expected ErrProductNotFound, got %v", err)
				return false
			}

			// Existing product, absent category
			badInput := input
			badInput.CategoryID = uuid.New()
			if _, err := service.Update(ctx, product.ID, badInput); !errors.Is(err, repository.ErrCategoryNotFound) {
				t.Logf("FAIL: expected ErrCategoryNotFound, got %v", err)
				return false
			}

			// Failed updates left the product untouched
			stored, err := productRepo.FindByID(ctx, product.ID)
			if err != nil || stored.CategoryID != category.ID {
				t.Logf("FAIL: failed update mutated the product")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Za-z0-9 ]{2,50}`),
		gen.Float64Range(0.01, 9999.99),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Deleting a category leaves its products fetchable with a dangling reference
func TestCategoryDeleteLeavesDanglingProductReference(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	categoryService := NewCategoryService(categoryRepo)
	productService := NewProductService(productRepo, categoryRepo)
	ctx := context.Background()

	category, err := categoryService.Create(ctx, "Electronics", "Gadgets")
	if err != nil {
		t.Fatalf("category create failed: %v", err)
	}

	product, err := productService.Create(ctx, ProductInput{
		Name:        "Phone",
		Description: "X",
		Price:       decimal.NewFromInt(100),
		Stock:       5,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("product create failed: %v", err)
	}
	if product.CategoryID != category.ID {
		t.Fatalf("category_id mismatch: %s", product.CategoryID)
	}

	// No cascade check: the delete succeeds
	if err := categoryService.Delete(ctx, category.ID); err != nil {
		t.Fatalf("category delete failed: %v", err)
	}

	// The product stays fetchable; the reference dangles
	fetched, err := productService.Get(ctx, product.ID)
	if err != nil {
		t.Fatalf("product fetch after category delete failed: %v", err)
	}
	if fetched.CategoryID != category.ID {
		t.Errorf("dangling category_id expected %s, got %s", category.ID, fetched.CategoryID)
	}
	if fetched.Category != nil {
		t.Errorf("deleted category should not resolve, got %+v", fetched.Category)
	}
}

func TestProductDeleteSecondCallReportsNotFound(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo, categoryRepo)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Electronics")

	product, err := service.Create(ctx, ProductInput{
		Name:        "Phone",
		Description: "X",
		Price:       decimal.NewFromInt(100),
		Stock:       5,
		CategoryID:  category.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(ctx, product.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	if err := service.Delete(ctx, product.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("second delete expected ErrProductNotFound, got %v", err)
	}
}

func TestProductListAttachesCategories(t *testing.T) {
	categoryRepo := newMockCategoryRepository()
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo, categoryRepo)
	ctx := context.Background()

	category := seedCategory(t, categoryRepo, "Electronics")

	for _, name := range []string{"Phone", "Tablet"} {
		if _, err := service.Create(ctx, ProductInput{
			Name:        name,
			Description: "device",
			Price:       decimal.NewFromInt(50),
			Stock:       1,
			CategoryID:  category.ID,
		}); err != nil {
			t.Fatalf("create %s failed: %v", name, err)
		}
	}

	products, total, err := service.List(ctx, ListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected 2 products, got %d (total %d)", len(products), total)
	}
	for _, product := range products {
		if product.Category == nil || product.Category.ID != category.ID {
			t.Errorf("product %s missing attached category", product.Name)
		}
	}
}
