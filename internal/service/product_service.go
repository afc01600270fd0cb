package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput carries the validated fields for creating or updating a product
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	CategoryID  uuid.UUID
	ImageURLs   []string
}

// ListFilter carries the optional filters for listing products
type ListFilter struct {
	CategoryID *uuid.UUID
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  repository.SortOrder
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, filter ListFilter) ([]*domain.Product, int, error)
	Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns a page of products with their category references attached
func (s *productService) List(ctx context.Context, filter ListFilter) ([]*domain.Product, int, error) {
	products, total, err := s.productRepo.List(
		ctx,
		filter.CategoryID,
		filter.Page,
		filter.PageSize,
		filter.SortBy,
		filter.SortOrder,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	if err := s.attachCategories(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Search returns products matching the query by name or description
func (s *productService) Search(ctx context.Context, query string, page, pageSize int) ([]*domain.Product, int, error) {
	products, total, err := s.productRepo.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}

	if err := s.attachCategories(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Get returns the product with the given ID, with its category attached
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachCategories(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// Create resolves the referenced category and persists a new product with the
// submitted image URL list. A missing category is the category-not-found
// variant, distinct from a missing product.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  category.ID,
		ImageURLs:   input.ImageURLs,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	product.Category = category
	return product, nil
}

// Update overwrites an existing product's fields and re-resolves the category
// reference before persisting
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.CategoryID = category.ID
	product.ImageURLs = input.ImageURLs
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	product.Category = category
	return product, nil
}

// Delete removes a product unconditionally once it is known to exist
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// attachCategories resolves each product's category reference. A dangling
// category_id (category deleted after the product was written) leaves the
// reference nil rather than failing the read.
func (s *productService) attachCategories(ctx context.Context, products []*domain.Product) error {
	resolved := make(map[uuid.UUID]*domain.Category)

	for _, product := range products {
		if category, ok := resolved[product.CategoryID]; ok {
			product.Category = category
			continue
		}

		category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				resolved[product.CategoryID] = nil
				continue
			}
			return fmt.Errorf("failed to resolve category: %w", err)
		}

		resolved[product.CategoryID] = category
		product.Category = category
	}

	return nil
}
