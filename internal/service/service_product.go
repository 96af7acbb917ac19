package service

import (
	"context"
	"fmt"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/internal/store"
	"github.com/o-dots/backend/internal/utils"
	"github.com/o-dots/backend/models"
)

// productService implements ProductService. Like posts, products carry no
// individual owner; writes are gated on the editor and admin roles.
type productService struct {
	productRepository store.ProductRepository
	logger            *logger.Logger
}

// NewProductService constructs a ProductService over the given repository.
func NewProductService(productRepository store.ProductRepository, logger *logger.Logger) ProductService {
	return &productService{
		productRepository: productRepository,
		logger:            logger,
	}
}

// CreateProduct persists a new product. Editors and admins only.
func (p *productService) CreateProduct(ctx context.Context, actor models.User, product models.Product) (models.Product, error) {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("actor", actor.UserID).Msg("product create denied")
		return models.Product{}, ErrNotAllowed
	}
	if product.Title == "" {
		return models.Product{}, ErrInvalidDataProvided
	}

	product.ID = utils.NewID()

	saved, err := p.productRepository.CreateProduct(ctx, product)
	if err != nil {
		log.Err(err).Msg("product creation ended with error")
		return models.Product{}, fmt.Errorf("product creation ended with error: %w", err)
	}

	return saved, nil
}

// GetProduct retrieves a product by id.
func (p *productService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	product, err := p.productRepository.GetProduct(ctx, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("product lookup failed: %w", err)
	}
	return product, nil
}

// ListProducts retrieves a page of products plus the total product count.
func (p *productService) ListProducts(ctx context.Context, opts store.ListOptions) ([]models.Product, int, error) {
	products, err := p.productRepository.ListProducts(ctx, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("product listing failed: %w", err)
	}

	total, err := p.productRepository.CountProducts(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("product counting failed: %w", err)
	}

	return products, total, nil
}

// UpdateProduct replaces a product's content. Editors and admins only.
func (p *productService) UpdateProduct(ctx context.Context, actor models.User, product models.Product) (models.Product, error) {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("productID", product.ID).Str("actor", actor.UserID).Msg("product update denied")
		return models.Product{}, ErrNotAllowed
	}

	updated, err := p.productRepository.UpdateProduct(ctx, product)
	if err != nil {
		log.Err(err).Str("productID", product.ID).Msg("product update ended with error")
		return models.Product{}, fmt.Errorf("product update ended with error: %w", err)
	}

	return updated, nil
}

// DeleteProduct removes a product. Editors and admins only.
func (p *productService) DeleteProduct(ctx context.Context, actor models.User, id string) error {
	log := logger.FromContext(ctx)

	if !canEditContent(actor) {
		log.Error().Str("productID", id).Str("actor", actor.UserID).Msg("product delete denied")
		return ErrNotAllowed
	}

	if err := p.productRepository.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("product delete ended with error: %w", err)
	}

	return nil
}
