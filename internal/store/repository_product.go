package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/o-dots/backend/internal/logger"
	"github.com/o-dots/backend/models"
)

var productColumns = []string{
	"id", "title", "content", "description", "price", "photos",
	"created_at", "updated_at",
}

var productSortColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"title":      {},
	"price":      {},
}

// productRepository is the PostgreSQL-backed implementation of
// [ProductRepository].
type productRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewProductRepository constructs a [ProductRepository] backed by the
// provided database connection and logger.
func NewProductRepository(db *DB, logger *logger.Logger) ProductRepository {
	logger.Debug().Msg("creating product repository")
	return &productRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreateProduct persists a new product and returns it with server-assigned
// timestamps.
func (r *productRepository) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	log := logger.FromContext(ctx)

	photos, err := jsonbValue(product.Photos)
	if err != nil {
		return models.Product{}, err
	}

	query, args, err := r.sq.Insert(product.TableName()).
		Columns("id", "title", "content", "description", "price", "photos").
		Values(product.ID, product.Title, product.Content, product.Description, product.Price, photos).
		Suffix("RETURNING " + joinColumns(productColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*productRepository.CreateProduct").Msg("error: building insert")
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	saved, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*productRepository.CreateProduct").Msg("error: scanning error")
		return models.Product{}, err
	}

	return saved, nil
}

// GetProduct retrieves a product by id. Returns [ErrNotFound] when no
// product matches.
func (r *productRepository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Select(productColumns...).
		From(models.Product{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*productRepository.GetProduct").Msg("error: building select")
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, ErrNotFound
		}
		log.Err(err).Str("func", "*productRepository.GetProduct").Msg("error: scanning error")
		return models.Product{}, err
	}

	return product, nil
}

// ListProducts retrieves a page of products ordered per opts.
func (r *productRepository) ListProducts(ctx context.Context, opts ListOptions) ([]models.Product, error) {
	log := logger.FromContext(ctx)

	builder := r.sq.Select(productColumns...).
		From(models.Product{}.TableName()).
		OrderBy(orderClause(opts, productSortColumns, "created_at"))
	builder = paginate(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*productRepository.ListProducts").Msg("error: building select")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*productRepository.ListProducts").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			log.Err(err).Str("func", "*productRepository.ListProducts").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return products, nil
}

// CountProducts reports the total number of products.
func (r *productRepository) CountProducts(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, models.Product{}.TableName(), "*productRepository.CountProducts")
}

// UpdateProduct replaces the mutable fields of a product and returns the
// updated record. Returns [ErrNotFound] when the product does not exist.
func (r *productRepository) UpdateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	log := logger.FromContext(ctx)

	photos, err := jsonbValue(product.Photos)
	if err != nil {
		return models.Product{}, err
	}

	query, args, err := r.sq.Update(product.TableName()).
		Set("title", product.Title).
		Set("content", product.Content).
		Set("description", product.Description).
		Set("price", product.Price).
		Set("photos", photos).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": product.ID}).
		Suffix("RETURNING " + joinColumns(productColumns)).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*productRepository.UpdateProduct").Msg("error: building update")
		return models.Product{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Product{}, ErrNotFound
		}
		log.Err(err).Str("func", "*productRepository.UpdateProduct").Msg("error: scanning error")
		return models.Product{}, err
	}

	return updated, nil
}

// DeleteProduct removes a product by id. Returns [ErrNotFound] when no row
// was deleted.
func (r *productRepository) DeleteProduct(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	query, args, err := r.sq.Delete(models.Product{}.TableName()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*productRepository.DeleteProduct").Msg("error: building delete")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*productRepository.DeleteProduct").Msg("error: executing delete")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var product models.Product
	var photos []byte

	if err := row.Scan(&product.ID, &product.Title, &product.Content, &product.Description,
		&product.Price, &photos, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return models.Product{}, err
	}

	if err := scanJSONB(photos, &product.Photos); err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return product, nil
}
