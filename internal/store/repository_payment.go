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

var paymentColumns = []string{
	"id", "product_name", "price", "status", "payment_id", "user_id",
	"email", "name", "course_id", "created_at", "updated_at",
}

var paymentSortColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"status":     {},
}

// paymentRepository is the PostgreSQL-backed implementation of
// [PaymentRepository].
type paymentRepository struct {
	logger *logger.Logger
	db     *DB
	sq     sq.StatementBuilderType
}

// NewPaymentRepository constructs a [PaymentRepository] backed by the
// provided database connection and logger.
func NewPaymentRepository(db *DB, logger *logger.Logger) PaymentRepository {
	logger.Debug().Msg("creating payment repository")
	return &paymentRepository{
		db:     db,
		logger: logger,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// CreatePayment persists a new checkout attempt, normally in the processing
// state, and returns it with server-assigned timestamps.
func (r *paymentRepository) CreatePayment(ctx context.Context, payment models.Payment) (models.Payment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createPayment,
		payment.ID, payment.ProductName, payment.Price, payment.Status, payment.PaymentID,
		payment.UserID, payment.Email, payment.Name, payment.CourseID)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*paymentRepository.CreatePayment").Msg("error: row is nil")
		return models.Payment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	saved, err := scanPayment(row)
	if err != nil {
		log.Err(err).Str("func", "*paymentRepository.CreatePayment").Msg("error: scanning error")
		return models.Payment{}, err
	}

	return saved, nil
}

// GetPayment retrieves a payment by id. Returns [ErrNotFound] when no
// payment matches.
func (r *paymentRepository) GetPayment(ctx context.Context, id string) (models.Payment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getPayment, id)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*paymentRepository.GetPayment").Msg("error: row is nil")
		return models.Payment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, ErrNotFound
		}
		log.Err(err).Str("func", "*paymentRepository.GetPayment").Msg("error: scanning error")
		return models.Payment{}, err
	}

	return payment, nil
}

// ListPayments retrieves a page of payments ordered per opts.
func (r *paymentRepository) ListPayments(ctx context.Context, opts ListOptions) ([]models.Payment, error) {
	log := logger.FromContext(ctx)

	builder := r.sq.Select(paymentColumns...).
		From(models.Payment{}.TableName()).
		OrderBy(orderClause(opts, paymentSortColumns, "created_at"))
	builder = paginate(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		log.Err(err).Str("func", "*paymentRepository.ListPayments").Msg("error: building select")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*paymentRepository.ListPayments").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			log.Err(err).Str("func", "*paymentRepository.ListPayments").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return payments, nil
}

// FindPaymentsByEmail retrieves every payment recorded against an email
// address, newest first.
func (r *paymentRepository) FindPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findPaymentsByEmail, email)
	if err != nil {
		log.Err(err).Str("func", "*paymentRepository.FindPaymentsByEmail").Msg("error: executing select")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			log.Err(err).Str("func", "*paymentRepository.FindPaymentsByEmail").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return payments, nil
}

// ResolvePayment moves a payment out of the processing state, recording the
// provider's payment identifier. Returns [ErrNotFound] when the payment
// does not exist.
func (r *paymentRepository) ResolvePayment(ctx context.Context, id string, status string, providerPaymentID string) (models.Payment, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, resolvePayment, id, status, providerPaymentID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*paymentRepository.ResolvePayment").Msg("error: row is nil")
		return models.Payment{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	resolved, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Payment{}, ErrNotFound
		}
		log.Err(err).Str("func", "*paymentRepository.ResolvePayment").Msg("error: scanning error")
		return models.Payment{}, err
	}

	return resolved, nil
}

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var payment models.Payment

	if err := row.Scan(&payment.ID, &payment.ProductName, &payment.Price, &payment.Status,
		&payment.PaymentID, &payment.UserID, &payment.Email, &payment.Name, &payment.CourseID,
		&payment.CreatedAt, &payment.UpdatedAt); err != nil {
		return models.Payment{}, err
	}

	return payment, nil
}
