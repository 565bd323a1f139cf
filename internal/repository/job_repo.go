package repository

import (
	"context"
	"errors"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// JobRepository - интерфейс для чтения заказов и профилей участников.
type JobRepository interface {
	GetJob(ctx context.Context, jobId string) (*models.Job, error)
	DeferringFeeRate(ctx context.Context, outsourcerId string) (*decimal.Decimal, error)
	ContractorExists(ctx context.Context, contractorId string) (bool, error)
}

// PostgresJobRepository - реализация JobRepository для базы данных.
type PostgresJobRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresJobRepository создает новый экземпляр PostgresJobRepository.
func NewPostgresJobRepository(db *pgxpool.Pool) *PostgresJobRepository {
	return &PostgresJobRepository{DB: db}
}

// GetJob получает заказ по ID или nil, если заказа нет.
func (r *PostgresJobRepository) GetJob(ctx context.Context, jobId string) (*models.Job, error) {
	var job models.Job
	query := `SELECT id, outsourcer_id, title, deferrable, created_at FROM job WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, jobId).Scan(
		&job.ID,
		&job.OutsourcerID,
		&job.Title,
		&job.Deferrable,
		&job.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// DeferringFeeRate возвращает процент комиссии за отложенную оплату или nil, если он не задан.
func (r *PostgresJobRepository) DeferringFeeRate(ctx context.Context, outsourcerId string) (*decimal.Decimal, error) {
	var rate decimal.NullDecimal
	query := `SELECT deferring_fee_percent FROM outsourcer WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, outsourcerId).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !rate.Valid {
		return nil, nil
	}
	return &rate.Decimal, nil
}

// ContractorExists проверяет, существует ли исполнитель.
func (r *PostgresJobRepository) ContractorExists(ctx context.Context, contractorId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM contractor WHERE id = $1)`
	err := r.DB.QueryRow(ctx, query, contractorId).Scan(&exists)
	return exists, err
}
