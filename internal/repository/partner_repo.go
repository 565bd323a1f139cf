package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrOutsourcerNotFound возвращается, если заказчика с указанным ID нет.
var ErrOutsourcerNotFound = errors.New("outsourcer not found")

// PartnerRepository - интерфейс для работы с партнерами заказчика.
type PartnerRepository interface {
	PartnerUsage(ctx context.Context, outsourcerId string) (count, limit int, err error)
	IsBlocked(ctx context.Context, contractorId, outsourcerId string) (bool, error)
	PartnerRelation(ctx context.Context, outsourcerId, contractorId string) (models.PartnerState, error)
	IsInCandidateList(ctx context.Context, outsourcerId, contractorId string) (bool, error)
	ApplyPartner(ctx context.Context, outsourcerId, contractorId string) (*models.Partner, error)
	UpdatePartnerState(ctx context.Context, outsourcerId, contractorId string, state models.PartnerState) (*models.Partner, error)
}

// PostgresPartnerRepository - реализация PartnerRepository для базы данных.
type PostgresPartnerRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresPartnerRepository создает новый экземпляр PostgresPartnerRepository.
func NewPostgresPartnerRepository(db *pgxpool.Pool) *PostgresPartnerRepository {
	return &PostgresPartnerRepository{DB: db}
}

// PartnerUsage возвращает число действующих и приглашенных партнеров и лимит заказчика.
func (r *PostgresPartnerRepository) PartnerUsage(ctx context.Context, outsourcerId string) (int, int, error) {
	var count, limit int
	query := `
		SELECT
			(SELECT COUNT(*) FROM partner p WHERE p.outsourcer_id = o.id AND p.state IN ($2, $3)),
			o.limit_of_partner
		FROM outsourcer o
		WHERE o.id = $1`
	err := r.DB.QueryRow(ctx, query, outsourcerId, models.PartnerApplied, models.PartnerAccepted).Scan(&count, &limit)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, ErrOutsourcerNotFound
	}
	if err != nil {
		return 0, 0, err
	}
	return count, limit, nil
}

// IsBlocked проверяет, заблокировал ли исполнитель заказчика.
func (r *PostgresPartnerRepository) IsBlocked(ctx context.Context, contractorId, outsourcerId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM contractor_block WHERE contractor_id = $1 AND outsourcer_id = $2)`
	err := r.DB.QueryRow(ctx, query, contractorId, outsourcerId).Scan(&exists)
	return exists, err
}

// PartnerRelation возвращает статус связи или PartnerNone.
func (r *PostgresPartnerRepository) PartnerRelation(ctx context.Context, outsourcerId, contractorId string) (models.PartnerState, error) {
	var state models.PartnerState
	query := `SELECT state FROM partner WHERE outsourcer_id = $1 AND contractor_id = $2`
	err := r.DB.QueryRow(ctx, query, outsourcerId, contractorId).Scan(&state)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.PartnerNone, nil
	}
	return state, err
}

// IsInCandidateList проверяет, что заказчик принимал сданную исполнителем работу.
func (r *PostgresPartnerRepository) IsInCandidateList(ctx context.Context, outsourcerId, contractorId string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM trade t
			JOIN job j ON j.id = t.job_id
			WHERE j.outsourcer_id = $1 AND t.contractor_id = $2 AND t.selected_action = $3
		)`
	err := r.DB.QueryRow(ctx, query, outsourcerId, contractorId, models.AcceptDelivery).Scan(&exists)
	return exists, err
}

// ApplyPartner создает приглашение в партнеры или обновляет отклоненное.
func (r *PostgresPartnerRepository) ApplyPartner(ctx context.Context, outsourcerId, contractorId string) (*models.Partner, error) {
	partner := models.Partner{
		OutsourcerID: outsourcerId,
		ContractorID: contractorId,
		State:        models.PartnerApplied,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO partner (outsourcer_id, contractor_id, state, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (outsourcer_id, contractor_id) DO UPDATE SET state = EXCLUDED.state, created_at = EXCLUDED.created_at`,
		partner.OutsourcerID,
		partner.ContractorID,
		partner.State,
		partner.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to apply partner: %w", err)
	}
	return &partner, nil
}

// UpdatePartnerState меняет статус связи.
func (r *PostgresPartnerRepository) UpdatePartnerState(ctx context.Context, outsourcerId, contractorId string, state models.PartnerState) (*models.Partner, error) {
	var partner models.Partner
	query := `UPDATE partner SET state = $3
		WHERE outsourcer_id = $1 AND contractor_id = $2
		RETURNING outsourcer_id, contractor_id, state, created_at`
	err := r.DB.QueryRow(ctx, query, outsourcerId, contractorId, state).Scan(
		&partner.OutsourcerID,
		&partner.ContractorID,
		&partner.State,
		&partner.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &partner, nil
}
