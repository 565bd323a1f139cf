package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/senyabanana/trade-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// TradeRepository - интерфейс для работы с историей сделок.
type TradeRepository interface {
	LatestTrade(ctx context.Context, jobId, contractorId string) (*models.Trade, error)
	GetCurrentTrade(ctx context.Context, jobId, contractorId string) (*models.CurrentTrade, error)
	GetHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error)
	ProposalHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error)
	DeliveryHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error)
	HasAutoFinish(ctx context.Context, jobId, contractorId string) (bool, error)
	InsertTrade(ctx context.Context, trade models.Trade) (*models.Trade, error)
	ListJobTrades(ctx context.Context, jobId string, limit, offset int) ([]models.CurrentTrade, error)
	ListStale(ctx context.Context, states []models.TradeState, before time.Time) ([]models.CurrentTrade, error)
}

// PostgresTradeRepository - реализация TradeRepository для базы данных.
type PostgresTradeRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresTradeRepository создает новый экземпляр PostgresTradeRepository.
func NewPostgresTradeRepository(db *pgxpool.Pool) *PostgresTradeRepository {
	return &PostgresTradeRepository{DB: db}
}

const tradeColumns = `id, job_id, contractor_id, state, selected_action, proposed_price, quantity,
	offered_price, offered_quantity, worked_minutes, reject_reason_id, reject_reason_detail, created_at`

func scanTrade(row pgx.Row, t *models.Trade, extra ...any) error {
	dest := []any{
		&t.ID,
		&t.JobID,
		&t.ContractorID,
		&t.State,
		&t.SelectedAction,
		&t.ProposedPrice,
		&t.Quantity,
		&t.OfferedPrice,
		&t.OfferedQuantity,
		&t.WorkedMinutes,
		&t.RejectReasonID,
		&t.RejectReasonDetail,
		&t.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

// LatestTrade возвращает последнюю строку истории пары или nil, если сделки еще нет.
func (r *PostgresTradeRepository) LatestTrade(ctx context.Context, jobId, contractorId string) (*models.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trade
		WHERE job_id = $1 AND contractor_id = $2
		ORDER BY created_at DESC, seq DESC
		LIMIT 1`

	var trade models.Trade
	err := scanTrade(r.DB.QueryRow(ctx, query, jobId, contractorId), &trade)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// GetCurrentTrade возвращает текущую проекцию сделки вместе с данными заказа.
func (r *PostgresTradeRepository) GetCurrentTrade(ctx context.Context, jobId, contractorId string) (*models.CurrentTrade, error) {
	query := `SELECT ` + tradeColumns + `, outsourcer_id, job_title
		FROM current_trade
		WHERE job_id = $1 AND contractor_id = $2`

	var current models.CurrentTrade
	err := scanTrade(r.DB.QueryRow(ctx, query, jobId, contractorId), &current.Trade, &current.OutsourcerID, &current.JobTitle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &current, nil
}

// GetHistory возвращает всю историю пары в порядке создания.
func (r *PostgresTradeRepository) GetHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trade
		WHERE job_id = $1 AND contractor_id = $2
		ORDER BY created_at, seq`
	return r.queryTrades(ctx, query, jobId, contractorId)
}

// ProposalHistory возвращает строки, относящиеся к предложению.
func (r *PostgresTradeRepository) ProposalHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error) {
	return r.historyByActions(ctx, jobId, contractorId, []models.TradeAction{
		models.Propose, models.RePropose, models.RequestReProposal, models.Reorder,
		models.AcceptProposal, models.RejectProposal, models.CancelProposal, models.AutoTerminate,
	})
}

// DeliveryHistory возвращает записи о сдаче работы.
func (r *PostgresTradeRepository) DeliveryHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error) {
	return r.historyByActions(ctx, jobId, contractorId, []models.TradeAction{models.Deliver})
}

func (r *PostgresTradeRepository) historyByActions(ctx context.Context, jobId, contractorId string, actions []models.TradeAction) ([]models.Trade, error) {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	query := `SELECT ` + tradeColumns + `
		FROM trade
		WHERE job_id = $1 AND contractor_id = $2 AND selected_action = ANY($3)
		ORDER BY created_at, seq`
	return r.queryTrades(ctx, query, jobId, contractorId, pq.Array(names))
}

// HasAutoFinish проверяет, была ли оценка по сделке проставлена автоматически.
func (r *PostgresTradeRepository) HasAutoFinish(ctx context.Context, jobId, contractorId string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM trade WHERE job_id = $1 AND contractor_id = $2 AND selected_action = $3)`
	err := r.DB.QueryRow(ctx, query, jobId, contractorId, models.AutoFinish).Scan(&exists)
	return exists, err
}

// InsertTrade добавляет новую строку истории. Старые строки не изменяются.
func (r *PostgresTradeRepository) InsertTrade(ctx context.Context, trade models.Trade) (*models.Trade, error) {
	trade.ID = uuid.New().String()
	trade.CreatedAt = time.Now().UTC()

	insertQuery := `INSERT INTO trade (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.DB.Exec(
		ctx,
		insertQuery,
		trade.ID,
		trade.JobID,
		trade.ContractorID,
		trade.State,
		trade.SelectedAction,
		trade.ProposedPrice,
		trade.Quantity,
		trade.OfferedPrice,
		trade.OfferedQuantity,
		trade.WorkedMinutes,
		trade.RejectReasonID,
		trade.RejectReasonDetail,
		trade.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trade: %w", err)
	}
	return &trade, nil
}

// ListJobTrades возвращает текущие сделки по заказу.
func (r *PostgresTradeRepository) ListJobTrades(ctx context.Context, jobId string, limit, offset int) ([]models.CurrentTrade, error) {
	query := `SELECT ` + tradeColumns + `, outsourcer_id, job_title
		FROM current_trade
		WHERE job_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return r.queryCurrentTrades(ctx, query, jobId, limit, offset)
}

// ListStale возвращает текущие сделки в указанных состояниях, созданные раньше before.
func (r *PostgresTradeRepository) ListStale(ctx context.Context, states []models.TradeState, before time.Time) ([]models.CurrentTrade, error) {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	query := `SELECT ` + tradeColumns + `, outsourcer_id, job_title
		FROM current_trade
		WHERE state = ANY($1) AND created_at <= $2
		ORDER BY created_at`
	return r.queryCurrentTrades(ctx, query, pq.Array(names), before)
}

func (r *PostgresTradeRepository) queryTrades(ctx context.Context, query string, args ...any) ([]models.Trade, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var trade models.Trade
		if err := scanTrade(rows, &trade); err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}

func (r *PostgresTradeRepository) queryCurrentTrades(ctx context.Context, query string, args ...any) ([]models.CurrentTrade, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []models.CurrentTrade
	for rows.Next() {
		var current models.CurrentTrade
		if err := scanTrade(rows, &current.Trade, &current.OutsourcerID, &current.JobTitle); err != nil {
			return nil, err
		}
		trades = append(trades, current)
	}
	return trades, rows.Err()
}
