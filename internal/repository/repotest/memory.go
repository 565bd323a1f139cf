// Package repotest содержит репозитории в памяти для тестов сервисов и обработчиков.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	_ repository.TradeRepository   = (*TradeRepo)(nil)
	_ repository.JobRepository     = (*JobRepo)(nil)
	_ repository.PartnerRepository = (*PartnerRepo)(nil)
)

type pair struct{ left, right string }

// TradeRepo хранит историю сделок в памяти. Каждая вставка сдвигает часы на минуту.
type TradeRepo struct {
	mu     sync.Mutex
	jobs   *JobRepo
	rows   map[pair][]models.Trade
	clock  time.Time
	nextID int
}

// NewTradeRepo создает пустой TradeRepo; jobs используется для заполнения заказчика и названия заказа.
func NewTradeRepo(jobs *JobRepo) *TradeRepo {
	return &TradeRepo{
		jobs:  jobs,
		rows:  make(map[pair][]models.Trade),
		clock: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Now возвращает время последней вставки.
func (r *TradeRepo) Now() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clock
}

func (r *TradeRepo) LatestTrade(_ context.Context, jobId, contractorId string) (*models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := r.rows[pair{jobId, contractorId}]
	if len(rows) == 0 {
		return nil, nil
	}
	latest := rows[len(rows)-1]
	return &latest, nil
}

func (r *TradeRepo) current(key pair) *models.CurrentTrade {
	rows := r.rows[key]
	if len(rows) == 0 {
		return nil
	}
	current := models.CurrentTrade{Trade: rows[len(rows)-1]}
	if job := r.jobs.job(key.left); job != nil {
		current.OutsourcerID = job.OutsourcerID
		current.JobTitle = job.Title
	}
	return &current
}

func (r *TradeRepo) GetCurrentTrade(_ context.Context, jobId, contractorId string) (*models.CurrentTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current(pair{jobId, contractorId}), nil
}

func (r *TradeRepo) GetHistory(_ context.Context, jobId, contractorId string) ([]models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Trade(nil), r.rows[pair{jobId, contractorId}]...), nil
}

func (r *TradeRepo) filter(jobId, contractorId string, match func(models.TradeAction) bool) []models.Trade {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Trade
	for _, row := range r.rows[pair{jobId, contractorId}] {
		if match(row.Action()) {
			out = append(out, row)
		}
	}
	return out
}

func (r *TradeRepo) ProposalHistory(_ context.Context, jobId, contractorId string) ([]models.Trade, error) {
	return r.filter(jobId, contractorId, models.TradeAction.IsProposalAction), nil
}

func (r *TradeRepo) DeliveryHistory(_ context.Context, jobId, contractorId string) ([]models.Trade, error) {
	return r.filter(jobId, contractorId, models.TradeAction.IsDeliveryAction), nil
}

func (r *TradeRepo) HasAutoFinish(_ context.Context, jobId, contractorId string) (bool, error) {
	return len(r.filter(jobId, contractorId, func(a models.TradeAction) bool { return a == models.AutoFinish })) > 0, nil
}

func (r *TradeRepo) InsertTrade(_ context.Context, trade models.Trade) (*models.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.clock = r.clock.Add(time.Minute)
	trade.ID = fmt.Sprintf("trade-%d", r.nextID)
	trade.CreatedAt = r.clock
	key := pair{trade.JobID, trade.ContractorID}
	r.rows[key] = append(r.rows[key], trade)
	return &trade, nil
}

func (r *TradeRepo) ListJobTrades(_ context.Context, jobId string, limit, offset int) ([]models.CurrentTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CurrentTrade
	for key := range r.rows {
		if key.left == jobId {
			out = append(out, *r.current(key))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ContractorID < out[j].ContractorID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *TradeRepo) ListStale(_ context.Context, states []models.TradeState, before time.Time) ([]models.CurrentTrade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CurrentTrade
	for key := range r.rows {
		current := r.current(key)
		for _, state := range states {
			if current.State == state && !current.CreatedAt.After(before) {
				out = append(out, *current)
			}
		}
	}
	return out, nil
}

// JobRepo хранит заказы, ставки отсрочки и исполнителей в памяти.
type JobRepo struct {
	mu          sync.Mutex
	jobs        map[string]*models.Job
	fees        map[string]*decimal.Decimal
	contractors map[string]bool
}

// NewJobRepo создает JobRepo с двумя заказами заказчика out-1 и исполнителями con-1, con-2:
// job-1 с отсрочкой оплаты под 10%, job-2 без отсрочки.
func NewJobRepo() *JobRepo {
	fee := decimal.NewFromInt(10)
	return &JobRepo{
		jobs: map[string]*models.Job{
			"job-1": {ID: "job-1", OutsourcerID: "out-1", Title: "Landing page", Deferrable: true},
			"job-2": {ID: "job-2", OutsourcerID: "out-1", Title: "Logo"},
		},
		fees:        map[string]*decimal.Decimal{"out-1": &fee},
		contractors: map[string]bool{"con-1": true, "con-2": true},
	}
}

func (r *JobRepo) job(jobId string) *models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.jobs[jobId]
}

func (r *JobRepo) GetJob(_ context.Context, jobId string) (*models.Job, error) {
	return r.job(jobId), nil
}

func (r *JobRepo) DeferringFeeRate(_ context.Context, outsourcerId string) (*decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fees[outsourcerId], nil
}

func (r *JobRepo) ContractorExists(_ context.Context, contractorId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contractors[contractorId], nil
}

// PartnerRepo хранит партнерства, блокировки и список кандидатов в памяти.
type PartnerRepo struct {
	mu          sync.Mutex
	limit       int
	outsourcers map[string]bool
	partners    map[pair]models.PartnerState
	blocked     map[pair]bool
	candidates  map[pair]bool
}

// NewPartnerRepo создает PartnerRepo для заказчика out-1 с лимитом limit партнеров.
func NewPartnerRepo(limit int) *PartnerRepo {
	return &PartnerRepo{
		limit:       limit,
		outsourcers: map[string]bool{"out-1": true},
		partners:    make(map[pair]models.PartnerState),
		blocked:     make(map[pair]bool),
		candidates:  make(map[pair]bool),
	}
}

// SetPartner задает статус партнерства.
func (r *PartnerRepo) SetPartner(outsourcerId, contractorId string, state models.PartnerState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.partners[pair{outsourcerId, contractorId}] = state
}

// Block отмечает, что исполнитель заблокировал заказчика.
func (r *PartnerRepo) Block(outsourcerId, contractorId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blocked[pair{outsourcerId, contractorId}] = true
}

// AddCandidate добавляет исполнителя в список кандидатов заказчика.
func (r *PartnerRepo) AddCandidate(outsourcerId, contractorId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates[pair{outsourcerId, contractorId}] = true
}

func (r *PartnerRepo) PartnerUsage(_ context.Context, outsourcerId string) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.outsourcers[outsourcerId] {
		return 0, 0, repository.ErrOutsourcerNotFound
	}
	count := 0
	for key, state := range r.partners {
		if key.left == outsourcerId && (state == models.PartnerApplied || state == models.PartnerAccepted) {
			count++
		}
	}
	return count, r.limit, nil
}

func (r *PartnerRepo) IsBlocked(_ context.Context, contractorId, outsourcerId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blocked[pair{outsourcerId, contractorId}], nil
}

func (r *PartnerRepo) PartnerRelation(_ context.Context, outsourcerId, contractorId string) (models.PartnerState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.partners[pair{outsourcerId, contractorId}], nil
}

func (r *PartnerRepo) IsInCandidateList(_ context.Context, outsourcerId, contractorId string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.candidates[pair{outsourcerId, contractorId}], nil
}

func (r *PartnerRepo) ApplyPartner(_ context.Context, outsourcerId, contractorId string) (*models.Partner, error) {
	r.SetPartner(outsourcerId, contractorId, models.PartnerApplied)
	return &models.Partner{OutsourcerID: outsourcerId, ContractorID: contractorId, State: models.PartnerApplied}, nil
}

func (r *PartnerRepo) UpdatePartnerState(_ context.Context, outsourcerId, contractorId string, state models.PartnerState) (*models.Partner, error) {
	r.SetPartner(outsourcerId, contractorId, state)
	return &models.Partner{OutsourcerID: outsourcerId, ContractorID: contractorId, State: state}, nil
}
