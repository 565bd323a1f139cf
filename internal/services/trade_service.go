package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/senyabanana/trade-service/internal/catalog"
	"github.com/senyabanana/trade-service/internal/metrics"
	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/repository"
	"github.com/senyabanana/trade-service/internal/statemachine"
	"github.com/senyabanana/trade-service/internal/utils"
)

type TradeService struct {
	Repo    repository.TradeRepository
	Jobs    repository.JobRepository
	Reasons *catalog.ReasonCatalog
}

// NewTradeService создает новый экземпляр TradeService.
func NewTradeService(repo repository.TradeRepository, jobs repository.JobRepository, reasons *catalog.ReasonCatalog) *TradeService {
	return &TradeService{Repo: repo, Jobs: jobs, Reasons: reasons}
}

// ApplyAction применяет действие участника к последней строке истории сделки.
// Проверяется только последняя строка, прочитанная перед вставкой; гонки двух
// одновременных вставок по одной паре этим методом не отслеживаются.
func (s *TradeService) ApplyAction(ctx context.Context, jobId, contractorId string, req models.TradeActionRequest) (*models.Trade, error) {
	if jobId == "" || contractorId == "" || req.ActorID == "" || req.Action == "" || req.Role == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: jobId, contractorId, actorId, role or action")
	}
	if req.Role != models.Outsourcer && req.Role != models.Contractor {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "invalid role. Must be 'outsourcer' or 'contractor'")
	}
	if statemachine.IsOverride(req.Action) {
		return nil, models.NewErrorResponse(http.StatusForbidden, fmt.Sprintf("action %s is reserved for administrators", req.Action))
	}

	job, err := s.authorize(ctx, jobId, contractorId, req)
	if err != nil {
		return nil, err
	}

	history, err := s.Repo.GetHistory(ctx, job.ID, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load trade history")
	}
	current := models.NoTrade
	var latest *models.Trade
	if len(history) > 0 {
		latest = &history[len(history)-1]
		current = latest.State
	}

	next, err := statemachine.NextState(current, req.Role, req.Action)
	if err != nil {
		metrics.ObserveCommand(string(req.Action), metrics.ResultRejected)
		return nil, models.NewErrorResponse(http.StatusConflict, err.Error())
	}

	action := req.Action
	row := models.Trade{
		JobID:          job.ID,
		ContractorID:   contractorId,
		State:          next,
		SelectedAction: &action,
	}
	if err := s.fillRow(&row, history, latest, req); err != nil {
		metrics.ObserveCommand(string(req.Action), metrics.ResultRejected)
		return nil, err
	}

	trade, err := s.Repo.InsertTrade(ctx, row)
	if err != nil {
		metrics.ObserveCommand(string(req.Action), metrics.ResultFailed)
		return nil, err
	}
	metrics.ObserveCommand(string(req.Action), metrics.ResultApplied)
	return trade, nil
}

// authorize проверяет заказ, исполнителя и то, что действие выполняет участник сделки.
func (s *TradeService) authorize(ctx context.Context, jobId, contractorId string, req models.TradeActionRequest) (*models.Job, error) {
	job, err := s.Jobs.GetJob(ctx, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check job existence")
	}
	if job == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}

	contractorExists, err := s.Jobs.ContractorExists(ctx, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check contractor existence")
	}
	if !contractorExists {
		return nil, models.NewErrorResponse(http.StatusNotFound, "contractor not found")
	}

	switch req.Role {
	case models.Outsourcer:
		if req.ActorID != job.OutsourcerID {
			return nil, models.NewErrorResponse(http.StatusForbidden, "actor is not the outsourcer of this job")
		}
	case models.Contractor:
		if req.ActorID != contractorId {
			return nil, models.NewErrorResponse(http.StatusForbidden, "actor is not the contractor of this trade")
		}
	}
	return job, nil
}

// fillRow заполняет суммы и причины новой строки в зависимости от действия.
func (s *TradeService) fillRow(row *models.Trade, history []models.Trade, latest *models.Trade, req models.TradeActionRequest) error {
	switch req.Action {
	case models.Propose, models.RePropose, models.Reorder:
		if !positive(req.OfferedPrice) || !positive(req.OfferedQuantity) {
			return models.NewErrorResponse(http.StatusBadRequest, "offeredPrice and offeredQuantity must be positive")
		}
		row.OfferedPrice, row.OfferedQuantity = req.OfferedPrice, req.OfferedQuantity

	case models.RequestNegotiation:
		if !positive(req.OfferedPrice) {
			return models.NewErrorResponse(http.StatusBadRequest, "offeredPrice must be positive")
		}
		row.OfferedPrice = req.OfferedPrice

	case models.RequestQuantity:
		if !positive(req.OfferedQuantity) {
			return models.NewErrorResponse(http.StatusBadRequest, "offeredQuantity must be positive")
		}
		row.OfferedQuantity = req.OfferedQuantity

	case models.AcceptProposal:
		offer := latestOffer(history, models.Propose, models.RePropose, models.Reorder)
		if offer == nil || offer.OfferedPrice == nil || offer.OfferedQuantity == nil {
			return inconsistent("no offer to accept")
		}
		row.ProposedPrice, row.Quantity = copyInt64(offer.OfferedPrice), copyInt64(offer.OfferedQuantity)

	case models.AcceptNegotiation, models.AcceptQuantity:
		price := statemachine.CurrentPrice(history)
		if !price.Available() || latest == nil {
			return inconsistent("no committed price to change")
		}
		row.ProposedPrice, row.Quantity = price.UnitPrice, price.Quantity
		if req.Action == models.AcceptNegotiation {
			if latest.OfferedPrice == nil {
				return inconsistent("no requested price")
			}
			row.ProposedPrice = copyInt64(latest.OfferedPrice)
		} else {
			if latest.OfferedQuantity == nil {
				return inconsistent("no requested quantity")
			}
			row.Quantity = copyInt64(latest.OfferedQuantity)
		}

	case models.RejectProposal:
		if req.RejectReasonID == nil || !s.Reasons.Exists(*req.RejectReasonID) {
			return models.NewErrorResponse(http.StatusBadRequest, "rejectReasonId is missing or unknown")
		}
		row.RejectReasonID = req.RejectReasonID
		if s.Reasons.RequiresDetail(*req.RejectReasonID) {
			if req.RejectReasonDetail == nil || strings.TrimSpace(*req.RejectReasonDetail) == "" {
				return models.NewErrorResponse(http.StatusBadRequest, "rejectReasonDetail is required for this reason")
			}
			row.RejectReasonDetail = req.RejectReasonDetail
		}

	case models.Deliver:
		if req.WorkedMinutes != nil && *req.WorkedMinutes < 0 {
			return models.NewErrorResponse(http.StatusBadRequest, "workedMinutes must be non-negative")
		}
		row.WorkedMinutes = req.WorkedMinutes
	}
	return nil
}

// errTradeMoved - последняя строка сделки изменилась после того, как ее прочитал вызывающий код.
var errTradeMoved = errors.New("trade moved on")

// ApplyOverride перезаписывает состояние сделки служебным действием в обход таблицы переходов.
func (s *TradeService) ApplyOverride(ctx context.Context, jobId, contractorId string, action models.TradeAction) (*models.Trade, error) {
	return s.applyOverride(ctx, jobId, contractorId, action, "")
}

// applyOverride применяет служебное действие. Если expectedID не пуст, действие применяется
// только пока последняя строка сделки совпадает с ним; иначе возвращается errTradeMoved.
func (s *TradeService) applyOverride(ctx context.Context, jobId, contractorId string, action models.TradeAction, expectedID string) (*models.Trade, error) {
	if jobId == "" || contractorId == "" || action == "" {
		return nil, models.NewErrorResponse(http.StatusBadRequest, "missing required fields: jobId, contractorId or action")
	}

	next, err := statemachine.OverrideState(action)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	latest, err := s.Repo.LatestTrade(ctx, jobId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load trade")
	}
	if expectedID != "" && (latest == nil || latest.ID != expectedID) {
		return nil, errTradeMoved
	}
	if latest == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "trade not found")
	}
	if latest.State.IsTerminal() {
		return nil, models.NewErrorResponse(http.StatusConflict, "trade is already closed")
	}

	trade, err := s.Repo.InsertTrade(ctx, models.Trade{
		JobID:          jobId,
		ContractorID:   contractorId,
		State:          next,
		SelectedAction: &action,
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveOverride(string(action))
	return trade, nil
}

// GetTrade возвращает текущее состояние сделки с группой для аудитории и роли.
func (s *TradeService) GetTrade(ctx context.Context, jobId, contractorId, audienceStr, roleStr string) (*models.TradeView, error) {
	audience, err := utils.ParseAudience(audienceStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	role, err := utils.ParseRole(roleStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	current, err := s.Repo.GetCurrentTrade(ctx, jobId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load trade")
	}
	if current == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "trade not found")
	}

	view := newTradeView(*current, audience, role)
	return &view, nil
}

// ListJobTrades возвращает текущие сделки по заказу.
func (s *TradeService) ListJobTrades(ctx context.Context, jobId, audienceStr, roleStr, limitStr, offsetStr string) ([]models.TradeView, error) {
	limit, offset, err := utils.ParseLimitOffset(limitStr, offsetStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	audience, err := utils.ParseAudience(audienceStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	role, err := utils.ParseRole(roleStr)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusBadRequest, err.Error())
	}

	job, err := s.Jobs.GetJob(ctx, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check job existence")
	}
	if job == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}

	trades, err := s.Repo.ListJobTrades(ctx, jobId, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]models.TradeView, 0, len(trades))
	for _, trade := range trades {
		views = append(views, newTradeView(trade, audience, role))
	}
	return views, nil
}

func newTradeView(current models.CurrentTrade, audience models.Audience, role models.TradeRole) models.TradeView {
	group := statemachine.GroupOf(current.State, audience)
	return models.TradeView{
		CurrentTrade:   current,
		StateLabel:     statemachine.StateLabel(current.State, role),
		GroupID:        group.ID,
		GroupName:      group.Name,
		GroupLabel:     group.LabelFor(role),
		AllowedActions: statemachine.AllowedActions(current.State, role),
	}
}

// GetHistory возвращает историю сделки.
func (s *TradeService) GetHistory(ctx context.Context, jobId, contractorId string) ([]models.Trade, error) {
	history, err := s.Repo.GetHistory(ctx, jobId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load trade history")
	}
	if len(history) == 0 {
		return nil, models.NewErrorResponse(http.StatusNotFound, "trade not found")
	}
	return history, nil
}

// GetPrice возвращает действующую цену, количество и сумму к оплате.
func (s *TradeService) GetPrice(ctx context.Context, jobId, contractorId string) (*models.TradePrice, error) {
	job, err := s.Jobs.GetJob(ctx, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check job existence")
	}
	if job == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}

	history, err := s.GetHistory(ctx, jobId, contractorId)
	if err != nil {
		return nil, err
	}

	pricing, err := s.pricing(ctx, job, history)
	if err != nil {
		return nil, err
	}
	return &models.TradePrice{
		UnitPrice:           pricing.Price.UnitPrice,
		Quantity:            pricing.Price.Quantity,
		PaymentPrice:        statemachine.PaymentPrice(pricing.Price.UnitPrice, pricing.Price.Quantity, pricing.Deferrable, pricing.FeePercent),
		Deferrable:          pricing.Deferrable,
		DeferringFeePercent: pricing.FeePercent,
	}, nil
}

func (s *TradeService) pricing(ctx context.Context, job *models.Job, history []models.Trade) (statemachine.Pricing, error) {
	pricing := statemachine.Pricing{
		Price:      statemachine.CurrentPrice(history),
		Deferrable: job.Deferrable,
	}
	if job.Deferrable {
		fee, err := s.Jobs.DeferringFeeRate(ctx, job.OutsourcerID)
		if err != nil {
			return pricing, models.NewErrorResponse(http.StatusInternalServerError, "failed to load deferring fee")
		}
		pricing.FeePercent = fee
	}
	return pricing, nil
}

// GetClosure возвращает сводку по закрытой сделке с причиной закрытия.
func (s *TradeService) GetClosure(ctx context.Context, jobId, contractorId string) (*models.ClosureSummary, error) {
	job, err := s.Jobs.GetJob(ctx, jobId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to check job existence")
	}
	if job == nil {
		return nil, models.NewErrorResponse(http.StatusNotFound, "job not found")
	}

	history, err := s.GetHistory(ctx, jobId, contractorId)
	if err != nil {
		return nil, err
	}
	latest := history[len(history)-1]
	if !latest.State.IsTerminal() {
		return nil, models.NewErrorResponse(http.StatusConflict, "trade is not closed")
	}

	proposals, err := s.Repo.ProposalHistory(ctx, jobId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load proposal history")
	}
	deliveries, err := s.Repo.DeliveryHistory(ctx, jobId, contractorId)
	if err != nil {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load delivery history")
	}

	input := statemachine.ClosureInput{
		Trade:        latest,
		LastProposal: statemachine.LastProposal(proposals),
		LastDelivery: statemachine.LastDelivery(deliveries),
	}
	if latest.State == models.ClosedState {
		input.AutoFinished, err = s.Repo.HasAutoFinish(ctx, jobId, contractorId)
		if err != nil {
			return nil, models.NewErrorResponse(http.StatusInternalServerError, "failed to load rating")
		}
	}

	pricing, err := s.pricing(ctx, job, history)
	if err != nil {
		return nil, err
	}

	summary, err := statemachine.SummarizeClosure(input, pricing, s.Reasons)
	if errors.Is(err, statemachine.ErrInconsistentHistory) {
		return nil, models.NewErrorResponse(http.StatusInternalServerError, err.Error())
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ExpireStale применяет служебные действия к просроченным сделкам и возвращает их число.
// Сделки, у которых после выборки появилась новая строка, пропускаются.
func (s *TradeService) ExpireStale(ctx context.Context, policy statemachine.ExpiryPolicy, now time.Time) (int, error) {
	states := policy.States()
	if len(states) == 0 {
		return 0, nil
	}

	stale, err := s.Repo.ListStale(ctx, states, policy.Cutoff(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list stale trades: %w", err)
	}

	expired := 0
	for _, trade := range stale {
		action, ok := policy.Due(trade.Trade, now)
		if !ok {
			continue
		}
		_, err := s.applyOverride(ctx, trade.JobID, trade.ContractorID, action, trade.ID)
		if errors.Is(err, errTradeMoved) {
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("failed to expire trade %s/%s: %w", trade.JobID, trade.ContractorID, err)
		}
		expired++
	}
	return expired, nil
}

func latestOffer(history []models.Trade, actions ...models.TradeAction) *models.Trade {
	for i := len(history) - 1; i >= 0; i-- {
		for _, action := range actions {
			if history[i].Action() == action {
				return &history[i]
			}
		}
	}
	return nil
}

func inconsistent(reason string) error {
	return models.NewErrorResponse(http.StatusInternalServerError,
		fmt.Errorf("%w: %s", statemachine.ErrInconsistentHistory, reason).Error())
}

func positive(v *int64) bool {
	return v != nil && *v > 0
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
