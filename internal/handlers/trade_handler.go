package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/senyabanana/trade-service/internal/models"
	"github.com/senyabanana/trade-service/internal/services"
	"github.com/senyabanana/trade-service/internal/utils"

	"github.com/sirupsen/logrus"
)

// TradeHandler - структура для обработки HTTP-запросов по сделкам.
type TradeHandler struct {
	Service *services.TradeService
	Logger  *logrus.Logger
	Timeout time.Duration
}

// NewTradeHandler создаёт новый экземпляр TradeHandler.
func NewTradeHandler(service *services.TradeService, logger *logrus.Logger, timeout time.Duration) *TradeHandler {
	return &TradeHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ApplyAction обрабатывает запросы участников сделки на выполнение действия.
func (h *TradeHandler) ApplyAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	contractorId := r.PathValue("contractorId")

	var actionReq models.TradeActionRequest
	if err := json.NewDecoder(r.Body).Decode(&actionReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.Service.ApplyAction(ctx, jobId, contractorId, actionReq)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to apply trade action")
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"job_id":        jobId,
		"contractor_id": contractorId,
		"action":        actionReq.Action,
		"state":         trade.State,
	}).Info("trade action applied")
	h.send(w, http.StatusOK, trade)
}

// ApplyOverride обрабатывает административные запросы на перезапись состояния сделки.
func (h *TradeHandler) ApplyOverride(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	jobId := r.PathValue("jobId")
	contractorId := r.PathValue("contractorId")

	var overrideReq models.TradeOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&overrideReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trade, err := h.Service.ApplyOverride(ctx, jobId, contractorId, overrideReq.Action)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to override trade state")
		return
	}

	h.Logger.WithFields(logrus.Fields{
		"job_id":        jobId,
		"contractor_id": contractorId,
		"action":        overrideReq.Action,
		"state":         trade.State,
	}).Warn("trade state overridden")
	h.send(w, http.StatusOK, trade)
}

// GetTrade обрабатывает запросы для получения текущего состояния сделки.
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	audience := r.URL.Query().Get("audience")
	role := r.URL.Query().Get("role")

	view, err := h.Service.GetTrade(ctx, r.PathValue("jobId"), r.PathValue("contractorId"), audience, role)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to retrieve trade")
		return
	}
	h.send(w, http.StatusOK, view)
}

// GetHistory обрабатывает запросы для получения истории сделки.
func (h *TradeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	history, err := h.Service.GetHistory(ctx, r.PathValue("jobId"), r.PathValue("contractorId"))
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to retrieve trade history")
		return
	}
	h.send(w, http.StatusOK, history)
}

// GetPrice обрабатывает запросы для получения цены и суммы к оплате.
func (h *TradeHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	price, err := h.Service.GetPrice(ctx, r.PathValue("jobId"), r.PathValue("contractorId"))
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to calculate price")
		return
	}
	h.send(w, http.StatusOK, price)
}

// GetClosure обрабатывает запросы для получения сводки по закрытой сделке.
func (h *TradeHandler) GetClosure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	summary, err := h.Service.GetClosure(ctx, r.PathValue("jobId"), r.PathValue("contractorId"))
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to classify closure")
		return
	}
	h.send(w, http.StatusOK, summary)
}

// GetJobTrades обрабатывает запросы для получения списка сделок по заказу.
func (h *TradeHandler) GetJobTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	query := r.URL.Query()
	views, err := h.Service.ListJobTrades(ctx, r.PathValue("jobId"),
		query.Get("audience"), query.Get("role"), query.Get("limit"), query.Get("offset"))
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to retrieve trades")
		return
	}

	if len(views) == 0 {
		utils.SendErrorResponse(w, http.StatusNotFound, "no trades found for this job")
		return
	}
	h.send(w, http.StatusOK, views)
}

func (h *TradeHandler) send(w http.ResponseWriter, status int, payload any) {
	if err := utils.SendJSON(w, status, payload); err != nil {
		h.Logger.WithError(err).Error("failed to encode response")
	}
}
