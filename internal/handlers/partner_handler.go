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

// PartnerHandler - структура для обработки HTTP-запросов по партнерству.
type PartnerHandler struct {
	Service *services.PartnerService
	Logger  *logrus.Logger
	Timeout time.Duration
}

// NewPartnerHandler создаёт новый экземпляр PartnerHandler.
func NewPartnerHandler(service *services.PartnerService, logger *logrus.Logger, timeout time.Duration) *PartnerHandler {
	return &PartnerHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CheckCandidate обрабатывает запросы на проверку кандидата в партнеры.
func (h *PartnerHandler) CheckCandidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	outsourcerId := r.URL.Query().Get("outsourcerId")
	contractorId := r.URL.Query().Get("contractorId")

	eligibility, err := h.Service.CheckCandidate(ctx, outsourcerId, contractorId)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to check partner candidate")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, eligibility); err != nil {
		h.Logger.WithError(err).Error("failed to encode response")
	}
}

// Apply обрабатывает запросы на приглашение исполнителя в партнеры.
func (h *PartnerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var partnerReq models.PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&partnerReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	partner, err := h.Service.Apply(ctx, partnerReq)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to apply partner")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, partner); err != nil {
		h.Logger.WithError(err).Error("failed to encode response")
	}
}

// UpdateStatus обрабатывает запросы на изменение статуса партнерства.
func (h *PartnerHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only PUT is allowed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	outsourcerId := r.URL.Query().Get("outsourcerId")
	contractorId := r.URL.Query().Get("contractorId")
	status := r.URL.Query().Get("status")

	partner, err := h.Service.UpdateStatus(ctx, outsourcerId, contractorId, status)
	if err != nil {
		sendServiceError(h.Logger, w, err, "failed to update partner status")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, partner); err != nil {
		h.Logger.WithError(err).Error("failed to encode response")
	}
}
