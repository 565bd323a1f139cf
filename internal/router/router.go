package router

import (
	"net/http"

	"github.com/senyabanana/trade-service/internal/handlers"
	"github.com/senyabanana/trade-service/internal/metrics"
)

func InitRoutes(tradeHandler *handlers.TradeHandler, partnerHandler *handlers.PartnerHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("/api/trades/{jobId}/{contractorId}", tradeHandler.GetTrade)
	mux.HandleFunc("/api/trades/{jobId}/{contractorId}/actions", tradeHandler.ApplyAction)
	mux.HandleFunc("/api/trades/{jobId}/{contractorId}/history", tradeHandler.GetHistory)
	mux.HandleFunc("/api/trades/{jobId}/{contractorId}/price", tradeHandler.GetPrice)
	mux.HandleFunc("/api/trades/{jobId}/{contractorId}/closure", tradeHandler.GetClosure)
	mux.HandleFunc("/api/jobs/{jobId}/trades", tradeHandler.GetJobTrades)
	mux.HandleFunc("/api/admin/trades/{jobId}/{contractorId}/override", tradeHandler.ApplyOverride)

	mux.HandleFunc("GET /api/partners/candidate", partnerHandler.CheckCandidate)
	mux.HandleFunc("/api/partners/apply", partnerHandler.Apply)
	mux.HandleFunc("PUT /api/partners/status", partnerHandler.UpdateStatus)

	return mux
}
