package api

import (
	"net/http"

	"gearpool/internal/frontdesk/audit"
	"gearpool/internal/frontdesk/handlers"
	"gearpool/internal/frontdesk/service"
	"gearpool/pkg/client"
	"gearpool/pkg/logger"
)

// SetupRouter builds the desk API. trail may be nil when event intake
// is disabled; the audit endpoint then answers 503.
func SetupRouter(cl *client.Client, trail *audit.Trail, log *logger.Logger) *http.ServeMux {
	frontDeskService := service.NewFrontDeskService(cl, log)
	flowHandler := handlers.NewFlowHandler(frontDeskService, log)
	auditHandler := handlers.NewAuditHandler(trail, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/frontdesk/execute", flowHandler.ExecuteFlow)
	mux.HandleFunc("/api/v1/frontdesk/flows", flowHandler.ListFlows)
	mux.HandleFunc("/api/v1/frontdesk/audit", auditHandler.RecentActivity)
	mux.HandleFunc("/api/v1/frontdesk/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}
