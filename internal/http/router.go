package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// Router stdlib http.ServeMux with request-id and access-log middleware
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	reqID := req.Header.Get(requestIDHeader)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	w.Header().Set(requestIDHeader, reqID)

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	r.mux.ServeHTTP(sw, req)

	r.logger.Info("http request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", sw.status),
		zap.Duration("duration", time.Since(start)),
	)
}

// RegisterPatientRoutes /api/v1/patients and /api/v1/patients/{id}[/appointments]
func (r *Router) RegisterPatientRoutes(h *PatientsHandler) {
	r.Handle("/api/v1/patients", h.ServeHTTP)
	r.Handle("/api/v1/patients/", h.ServeHTTP)
}

// RegisterAppointmentRoutes /api/v1/appointments and /api/v1/appointments/{id}[/status]
func (r *Router) RegisterAppointmentRoutes(h *AppointmentsHandler) {
	r.Handle("/api/v1/appointments", h.ServeHTTP)
	r.Handle("/api/v1/appointments/", h.ServeHTTP)
}

// RegisterDashboardRoutes overview, exports and health
func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.Handle("/api/v1/dashboard", h.GetDashboard)
	r.Handle("/api/v1/export/patients.xlsx", h.ExportPatients)
	r.Handle("/api/v1/export/appointments.xlsx", h.ExportAppointments)
	r.Handle("/healthz", h.Health)
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusWriter) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}
