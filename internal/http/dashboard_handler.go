package httpapi

import (
	"fmt"
	"net/http"

	"clinic-register/internal/domain"
	"clinic-register/internal/service"

	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardHandler struct {
	svc    *service.RegisterService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.RegisterService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.svc.Dashboard(r.Context())))
}

// Health reports liveness plus the last persistence failure, if any.
// A failing store degrades the status but still answers 200: the register keeps serving from memory.
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	ps := h.svc.PersistStatus()
	status := "ok"
	if ps.LastErrorAt != nil && (ps.LastSavedAt == nil || ps.LastErrorAt.After(*ps.LastSavedAt)) {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"status": status, "persistence": ps}))
}

func (h *DashboardHandler) ExportPatients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	patients, _ := h.svc.Snapshot()
	data, err := GeneratePatientsExport(patients)
	h.writeXLSX(w, "patients", data, err)
}

func (h *DashboardHandler) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	_, appointments := h.svc.Snapshot()
	data, err := GenerateAppointmentsExport(appointments)
	h.writeXLSX(w, "appointments", data, err)
}

func (h *DashboardHandler) writeXLSX(w http.ResponseWriter, name string, data []byte, err error) {
	if err != nil {
		h.logger.Error("export failed", zap.String("export", name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("export failed"))
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, h.svc.Now().Format(domain.DateLayout))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
