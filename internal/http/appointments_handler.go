package httpapi

import (
	"net/http"
	"strings"

	"clinic-register/internal/domain"
	"clinic-register/internal/service"

	"go.uber.org/zap"
)

const appointmentsPath = "/api/v1/appointments"

type AppointmentsHandler struct {
	svc    *service.RegisterService
	logger *zap.Logger
}

func NewAppointmentsHandler(svc *service.RegisterService, logger *zap.Logger) *AppointmentsHandler {
	return &AppointmentsHandler{svc: svc, logger: logger}
}

// appointmentView appointment plus the statuses it may move to next
type appointmentView struct {
	domain.Appointment
	NextStatuses []domain.AppointmentStatus `json:"nextStatuses"`
}

func (h *AppointmentsHandler) view(a domain.Appointment) appointmentView {
	return appointmentView{Appointment: a, NextStatuses: h.svc.NextStatuses(a)}
}

func (h *AppointmentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == appointmentsPath || r.URL.Path == appointmentsPath+"/" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPost)
		}
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, appointmentsPath+"/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, ok := parseID(idPart)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("appointment not found"))
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodDelete)
		}
	case "status":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.updateStatus(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *AppointmentsHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListAppointments(r.Context(), r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *AppointmentsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	a, err := h.svc.GetAppointment(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(a)))
}

func (h *AppointmentsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.AppointmentInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	a, err := h.svc.CreateAppointment(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(h.view(a)))
}

func (h *AppointmentsHandler) updateStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var payload struct {
		Status domain.AppointmentStatus `json:"status"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	a, err := h.svc.UpdateAppointmentStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(a)))
}

func (h *AppointmentsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.svc.DeleteAppointment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"id": id}))
}
