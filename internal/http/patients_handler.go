package httpapi

import (
	"net/http"
	"strings"

	"clinic-register/internal/domain"
	"clinic-register/internal/service"

	"go.uber.org/zap"
)

const patientsPath = "/api/v1/patients"

type PatientsHandler struct {
	svc    *service.RegisterService
	logger *zap.Logger
}

func NewPatientsHandler(svc *service.RegisterService, logger *zap.Logger) *PatientsHandler {
	return &PatientsHandler{svc: svc, logger: logger}
}

func (h *PatientsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == patientsPath || r.URL.Path == patientsPath+"/" {
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

	rest := strings.TrimPrefix(r.URL.Path, patientsPath+"/")
	idPart, sub, _ := strings.Cut(rest, "/")
	id, ok := parseID(idPart)
	if !ok {
		writeJSON(w, http.StatusNotFound, Fail("patient not found"))
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
	case "appointments":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.appointments(w, r, id)
	case "status":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.setStatus(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *PatientsHandler) list(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListPatients(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *PatientsHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	detail, err := h.svc.GetPatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(detail))
}

func (h *PatientsHandler) appointments(w http.ResponseWriter, r *http.Request, id int64) {
	items, err := h.svc.PatientAppointments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

func (h *PatientsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in domain.PatientInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	p, err := h.svc.CreatePatient(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(p))
}

func (h *PatientsHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	var in domain.PatientInput
	if err := readBodyJSON(r, maxBodyBytes, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	p, err := h.svc.UpdatePatient(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

func (h *PatientsHandler) setStatus(w http.ResponseWriter, r *http.Request, id int64) {
	var payload struct {
		Status domain.PatientStatus `json:"status"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body"))
		return
	}
	p, err := h.svc.SetPatientStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}

// delete requires ?confirm=true; the cascade removes the patient's appointments too
func (h *PatientsHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, Fail("deleting a patient also deletes their appointments; repeat with confirm=true"))
		return
	}
	removed, err := h.svc.DeletePatient(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"id": id, "appointmentsRemoved": removed}))
}
