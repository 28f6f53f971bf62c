package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/inference"
	"github.com/gorilla/mux"
)

type Handler struct {
	service   *Service
	maxUpload int64
}

func NewHandler(service *Service, maxUpload int64) *Handler {
	return &Handler{service: service, maxUpload: maxUpload}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/analyses", h.handleAnalyze).Methods(http.MethodPost)
	r.HandleFunc("/patients/{id}/analyses", h.handleListHistory).Methods(http.MethodGet)
	r.HandleFunc("/patients/{id}/analyses", h.handleClearHistory).Methods(http.MethodDelete)
	r.HandleFunc("/patients/{id}/assessments", h.handleListAssessments).Methods(http.MethodGet)
	r.HandleFunc("/ai/health", h.handleAIHealth).Methods(http.MethodGet)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	req := Request{
		ImageBytes: imageBytes,
		MimeType:   header.Header.Get("Content-Type"),
		FileName:   header.Filename,
		PatientID:  r.FormValue("patient_id"),
		BodyRegion: r.FormValue("body_region"),
		Notes:      r.FormValue("notes"),
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.writeAnalyzeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"analysis": result})
}

func (h *Handler) writeAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case inference.IsPollingTimeout(err):
		logger.Log.WithError(err).Warn("Analysis inconclusive: polling timed out")
		http.Error(w, "analysis inconclusive: remote inference timed out, please retry", http.StatusGatewayTimeout)
	case inference.IsSubmissionError(err):
		logger.Log.WithError(err).Error("All inference protocols failed")
		http.Error(w, "inference service unavailable", http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
	default:
		logger.Log.WithError(err).Error("Analysis failed")
		http.Error(w, "analysis failed", http.StatusInternalServerError)
	}
}

func (h *Handler) handleListHistory(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	results, err := h.service.History(r.Context(), patientID)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list analysis history")
		http.Error(w, "failed to list history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": results})
}

func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	if err := h.service.ClearHistory(r.Context(), patientID); err != nil {
		logger.Log.WithError(err).Error("Failed to clear analysis history")
		http.Error(w, "failed to clear history", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.service.PersistedAssessments(r.Context(), patientID, limit)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list persisted assessments")
		http.Error(w, "failed to list assessments", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []AssessmentRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": records})
}

func (h *Handler) handleAIHealth(w http.ResponseWriter, r *http.Request) {
	status := h.service.ServiceStatus(r.Context())
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
