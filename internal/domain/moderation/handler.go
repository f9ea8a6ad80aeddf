package moderation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"huella-urbana/internal/domain/reports"
	"huella-urbana/internal/middleware"
	"huella-urbana/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/moderation", func(mr chi.Router) {
		mr.Use(middleware.RequireRole(auth.RoleModerator, auth.RoleAdmin))

		mr.Get("/reports", listHandler(svc))
		mr.Get("/reports/{reportID}", detailsHandler(svc))
		mr.Get("/reports/{reportID}/log", logHandler(svc))
		mr.Post("/reports/{reportID}/approve", approveHandler(svc))
		mr.Post("/reports/{reportID}/reject", rejectHandler(svc))
		mr.Post("/reports/{reportID}/comments", commentHandler(svc))
		mr.Get("/export.csv", exportHandler(svc))
	})
}

type queueItem struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Date       string             `json:"date"` // dd/mm/yyyy
	AnimalType reports.AnimalType `json:"animal_type"`
	Severity   reports.Severity   `json:"severity"`
	Status     reports.Status     `json:"status"`
	Reporter   string             `json:"reporter"`
	Anonymous  bool               `json:"anonymous"`
	Photos     int                `json:"photos"`
	CreatedAt  time.Time          `json:"created_at"`
}

type queueResponse struct {
	Items      []queueItem `json:"items"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	HasPrev    bool        `json:"has_prev"`
	HasNext    bool        `json:"has_next"`
	Counts     Counts      `json:"counts"`
}

type decisionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type textRequest struct {
	Reason string `json:"reason"`
	Text   string `json:"text"`
}

type logEntryResponse struct {
	ID          string    `json:"id"`
	ModeratorID string    `json:"moderator_id"`
	Action      Action    `json:"action"`
	Reason      string    `json:"reason"`
	At          time.Time `json:"at"`
}

// listHandler godoc
// @Summary Cola de moderación
// @Description Reportes del más reciente al más antiguo, 5 por página, con conteos por estado.
// @Tags moderation
// @Produce json
// @Param status query string false "pending|approved|rejected"
// @Param severity query string false "minor|moderate|severe"
// @Param animal query string false "dog|cat|other"
// @Param anonymous query string false "si|no"
// @Param page query string false "Página (desde 1)"
// @Success 200 {object} queueResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /moderation/reports [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := svc.List(r.Context(), Query{
			Status:    q.Get("status"),
			Severity:  q.Get("severity"),
			Animal:    q.Get("animal"),
			Anonymous: q.Get("anonymous"),
			Page:      q.Get("page"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		items := make([]queueItem, 0, len(page.Items))
		for _, rep := range page.Items {
			items = append(items, queueItem{
				ID:         rep.ID,
				Title:      rep.Title,
				Date:       rep.Date.Format("02/01/2006"),
				AnimalType: rep.AnimalType,
				Severity:   rep.Severity,
				Status:     rep.Status,
				Reporter:   rep.VisibleName(),
				Anonymous:  rep.Anonymous,
				Photos:     len(rep.Photos),
				CreatedAt:  rep.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, queueResponse{
			Items:      items,
			Page:       page.Number,
			TotalPages: page.TotalPages,
			HasPrev:    page.HasPrev,
			HasNext:    page.HasNext,
			Counts:     page.Counts,
		})
	}
}

// detailsHandler godoc
// @Summary Detalle de reporte
// @Tags moderation
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} Details
// @Failure 404 {string} string "not found"
// @Router /moderation/reports/{reportID} [get]
func detailsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Details(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// logHandler godoc
// @Summary Bitácora de moderación
// @Tags moderation
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {array} logEntryResponse
// @Failure 404 {string} string "not found"
// @Router /moderation/reports/{reportID}/log [get]
func logHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Log(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]logEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, logEntryResponse{
				ID:          e.ID,
				ModeratorID: e.ModeratorID,
				Action:      e.Action,
				Reason:      e.Reason,
				At:          e.At,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// approveHandler godoc
// @Summary Aprobar reporte
// @Tags moderation
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} decisionResponse
// @Failure 404 {string} string "not found"
// @Router /moderation/reports/{reportID}/approve [post]
func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if _, err := svc.Approve(r.Context(), chi.URLParam(r, "reportID"), claims.UserID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse{Status: "ok", Message: "Reporte aprobado correctamente."})
	}
}

// rejectHandler godoc
// @Summary Rechazar reporte
// @Description El motivo es obligatorio. Se acepta JSON `{"reason": "..."}` o un formulario con `reason`.
// @Tags moderation
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Param payload body textRequest true "Motivo"
// @Success 200 {object} decisionResponse
// @Failure 400 {object} decisionResponse
// @Failure 404 {string} string "not found"
// @Router /moderation/reports/{reportID}/reject [post]
func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := readText(r)
		if err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		claims, _ := middleware.GetClaims(r.Context())
		if _, err := svc.Reject(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, req.Reason); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse{Status: "ok", Message: "Reporte rechazado correctamente."})
	}
}

// commentHandler godoc
// @Summary Comentario interno
// @Tags moderation
// @Accept json
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Param payload body textRequest true "Comentario en text"
// @Success 201 {object} logEntryResponse
// @Failure 400 {object} decisionResponse
// @Failure 404 {string} string "not found"
// @Router /moderation/reports/{reportID}/comments [post]
func commentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := readText(r)
		if err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		claims, _ := middleware.GetClaims(r.Context())
		e, err := svc.Comment(r.Context(), chi.URLParam(r, "reportID"), claims.UserID, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, logEntryResponse{
			ID:          e.ID,
			ModeratorID: e.ModeratorID,
			Action:      e.Action,
			Reason:      e.Reason,
			At:          e.At,
		})
	}
}

// exportHandler godoc
// @Summary Exportar reportes
// @Tags moderation
// @Produce text/csv
// @Success 200 {string} string "CSV"
// @Router /moderation/export.csv [get]
func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// se arma completo antes de escribir headers para poder responder 500
		var buf bytes.Buffer
		if err := svc.ExportCSV(r.Context(), &buf); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+svc.ExportFilename()+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func readText(r *http.Request) (textRequest, error) {
	var req textRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Reason = r.PostForm.Get("reason")
	req.Text = r.PostForm.Get("text")
	return req, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reports.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrReasonRequired):
		writeJSON(w, http.StatusBadRequest, decisionResponse{Status: "error", Message: "Debes escribir un motivo de rechazo."})
	case errors.Is(err, ErrTextRequired):
		writeJSON(w, http.StatusBadRequest, decisionResponse{Status: "error", Message: "Debes escribir un comentario."})
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
