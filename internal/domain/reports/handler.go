package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"huella-urbana/internal/domain/wizard"
	"huella-urbana/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// maxUploadBody limita el cuerpo multipart (5 fotos de 5 MiB + campos).
const maxUploadBody = 32 << 20

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Post("/", submitReportHandler(svc))
		rr.Get("/{reportID}", getReportHandler(svc))
	})

	r.Get("/map/reports", mapReportsHandler(svc))
}

type photoResponse struct {
	URL    string `json:"url"`
	Order  int    `json:"order"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type reportResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Time        string          `json:"time,omitempty"`
	AnimalType  AnimalType      `json:"animal_type"`
	DogCount    int             `json:"dog_count"`
	Severity    Severity        `json:"severity"`
	Description string          `json:"description"`
	Address     string          `json:"address"`
	Sector      Sector          `json:"sector,omitempty"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Reporter    string          `json:"reporter"`
	Anonymous   bool            `json:"anonymous"`
	Status      Status          `json:"status"`
	Photos      []photoResponse `json:"photos"`
	CreatedAt   time.Time       `json:"created_at"`
}

type mapMarker struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AnimalType  AnimalType `json:"animal_type"`
	DogCount    int        `json:"dog_count"`
	Severity    Severity   `json:"severity"`
	Time        string     `json:"time"`
	Sector      string     `json:"sector"`
	Date        string     `json:"date"` // dd/mm/yyyy
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Address     string     `json:"address"`
	Photo       string     `json:"photo"`
}

// submitReportHandler godoc
// @Summary Enviar reporte
// @Description Multipart con los campos del reporte y hasta 5 fotos en `photos`. Con `Accept: application/json` responde 201 con el reporte; si no, redirige (303) al inicio. Los errores de validación vuelven como 422 (JSON o fragmento HTML).
// @Tags reports
// @Accept mpfd
// @Produce json,html
// @Param title formData string true "Título"
// @Param date formData string true "Fecha YYYY-MM-DD"
// @Param animal_type formData string true "dog|cat|other"
// @Param severity formData string true "minor|moderate|severe"
// @Param description formData string true "Descripción (mínimo 50 caracteres)"
// @Param address formData string true "Dirección"
// @Param latitude formData number true "Latitud"
// @Param longitude formData number true "Longitud"
// @Param photos formData file false "Fotos"
// @Success 201 {object} reportResponse
// @Success 303 {string} string "redirect"
// @Failure 400 {string} string "invalid form"
// @Failure 422 {object} map[string][]string "errores por campo"
// @Router /reports [post]
func submitReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)

		var photos []wizard.Attachment
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			var err error
			photos, err = wizard.ReadMultipartAttachments(r, wizard.PhotosField)
			if err != nil {
				http.Error(w, "invalid form", http.StatusBadRequest)
				return
			}
		} else if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		in := InputFromValues(r.PostForm)
		for _, p := range photos {
			in.Photos = append(in.Photos, Upload{Name: p.Name, ContentType: p.ContentType, Size: p.Size, Data: p.Data})
		}

		var userID string
		if claims, ok := middleware.GetClaims(r.Context()); ok {
			userID = claims.UserID
		}

		rep, err := svc.Submit(r.Context(), userID, in)
		if err != nil {
			var fe *FormErrors
			if errors.As(err, &fe) {
				if wantsJSON(r) {
					writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": fe.FieldErrors()})
					return
				}
				writeErrorFragment(w, http.StatusUnprocessableEntity, fe)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusCreated, toReportResponse(rep))
			return
		}
		http.Redirect(w, r, successRedirect(rep.ID), http.StatusSeeOther)
	}
}

// getReportHandler godoc
// @Summary Ver reporte
// @Description Los reportes aprobados son públicos. Los demás solo los ve su autor o un moderador.
// @Tags reports
// @Produce json
// @Param reportID path string true "ID del reporte"
// @Success 200 {object} reportResponse
// @Failure 404 {string} string "not found"
// @Router /reports/{reportID} [get]
func getReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.GetByID(r.Context(), chi.URLParam(r, "reportID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if rep.Status != StatusApproved {
			claims, ok := middleware.GetClaims(r.Context())
			owner := ok && claims.UserID != "" && claims.UserID == rep.UserID
			if !ok || (!owner && !claims.CanModerate()) {
				// no revelar que existe
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
		}

		writeJSON(w, http.StatusOK, toReportResponse(rep))
	}
}

// mapReportsHandler godoc
// @Summary Reportes para el mapa
// @Description Reportes aprobados con coordenadas, listos para dibujar marcadores.
// @Tags reports
// @Produce json
// @Success 200 {array} mapMarker
// @Router /map/reports [get]
func mapReportsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListApproved(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]mapMarker, 0, len(items))
		for _, rep := range items {
			m := mapMarker{
				ID:          rep.ID,
				Title:       rep.Title,
				Description: rep.Description,
				AnimalType:  rep.AnimalType,
				DogCount:    rep.DogCount,
				Severity:    rep.Severity,
				Time:        rep.Time,
				Sector:      rep.Sector.Label(),
				Date:        rep.Date.Format("02/01/2006"),
				Lat:         rep.Latitude,
				Lng:         rep.Longitude,
				Address:     rep.Address,
			}
			if len(rep.Photos) > 0 {
				m.Photo = rep.Photos[0].URL
			}
			out = append(out, m)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toReportResponse(r Report) reportResponse {
	photos := make([]photoResponse, 0, len(r.Photos))
	for _, p := range r.Photos {
		photos = append(photos, photoResponse{URL: p.URL, Order: p.Order, Width: p.Width, Height: p.Height})
	}
	return reportResponse{
		ID:          r.ID,
		Title:       r.Title,
		Date:        r.Date.Format("2006-01-02"),
		Time:        r.Time,
		AnimalType:  r.AnimalType,
		DogCount:    r.DogCount,
		Severity:    r.Severity,
		Description: r.Description,
		Address:     r.Address,
		Sector:      r.Sector,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Reporter:    r.VisibleName(),
		Anonymous:   r.Anonymous,
		Status:      r.Status,
		Photos:      photos,
		CreatedAt:   r.CreatedAt,
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
