package wizard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	// maxUploadBody limita el cuerpo multipart (5 imágenes de 5 MiB + margen).
	maxUploadBody = 32 << 20

	// PhotosField es el campo multipart de las imágenes.
	PhotosField = "photos"
)

// FieldErrorer lo implementan los errores de validación del destino del
// formulario, para devolverlos como 422 sin conocer su tipo.
type FieldErrorer interface {
	error
	FieldErrors() map[string][]string
}

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/wizard", func(wr chi.Router) {
		wr.Post("/", startHandler(svc))
		wr.Get("/{sessionID}", viewHandler(svc))
		wr.Patch("/{sessionID}/fields", setFieldsHandler(svc))
		wr.Post("/{sessionID}/next", nextHandler(svc))
		wr.Post("/{sessionID}/prev", prevHandler(svc))
		wr.Post("/{sessionID}/location", locationHandler(svc))
		wr.Post("/{sessionID}/attachments", addAttachmentsHandler(svc))
		wr.Delete("/{sessionID}/attachments/{index}", removeAttachmentHandler(svc))
		wr.Post("/{sessionID}/submit", submitHandler(svc))
	})
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// startHandler godoc
// @Summary Iniciar asistente de reporte
// @Description Crea una sesión del asistente en el paso 1 y devuelve la vista inicial.
// @Tags wizard
// @Produce json
// @Success 201 {object} View
// @Failure 500 {string} string "internal error"
// @Router /wizard [post]
func startHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Start(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

// viewHandler godoc
// @Summary Ver asistente
// @Tags wizard
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} View
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID} [get]
func viewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.View(r.Context(), chi.URLParam(r, "sessionID"))
		respond(w, v, err)
	}
}

// setFieldsHandler godoc
// @Summary Actualizar campos del borrador
// @Description Recibe un objeto campo→valor. La descripción recalcula el contador; una fecha futura se limpia y genera aviso.
// @Tags wizard
// @Accept json
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param payload body map[string]string true "Campos"
// @Success 200 {object} View
// @Failure 400 {string} string "invalid json / unknown field"
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID}/fields [patch]
func setFieldsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]string
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		v, err := svc.SetFields(r.Context(), chi.URLParam(r, "sessionID"), fields)
		respond(w, v, err)
	}
}

// nextHandler godoc
// @Summary Avanzar de paso
// @Description Valida el paso actual. Si falla, la vista trae el aviso y los campos marcados y el paso no cambia.
// @Tags wizard
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} View
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID}/next [post]
func nextHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Next(r.Context(), chi.URLParam(r, "sessionID"))
		respond(w, v, err)
	}
}

// prevHandler godoc
// @Summary Retroceder de paso
// @Tags wizard
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Success 200 {object} View
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID}/prev [post]
func prevHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Prev(r.Context(), chi.URLParam(r, "sessionID"))
		respond(w, v, err)
	}
}

// locationHandler godoc
// @Summary Marcar ubicación en el mapa
// @Description Reemplaza el marcador actual por uno nuevo en (lat, lng).
// @Tags wizard
// @Accept json
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param payload body locationRequest true "Coordenadas"
// @Success 200 {object} View
// @Failure 400 {string} string "lat and lng are required / out of range"
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID}/location [post]
func locationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req locationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Lat == nil || req.Lng == nil {
			http.Error(w, "lat and lng are required", http.StatusBadRequest)
			return
		}
		v, err := svc.PickLocation(r.Context(), chi.URLParam(r, "sessionID"), LatLng{Lat: *req.Lat, Lng: *req.Lng})
		respond(w, v, err)
	}
}

// addAttachmentsHandler godoc
// @Summary Agregar imágenes
// @Description Multipart con uno o más archivos en `photos`. Se aceptan hasta 5 imágenes de hasta 5 MiB; el resto se descarta sin error.
// @Tags wizard
// @Accept mpfd
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param photos formData file true "Imágenes"
// @Success 200 {object} View
// @Failure 400 {string} string "invalid multipart form"
// @Failure 404 {string} string "session not found"
// @Router /wizard/{sessionID}/attachments [post]
func addAttachmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
		files, err := ReadMultipartAttachments(r, PhotosField)
		if err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		v, err := svc.AddAttachments(r.Context(), chi.URLParam(r, "sessionID"), files)
		respond(w, v, err)
	}
}

// removeAttachmentHandler godoc
// @Summary Quitar imagen
// @Tags wizard
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Param index path int true "Índice de la imagen (desde 0)"
// @Success 200 {object} View
// @Failure 400 {string} string "index must be an integer"
// @Failure 404 {string} string "session not found / attachment not found"
// @Router /wizard/{sessionID}/attachments/{index} [delete]
func removeAttachmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			http.Error(w, "index must be an integer", http.StatusBadRequest)
			return
		}
		v, err := svc.RemoveAttachment(r.Context(), chi.URLParam(r, "sessionID"), idx)
		respond(w, v, err)
	}
}

// submitHandler godoc
// @Summary Enviar reporte
// @Description Solo disponible en el último paso. Entrega campos e imágenes al destino del formulario y descarta la sesión si se acepta.
// @Tags wizard
// @Produce json
// @Param sessionID path string true "ID de la sesión"
// @Success 201 {object} SubmitResult
// @Failure 404 {string} string "session not found"
// @Failure 409 {string} string "submit is only allowed on the final step"
// @Failure 422 {object} map[string][]string "errores por campo"
// @Router /wizard/{sessionID}/submit [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Submit(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			var fe FieldErrorer
			if errors.As(err, &fe) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"errors": fe.FieldErrors(),
				})
				return
			}
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// ReadMultipartAttachments lee los archivos de un campo multipart. Los que
// exceden el tamaño máximo no se leen: AttachmentSet los descarta igual.
func ReadMultipartAttachments(r *http.Request, field string) ([]Attachment, error) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		return nil, err
	}
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	out := make([]Attachment, 0, len(headers))
	for _, fh := range headers {
		a := Attachment{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
		}
		if fh.Size <= MaxAttachmentSize {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			a.Data, err = io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return nil, err
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func respond(w http.ResponseWriter, v View, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, ErrAttachmentNotFound):
		http.Error(w, "attachment not found", http.StatusNotFound)
	case errors.Is(err, ErrNotFinalStep):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
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
