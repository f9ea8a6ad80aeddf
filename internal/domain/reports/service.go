package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"huella-urbana/internal/domain/wizard"
	"huella-urbana/internal/platform/logger"
	"huella-urbana/internal/ports/media"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	_ "golang.org/x/image/webp"
)

const (
	maxTitle   = 200
	maxAddress = 300
	maxName    = 200
	maxPhone   = 20
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Upload es una foto recibida con el formulario.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Input son los valores crudos del formulario, tal como llegan.
type Input struct {
	Title       string
	Date        string // YYYY-MM-DD
	Time        string // HH:MM
	AnimalType  string
	DogCount    string
	Severity    string
	Description string

	Address   string
	Sector    string
	Latitude  string
	Longitude string

	ReporterName  string
	ReporterEmail string
	ReporterPhone string
	Anonymous     bool

	Photos []Upload
}

// InputFromValues arma un Input desde los campos del formulario.
// Usa los mismos nombres que el asistente.
func InputFromValues(v url.Values) Input {
	return Input{
		Title:         v.Get(wizard.FieldTitle),
		Date:          v.Get(wizard.FieldDate),
		Time:          v.Get(wizard.FieldTime),
		AnimalType:    v.Get(wizard.FieldAnimalType),
		DogCount:      v.Get(wizard.FieldDogCount),
		Severity:      v.Get(wizard.FieldSeverity),
		Description:   v.Get(wizard.FieldDescription),
		Address:       v.Get(wizard.FieldAddress),
		Sector:        v.Get(wizard.FieldSector),
		Latitude:      v.Get(wizard.FieldLatitude),
		Longitude:     v.Get(wizard.FieldLongitude),
		ReporterName:  v.Get(wizard.FieldReporterName),
		ReporterEmail: v.Get(wizard.FieldReporterEmail),
		ReporterPhone: v.Get(wizard.FieldReporterPhone),
		Anonymous:     parseCheckbox(v.Get(wizard.FieldAnonymous)),
	}
}

type Service struct {
	repo  Repository
	media media.Store
	log   logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, store media.Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  repo,
		media: store,
		log:   log.With(map[string]any{"component": "reports"}),
		now:   time.Now,
	}
}

// Submit valida y guarda un reporte nuevo en estado pending. userID puede
// venir vacío (visitante). Los errores de validación son *FormErrors.
func (s *Service) Submit(ctx context.Context, userID string, in Input) (Report, error) {
	now := s.now()
	r, photos, ferr := s.validate(in, now)
	if !ferr.empty() {
		s.log.Debug("report rejected", map[string]any{"fields": ferr.sortedKeys()})
		return Report{}, ferr
	}

	r.ID = uuid.NewString()
	r.UserID = strings.TrimSpace(userID)
	r.Status = StatusPending
	r.CreatedAt = now
	r.UpdatedAt = now

	stored, err := s.storePhotos(ctx, r.ID, photos, now)
	if err != nil {
		return Report{}, err
	}
	r.Photos = stored

	if err := s.repo.Create(ctx, r); err != nil {
		s.discardPhotos(stored)
		return Report{}, fmt.Errorf("create report: %w", err)
	}

	s.log.Info("report submitted", map[string]any{
		"report_id": r.ID,
		"anonymous": r.Anonymous,
		"photos":    len(r.Photos),
		"severity":  string(r.Severity),
	})
	return r, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Report, error) {
	if strings.TrimSpace(id) == "" {
		return Report{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListApproved devuelve los reportes publicados (para el mapa).
func (s *Service) ListApproved(ctx context.Context) ([]Report, error) {
	return s.repo.List(ctx, ListFilter{Status: StatusApproved})
}

type decodedPhoto struct {
	upload Upload
	format string
	width  int
	height int
}

func (s *Service) validate(in Input, now time.Time) (Report, []decodedPhoto, *FormErrors) {
	fe := &FormErrors{}
	var r Report

	r.Title = cleanText(in.Title)
	switch {
	case r.Title == "":
		fe.add(wizard.FieldTitle, "El título es obligatorio.")
	case utf8.RuneCountInString(r.Title) > maxTitle:
		fe.add(wizard.FieldTitle, fmt.Sprintf("El título no puede superar %d caracteres.", maxTitle))
	}

	date := strings.TrimSpace(in.Date)
	if date == "" {
		fe.add(wizard.FieldDate, "La fecha es obligatoria.")
	} else if d, err := time.Parse("2006-01-02", date); err != nil {
		fe.add(wizard.FieldDate, "La fecha debe tener formato AAAA-MM-DD.")
	} else if !wizard.DateNotAfter(date, now) {
		fe.add(wizard.FieldDate, "La fecha no puede ser futura.")
	} else {
		r.Date = d
	}

	if t := strings.TrimSpace(in.Time); t != "" {
		if _, err := time.Parse("15:04", t); err != nil {
			fe.add(wizard.FieldTime, "La hora debe tener formato HH:MM.")
		} else {
			r.Time = t
		}
	}

	r.AnimalType = AnimalType(strings.TrimSpace(in.AnimalType))
	if !r.AnimalType.Valid() {
		fe.add(wizard.FieldAnimalType, "Selecciona el tipo de animal.")
	}

	r.DogCount = MinDogCount
	if dc := strings.TrimSpace(in.DogCount); dc != "" {
		n, err := strconv.Atoi(dc)
		if err != nil || n < MinDogCount || n > MaxDogCount {
			fe.add(wizard.FieldDogCount, fmt.Sprintf("La cantidad de perros debe estar entre %d y %d.", MinDogCount, MaxDogCount))
		} else {
			r.DogCount = n
		}
	}

	r.Severity = Severity(strings.TrimSpace(in.Severity))
	if !r.Severity.Valid() {
		fe.add(wizard.FieldSeverity, "Selecciona la gravedad.")
	}

	r.Description = cleanText(in.Description)
	if utf8.RuneCountInString(r.Description) < MinDescription {
		fe.add(wizard.FieldDescription, fmt.Sprintf("La descripción debe tener al menos %d caracteres.", MinDescription))
	}

	r.Address = cleanText(in.Address)
	switch {
	case r.Address == "":
		fe.add(wizard.FieldAddress, "La dirección es obligatoria.")
	case utf8.RuneCountInString(r.Address) > maxAddress:
		fe.add(wizard.FieldAddress, fmt.Sprintf("La dirección no puede superar %d caracteres.", maxAddress))
	}

	if sec := strings.TrimSpace(in.Sector); sec != "" {
		r.Sector = Sector(sec)
		if !r.Sector.Valid() {
			fe.add(wizard.FieldSector, "Sector desconocido.")
		}
	}

	lat, latOK := parseCoord(in.Latitude, 90)
	lng, lngOK := parseCoord(in.Longitude, 180)
	if !latOK {
		fe.add(wizard.FieldLatitude, "Debes seleccionar una ubicación en el mapa.")
	}
	if !lngOK {
		fe.add(wizard.FieldLongitude, "Debes seleccionar una ubicación en el mapa.")
	}
	if latOK && lngOK && lat == 0 && lng == 0 {
		fe.add(KeyLocation, "Debes seleccionar una ubicación válida en el mapa.")
	}
	r.Latitude, r.Longitude = lat, lng

	r.Anonymous = in.Anonymous
	if !r.Anonymous {
		r.ReporterName = cleanText(in.ReporterName)
		r.ReporterEmail = strings.TrimSpace(in.ReporterEmail)
		r.ReporterPhone = cleanText(in.ReporterPhone)

		switch {
		case r.ReporterName == "":
			fe.add(wizard.FieldReporterName, "El nombre es obligatorio si no es anónimo.")
		case utf8.RuneCountInString(r.ReporterName) > maxName:
			fe.add(wizard.FieldReporterName, fmt.Sprintf("El nombre no puede superar %d caracteres.", maxName))
		}
		if r.ReporterEmail == "" {
			fe.add(wizard.FieldReporterEmail, "El email es obligatorio si no es anónimo.")
		} else if addr, err := mail.ParseAddress(r.ReporterEmail); err != nil || addr.Address != r.ReporterEmail {
			fe.add(wizard.FieldReporterEmail, "Ingresa un email válido.")
		}
		if utf8.RuneCountInString(r.ReporterPhone) > maxPhone {
			fe.add(wizard.FieldReporterPhone, fmt.Sprintf("El teléfono no puede superar %d caracteres.", maxPhone))
		}
	}

	photos := validatePhotos(in.Photos, fe)
	return r, photos, fe
}

// validatePhotos rechaza (no descarta) lo que no cumple: un error por archivo.
func validatePhotos(uploads []Upload, fe *FormErrors) []decodedPhoto {
	if len(uploads) > MaxPhotos {
		fe.add(KeyPhotos, fmt.Sprintf("Máximo %d fotografías permitidas.", MaxPhotos))
	}

	out := make([]decodedPhoto, 0, len(uploads))
	for _, up := range uploads {
		name := cleanText(up.Name)
		if name == "" {
			name = "archivo"
		}
		if up.Size > MaxPhotoSize {
			fe.add(KeyPhotos, fmt.Sprintf("%s excede los %s permitidos.", name, humanize.IBytes(MaxPhotoSize)))
			continue
		}
		if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
			fe.add(KeyPhotos, fmt.Sprintf("%s no es una imagen válida.", name))
			continue
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(up.Data))
		if err != nil {
			fe.add(KeyPhotos, fmt.Sprintf("%s no es una imagen válida.", name))
			continue
		}
		out = append(out, decodedPhoto{upload: up, format: format, width: cfg.Width, height: cfg.Height})
	}
	return out
}

func (s *Service) storePhotos(ctx context.Context, reportID string, photos []decodedPhoto, now time.Time) ([]Photo, error) {
	if len(photos) == 0 {
		return nil, nil
	}
	if s.media == nil {
		return nil, errors.New("media store not configured")
	}

	out := make([]Photo, 0, len(photos))
	for i, p := range photos {
		key := fmt.Sprintf("reports/%s/%d%s", reportID, i+1, extFor(p.format))
		obj, err := s.media.Put(ctx, key, p.upload.ContentType, p.upload.Data)
		if err != nil {
			s.discardPhotos(out)
			return nil, fmt.Errorf("store photo %d: %w", i+1, err)
		}
		out = append(out, Photo{
			ID:          uuid.NewString(),
			ReportID:    reportID,
			Key:         obj.Key,
			URL:         obj.URL,
			ContentType: p.upload.ContentType,
			Size:        obj.Size,
			Width:       p.width,
			Height:      p.height,
			Order:       i + 1,
			UploadedAt:  now,
		})
	}
	return out, nil
}

func (s *Service) discardPhotos(photos []Photo) {
	for _, p := range photos {
		if err := s.media.Delete(context.Background(), p.Key); err != nil {
			s.log.Warn("could not discard photo", map[string]any{"key": p.Key, "error": err.Error()})
		}
	}
}

func extFor(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ""
	default:
		return "." + format
	}
}

// cleanText quita todo HTML y deja texto plano.
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

func parseCoord(raw string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes", "si", "sí":
		return true
	default:
		return false
	}
}
