package moderation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"huella-urbana/internal/domain/reports"
	"huella-urbana/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrReasonRequired = errors.New("rejection reason required")
	ErrTextRequired   = errors.New("comment text required")
)

type Service struct {
	reports reports.Repository
	logs    LogRepository
	log     logger.Logger
	now     func() time.Time
}

func NewService(reportsRepo reports.Repository, logs LogRepository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		reports: reportsRepo,
		logs:    logs,
		log:     log.With(map[string]any{"component": "moderation"}),
		now:     time.Now,
	}
}

// Query son los filtros de la cola tal como llegan en la URL.
type Query struct {
	Status    string
	Severity  string
	Animal    string
	Anonymous string // "si" | "no" | ""
	Page      string
}

type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	All      int `json:"all"`
	Filtered int `json:"filtered"`
}

type Page struct {
	Items      []reports.Report
	Number     int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Counts     Counts
}

// List devuelve una página de la cola. Una página que no es número va a la
// primera; una fuera de rango, a la última.
func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	f := q.filter()

	filtered, err := s.reports.Count(ctx, f)
	if err != nil {
		return Page{}, fmt.Errorf("count reports: %w", err)
	}

	totalPages := (filtered + PageSize - 1) / PageSize
	if totalPages == 0 {
		totalPages = 1
	}
	number := resolvePage(q.Page, totalPages)

	f.Offset = (number - 1) * PageSize
	f.Limit = PageSize
	items, err := s.reports.List(ctx, f)
	if err != nil {
		return Page{}, fmt.Errorf("list reports: %w", err)
	}

	byStatus, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("count by status: %w", err)
	}
	counts := Counts{
		Pending:  byStatus[reports.StatusPending],
		Approved: byStatus[reports.StatusApproved],
		Rejected: byStatus[reports.StatusRejected],
		Filtered: filtered,
	}
	for _, n := range byStatus {
		counts.All += n
	}

	return Page{
		Items:      items,
		Number:     number,
		TotalPages: totalPages,
		HasPrev:    number > 1,
		HasNext:    number < totalPages,
		Counts:     counts,
	}, nil
}

func (q Query) filter() reports.ListFilter {
	f := reports.ListFilter{
		Status:   reports.Status(strings.TrimSpace(q.Status)),
		Severity: reports.Severity(strings.TrimSpace(q.Severity)),
		Animal:   reports.AnimalType(strings.TrimSpace(q.Animal)),
	}
	switch strings.ToLower(strings.TrimSpace(q.Anonymous)) {
	case "si", "sí", "yes", "true":
		v := true
		f.Anonymous = &v
	case "no", "false":
		v := false
		f.Anonymous = &v
	}
	return f
}

func resolvePage(raw string, total int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > total {
		return total
	}
	return n
}

// Approve publica el reporte y lo registra en la bitácora.
func (s *Service) Approve(ctx context.Context, reportID, moderatorID string) (reports.Report, error) {
	return s.decide(ctx, reportID, moderatorID, reports.StatusApproved, ApprovedComment, ActionVerified, approvedReason)
}

// Reject exige un motivo, que queda como comentario de moderación.
func (s *Service) Reject(ctx context.Context, reportID, moderatorID, reason string) (reports.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return reports.Report{}, ErrReasonRequired
	}
	return s.decide(ctx, reportID, moderatorID, reports.StatusRejected, reason, ActionRejected, reason)
}

func (s *Service) decide(ctx context.Context, reportID, moderatorID string, status reports.Status, comment string, action Action, reason string) (reports.Report, error) {
	if strings.TrimSpace(moderatorID) == "" {
		return reports.Report{}, ErrInvalidInput
	}

	r, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return reports.Report{}, err
	}

	now := s.now()
	r.Status = status
	r.ModeratorID = moderatorID
	r.ModeratedAt = &now
	r.ModerationComment = comment
	r.UpdatedAt = now

	if err := s.reports.UpdateModeration(ctx, r); err != nil {
		return reports.Report{}, fmt.Errorf("update report: %w", err)
	}
	// la decisión ya quedó guardada; una bitácora fallida no la revierte
	if err := s.append(ctx, reportID, moderatorID, action, reason, now); err != nil {
		s.log.Error("moderation log append failed", map[string]any{
			"report_id":    reportID,
			"moderator_id": moderatorID,
			"action":       string(action),
			"error":        err.Error(),
		})
	}

	s.log.Info("report moderated", map[string]any{
		"report_id":    reportID,
		"moderator_id": moderatorID,
		"status":       string(status),
	})
	return r, nil
}

// Comment agrega un comentario interno sin cambiar el estado.
func (s *Service) Comment(ctx context.Context, reportID, moderatorID, text string) (LogEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return LogEntry{}, ErrTextRequired
	}
	if strings.TrimSpace(moderatorID) == "" {
		return LogEntry{}, ErrInvalidInput
	}
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return LogEntry{}, err
	}

	e := LogEntry{
		ID:          uuid.NewString(),
		ReportID:    reportID,
		ModeratorID: moderatorID,
		Action:      ActionComment,
		Reason:      text,
		At:          s.now(),
	}
	if err := s.logs.Append(ctx, e); err != nil {
		return LogEntry{}, fmt.Errorf("append log: %w", err)
	}
	return e, nil
}

func (s *Service) append(ctx context.Context, reportID, moderatorID string, action Action, reason string, at time.Time) error {
	e := LogEntry{
		ID:          uuid.NewString(),
		ReportID:    reportID,
		ModeratorID: moderatorID,
		Action:      action,
		Reason:      reason,
		At:          at,
	}
	if err := s.logs.Append(ctx, e); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// Details es la ficha del reporte para el moderador.
type Details struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Date              string   `json:"date"` // dd/mm/yyyy
	Time              string   `json:"time"`
	AnimalType        string   `json:"animal_type"`
	DogCount          int      `json:"dog_count"`
	Severity          string   `json:"severity"`
	Address           string   `json:"address"`
	ReporterName      string   `json:"reporter_name"`
	ReporterEmail     string   `json:"reporter_email"`
	ReporterPhone     string   `json:"reporter_phone"`
	Anonymous         bool     `json:"anonymous"`
	User              string   `json:"user"`
	Sector            string   `json:"sector"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	ModerationComment string   `json:"moderation_comment"`
	Photos            []string `json:"photos"`
}

func (s *Service) Details(ctx context.Context, reportID string) (Details, error) {
	r, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return Details{}, err
	}

	address := r.Address
	if address == "" {
		address = "No indicada"
	}
	photos := make([]string, 0, len(r.Photos))
	for _, p := range r.Photos {
		photos = append(photos, p.URL)
	}

	return Details{
		ID:                r.ID,
		Title:             r.Title,
		Date:              r.Date.Format("02/01/2006"),
		Time:              r.Time,
		AnimalType:        r.AnimalType.Label(),
		DogCount:          r.DogCount,
		Severity:          r.Severity.Label(),
		Address:           address,
		ReporterName:      r.VisibleName(),
		ReporterEmail:     r.ReporterEmail,
		ReporterPhone:     r.ReporterPhone,
		Anonymous:         r.Anonymous,
		User:              r.UserID,
		Sector:            r.Sector.Label(),
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		Description:       r.Description,
		Status:            r.Status.Label(),
		ModerationComment: r.ModerationComment,
		Photos:            photos,
	}, nil
}

func (s *Service) Log(ctx context.Context, reportID string) ([]LogEntry, error) {
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.logs.ListByReport(ctx, reportID)
}

var csvHeader = []string{
	"ID", "Título", "Descripción", "Estado", "Gravedad", "Tipo Animal",
	"Cantidad Perros", "Dirección", "Latitud", "Longitud",
	"Fecha", "Hora", "Usuario", "Email", "Teléfono",
	"Moderador", "Comentario Moderación",
}

// ExportCSV escribe todos los reportes, del más nuevo al más antiguo.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	items, err := s.reports.List(ctx, reports.ListFilter{})
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range items {
		user := r.UserID
		if user == "" {
			user = "Anónimo"
		}
		row := []string{
			r.ID,
			r.Title,
			r.Description,
			string(r.Status),
			string(r.Severity),
			string(r.AnimalType),
			strconv.Itoa(r.DogCount),
			r.Address,
			strconv.FormatFloat(r.Latitude, 'f', 6, 64),
			strconv.FormatFloat(r.Longitude, 'f', 6, 64),
			r.Date.Format("02-01-2006"),
			r.Time,
			user,
			r.ReporterEmail,
			r.ReporterPhone,
			r.ModeratorID,
			r.ModerationComment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename sigue el formato reportes_YYYY-MM-DD_HH-MM.csv.
func (s *Service) ExportFilename() string {
	return "reportes_" + s.now().Format("2006-01-02_15-04") + ".csv"
}
