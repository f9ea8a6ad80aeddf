package moderation

import "time"

// Action registrada en la bitácora.
// @Enum verified, rejected, comment
type Action string

const (
	ActionVerified Action = "verified"
	ActionRejected Action = "rejected"
	ActionComment  Action = "comment"
)

const (
	// PageSize es la cantidad de reportes por página de la cola.
	PageSize = 5

	ApprovedComment = "Reporte aprobado y publicado."
	approvedReason  = "Aprobado por moderador"
)

// LogEntry es una acción de un moderador sobre un reporte.
type LogEntry struct {
	ID          string
	ReportID    string
	ModeratorID string
	Action      Action
	Reason      string
	At          time.Time
}
