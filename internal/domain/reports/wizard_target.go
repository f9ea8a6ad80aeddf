package reports

import (
	"context"

	"huella-urbana/internal/domain/wizard"
	"huella-urbana/internal/middleware"
)

// WizardTarget conecta el asistente con el servicio de reportes. El usuario
// se toma de los claims del request que hizo el envío.
type WizardTarget struct {
	svc *Service
}

func NewWizardTarget(svc *Service) *WizardTarget {
	return &WizardTarget{svc: svc}
}

func (t *WizardTarget) Submit(ctx context.Context, sub wizard.Submission) (wizard.SubmitResult, error) {
	in := InputFromValues(sub.Fields)
	for _, a := range sub.Attachments {
		in.Photos = append(in.Photos, Upload{
			Name:        a.Name,
			ContentType: a.ContentType,
			Size:        a.Size,
			Data:        a.Data,
		})
	}

	var userID string
	if claims, ok := middleware.GetClaims(ctx); ok {
		userID = claims.UserID
	}

	r, err := t.svc.Submit(ctx, userID, in)
	if err != nil {
		return wizard.SubmitResult{}, err
	}
	return wizard.SubmitResult{
		ReportID: r.ID,
		Redirect: successRedirect(r.ID),
	}, nil
}

func successRedirect(id string) string {
	return "/?report=" + id
}
