package wizard

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MinDescriptionLength es el mínimo de caracteres de la descripción.
const MinDescriptionLength = 50

const dateLayout = "2006-01-02"

type WarningKind string

const (
	WarningMissingFields   WarningKind = "missing_fields"
	WarningInvalidDate     WarningKind = "invalid_date"
	WarningMissingLocation WarningKind = "missing_location"
)

// Warning es el aviso modal que bloquea la transición.
type Warning struct {
	Kind  WarningKind `json:"kind"`
	Title string      `json:"title"`
	Text  string      `json:"text,omitempty"`
}

var (
	warnMissingFields = Warning{
		Kind:  WarningMissingFields,
		Title: "Completa los campos obligatorios",
	}
	warnInvalidDate = Warning{
		Kind:  WarningInvalidDate,
		Title: "Fecha inválida",
		Text:  "No puedes seleccionar una fecha futura.",
	}
	warnMissingLocation = Warning{
		Kind:  WarningMissingLocation,
		Title: "Selecciona la ubicación",
		Text:  "Haz clic en el mapa para marcar el lugar del incidente.",
	}
)

// StepResult es el resultado de validar un paso. Los efectos (limpiar o
// marcar campos, mostrar el aviso) los aplica el controlador.
type StepResult struct {
	OK      bool
	Warning *Warning
	Clear   []string
	Mark    []string
}

// ValidateStep valida el paso indicado contra los datos del formulario.
// today se usa solo por su fecha (en su propia zona horaria).
func ValidateStep(step int, form FormData, today time.Time) StepResult {
	switch step {
	case 1:
		return validateDetails(form, today)
	case 2:
		return validateLocation(form)
	default:
		return StepResult{OK: true}
	}
}

func validateDetails(form FormData, today time.Time) StepResult {
	date := strings.TrimSpace(form.Value(FieldDate))
	if date != "" && !DateNotAfter(date, today) {
		w := warnInvalidDate
		return StepResult{
			Warning: &w,
			Clear:   []string{FieldDate},
			Mark:    []string{FieldDate},
		}
	}

	var missing []string
	for _, name := range []string{FieldTitle, FieldDate, FieldAnimalType, FieldSeverity} {
		if strings.TrimSpace(form.Value(name)) == "" {
			missing = append(missing, name)
		}
	}
	if DescriptionLength(strings.TrimSpace(form.Value(FieldDescription))) < MinDescriptionLength {
		missing = append(missing, FieldDescription)
	}
	if len(missing) > 0 {
		w := warnMissingFields
		return StepResult{Warning: &w, Mark: missing}
	}

	return StepResult{OK: true}
}

func validateLocation(form FormData) StepResult {
	lat := strings.TrimSpace(form.Value(FieldLatitude))
	lng := strings.TrimSpace(form.Value(FieldLongitude))
	if lat == "" || lng == "" {
		w := warnMissingLocation
		return StepResult{Warning: &w, Mark: []string{FieldLatitude, FieldLongitude}}
	}
	return StepResult{OK: true}
}

// DateNotAfter indica si la fecha YYYY-MM-DD es hoy o anterior.
// Una fecha que no se puede leer cuenta como inválida.
func DateNotAfter(date string, today time.Time) bool {
	loc := today.Location()
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return false
	}
	y, m, dd := today.Date()
	midnight := time.Date(y, m, dd, 0, 0, 0, 0, loc)
	return !d.After(midnight)
}

// DescriptionLength cuenta caracteres, no bytes.
func DescriptionLength(s string) int {
	return utf8.RuneCountInString(s)
}
