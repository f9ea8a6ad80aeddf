package reports

import (
	"fmt"
	"sort"
	"strings"
)

// Claves de error que no son de un campo del formulario.
const (
	KeyPhotos   = "photos"
	KeyLocation = "location"
)

// FormErrors junta los errores de validación por campo. Los mensajes son
// para mostrar al usuario tal cual.
type FormErrors struct {
	fields map[string][]string
	order  []string
}

func (e *FormErrors) add(field, msg string) {
	if e.fields == nil {
		e.fields = make(map[string][]string)
	}
	if _, seen := e.fields[field]; !seen {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], msg)
}

func (e *FormErrors) empty() bool { return len(e.order) == 0 }

func (e *FormErrors) Error() string {
	parts := make([]string, 0, len(e.order))
	for _, f := range e.order {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.fields[f], "; ")))
	}
	return "invalid report: " + strings.Join(parts, ", ")
}

// FieldErrors devuelve una copia de los errores por campo.
func (e *FormErrors) FieldErrors() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Fields devuelve los campos con error en el orden en que se detectaron.
func (e *FormErrors) Fields() []string {
	return append([]string(nil), e.order...)
}

// Has indica si field tiene errores.
func (e *FormErrors) Has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

// sortedKeys es para salidas estables en logs.
func (e *FormErrors) sortedKeys() []string {
	keys := append([]string(nil), e.order...)
	sort.Strings(keys)
	return keys
}
