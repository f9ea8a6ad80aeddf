package reports

import (
	"html/template"
	"net/http"

	"huella-urbana/internal/domain/wizard"
)

var fieldLabels = map[string]string{
	wizard.FieldTitle:         "Título",
	wizard.FieldDate:          "Fecha del incidente",
	wizard.FieldTime:          "Hora aproximada",
	wizard.FieldAnimalType:    "Tipo de animal víctima",
	wizard.FieldDogCount:      "Cantidad de perros agresores",
	wizard.FieldSeverity:      "Gravedad del ataque",
	wizard.FieldDescription:   "Descripción detallada",
	wizard.FieldAddress:       "Dirección",
	wizard.FieldSector:        "Sector",
	wizard.FieldLatitude:      "Latitud",
	wizard.FieldLongitude:     "Longitud",
	wizard.FieldReporterName:  "Nombre del reportante",
	wizard.FieldReporterEmail: "Email del reportante",
	wizard.FieldReporterPhone: "Teléfono",
	KeyPhotos:                 "Fotografías",
}

var errorFragment = template.Must(template.New("errors").Parse(
	`<div class="alert alert-danger" role="alert">Por favor corrige los siguientes errores:<ul>` +
		`{{range .}}{{$label := .Label}}{{range .Messages}}<li>{{if $label}}<strong>{{$label}}:</strong> {{end}}{{.}}</li>{{end}}{{end}}` +
		`</ul></div>`,
))

type fragmentItem struct {
	Label    string
	Messages []string
}

// writeErrorFragment responde el bloque de errores que la página del
// formulario inserta sobre el asistente.
func writeErrorFragment(w http.ResponseWriter, status int, fe *FormErrors) {
	all := fe.FieldErrors()
	items := make([]fragmentItem, 0, len(all))
	for _, f := range fe.Fields() {
		items = append(items, fragmentItem{Label: fieldLabels[f], Messages: all[f]})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = errorFragment.Execute(w, items)
}
