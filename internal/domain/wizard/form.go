package wizard

import (
	"net/url"
	"strings"
)

// Nombres de campo del formulario de reporte.
const (
	FieldTitle         = "title"
	FieldDate          = "date"
	FieldTime          = "time"
	FieldAnimalType    = "animal_type"
	FieldDogCount      = "dog_count"
	FieldSeverity      = "severity"
	FieldDescription   = "description"
	FieldAddress       = "address"
	FieldSector        = "sector"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldReporterName  = "reporter_name"
	FieldReporterEmail = "reporter_email"
	FieldReporterPhone = "reporter_phone"
	FieldAnonymous     = "anonymous"
)

// FormFields son los campos que el asistente acepta desde el cliente.
var FormFields = []string{
	FieldTitle, FieldDate, FieldTime, FieldAnimalType, FieldDogCount,
	FieldSeverity, FieldDescription, FieldAddress, FieldSector,
	FieldLatitude, FieldLongitude,
	FieldReporterName, FieldReporterEmail, FieldReporterPhone, FieldAnonymous,
}

// FormData es el proveedor de datos del formulario (solo lectura).
// La validación depende solo de esto, no del markup.
type FormData interface {
	Value(name string) string
}

// Form agrega escritura: el controlador limpia la fecha inválida y
// escribe las coordenadas del mapa.
type Form interface {
	FormData
	Set(name, value string)
	Clear(name string)
}

// Values es la implementación por defecto de Form sobre url.Values.
type Values struct {
	v url.Values
}

func NewValues(initial url.Values) *Values {
	v := url.Values{}
	for k, vs := range initial {
		if len(vs) > 0 {
			v.Set(k, vs[0])
		}
	}
	return &Values{v: v}
}

func (f *Values) Value(name string) string {
	return f.v.Get(name)
}

func (f *Values) Set(name, value string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	f.v.Set(name, value)
}

func (f *Values) Clear(name string) {
	f.v.Del(name)
}

// Encode devuelve una copia de los valores actuales.
func (f *Values) Encode() url.Values {
	out := url.Values{}
	for k, vs := range f.v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func isKnownField(name string) bool {
	for _, f := range FormFields {
		if f == name {
			return true
		}
	}
	return false
}
