package reports

import "time"

// AnimalType es el tipo de animal víctima.
// @Enum dog, cat, other
type AnimalType string

const (
	AnimalDog   AnimalType = "dog"
	AnimalCat   AnimalType = "cat"
	AnimalOther AnimalType = "other"
)

// Severity es la gravedad del ataque.
// @Enum minor, moderate, severe
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Sector de Valdivia. Opcional en el reporte.
type Sector string

const (
	SectorCentro      Sector = "centro"
	SectorLasAnimas   Sector = "las_animas"
	SectorCollico     Sector = "collico"
	SectorParqueSaval Sector = "parque_saval"
	SectorIslaTeja    Sector = "isla_teja"
	SectorLosPelues   Sector = "los_pelues"
	SectorAngachilla  Sector = "angachilla"
	SectorNiebla      Sector = "niebla"
	SectorOther       Sector = "otro"
)

// Status del reporte en la cola de moderación.
// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var animalLabels = map[AnimalType]string{
	AnimalDog:   "Perro doméstico",
	AnimalCat:   "Gato",
	AnimalOther: "Otro animal",
}

var severityLabels = map[Severity]string{
	SeverityMinor:    "Leve",
	SeverityModerate: "Moderado",
	SeveritySevere:   "Grave",
}

var sectorLabels = map[Sector]string{
	SectorCentro:      "Centro",
	SectorLasAnimas:   "Las Ánimas",
	SectorCollico:     "Collico",
	SectorParqueSaval: "Parque Saval",
	SectorIslaTeja:    "Isla Teja",
	SectorLosPelues:   "Los Pelúes",
	SectorAngachilla:  "Angachilla",
	SectorNiebla:      "Niebla",
	SectorOther:       "Otro",
}

var statusLabels = map[Status]string{
	StatusPending:  "Pendiente",
	StatusApproved: "Aprobado",
	StatusRejected: "Rechazado",
}

func (a AnimalType) Valid() bool {
	_, ok := animalLabels[a]
	return ok
}

func (s Severity) Valid() bool {
	_, ok := severityLabels[s]
	return ok
}

func (s Sector) Valid() bool {
	_, ok := sectorLabels[s]
	return ok
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (a AnimalType) Label() string { return animalLabels[a] }
func (s Severity) Label() string   { return severityLabels[s] }
func (s Status) Label() string     { return statusLabels[s] }

// Label devuelve "Sin sector" si no hay sector.
func (s Sector) Label() string {
	if l, ok := sectorLabels[s]; ok {
		return l
	}
	return "Sin sector"
}

const (
	MaxPhotos      = 5
	MaxPhotoSize   = 5 << 20
	MinDescription = 50
	MinDogCount    = 1
	MaxDogCount    = 20
)

// Report es un incidente reportado por la comunidad.
type Report struct {
	ID string

	Title       string
	Date        time.Time // solo fecha, medianoche UTC
	Time        string    // HH:MM opcional
	AnimalType  AnimalType
	DogCount    int
	Severity    Severity
	Description string

	Address   string
	Sector    Sector
	Latitude  float64
	Longitude float64

	// Vacíos si Anonymous.
	ReporterName  string
	ReporterEmail string
	ReporterPhone string
	Anonymous     bool

	UserID string // vacío si lo envió un visitante

	Status            Status
	ModeratorID       string
	ModeratedAt       *time.Time
	ModerationComment string

	Photos []Photo

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleName es el nombre que se muestra del reportante.
func (r Report) VisibleName() string {
	if r.Anonymous || r.ReporterName == "" {
		return "Anónimo"
	}
	return r.ReporterName
}

// Photo es una imagen adjunta. Order parte en 1.
type Photo struct {
	ID          string
	ReportID    string
	Key         string
	URL         string
	ContentType string
	Size        int64
	Width       int
	Height      int
	Order       int
	UploadedAt  time.Time
}
