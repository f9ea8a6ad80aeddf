package wizard

// TotalSteps es la cantidad fija de pasos del asistente de reporte.
const TotalSteps = 3

// State es el estado explícito del asistente. Se pasa y se devuelve por valor:
// las transiciones son funciones puras.
type State struct {
	Current int
	Total   int
}

func NewState() State {
	return State{Current: 1, Total: TotalSteps}
}

// Next avanza un paso solo si guard(current) pasa y no estamos en el último.
// Si guard es nil se considera válido.
func Next(s State, guard func(step int) bool) State {
	s = normalize(s)
	if guard != nil && !guard(s.Current) {
		return s
	}
	if s.Current < s.Total {
		s.Current++
	}
	return s
}

// Prev retrocede un paso. Sin guard.
func Prev(s State) State {
	s = normalize(s)
	if s.Current > 1 {
		s.Current--
	}
	return s
}

func (s State) IsFinal() bool {
	return s.Current == s.Total
}

type StepClass string

const (
	StepPending   StepClass = ""
	StepActive    StepClass = "active"
	StepCompleted StepClass = "completed"
)

// StepClasses devuelve la clase de cada paso (índice 0 = paso 1).
func StepClasses(s State) []StepClass {
	s = normalize(s)
	out := make([]StepClass, s.Total)
	for i := range out {
		n := i + 1
		switch {
		case n < s.Current:
			out[i] = StepCompleted
		case n == s.Current:
			out[i] = StepActive
		default:
			out[i] = StepPending
		}
	}
	return out
}

// Buttons indica qué botones de navegación se muestran.
type Buttons struct {
	Prev   bool `json:"prev"`
	Next   bool `json:"next"`
	Submit bool `json:"submit"`
}

func ButtonsFor(s State) Buttons {
	s = normalize(s)
	return Buttons{
		Prev:   s.Current > 1,
		Next:   s.Current < s.Total,
		Submit: s.Current == s.Total,
	}
}

func normalize(s State) State {
	if s.Total <= 0 {
		s.Total = TotalSteps
	}
	if s.Current < 1 {
		s.Current = 1
	}
	if s.Current > s.Total {
		s.Current = s.Total
	}
	return s
}
