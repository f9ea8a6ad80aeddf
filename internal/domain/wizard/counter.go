package wizard

import (
	"fmt"
	"math"
)

// CounterView es el contador de la descripción. Es solo UI: no bloquea el
// avance, ValidateStep vuelve a revisar el largo por su cuenta.
type CounterView struct {
	Length  int     `json:"length"`
	Percent float64 `json:"percent"`
	Valid   bool    `json:"valid"`
	Label   string  `json:"label"`
	Class   string  `json:"class"`
}

func Counter(description string) CounterView {
	n := DescriptionLength(description)
	pct := math.Min(float64(n)/float64(MinDescriptionLength)*100, 100)

	if n < MinDescriptionLength {
		return CounterView{
			Length:  n,
			Percent: pct,
			Label:   fmt.Sprintf("Mínimo %d caracteres (%d/%d)", MinDescriptionLength, n, MinDescriptionLength),
			Class:   "char-counter invalid",
		}
	}
	return CounterView{
		Length:  n,
		Percent: pct,
		Valid:   true,
		Label:   fmt.Sprintf("%d caracteres", n),
		Class:   "char-counter valid",
	}
}
