package wizard

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotFinalStep = errors.New("submit is only allowed on the final step")
	ErrNoTarget     = errors.New("no submission target configured")
)

// Screen recibe los efectos visuales del asistente.
type Screen interface {
	ShowSteps(classes []StepClass)
	ShowButtons(b Buttons)
	ScrollTop()
	Alert(w Warning)
	MarkFields(names []string)
	ShowCounter(c CounterView)
	ShowLocation(at LatLng)

	ClearPreviews()
	AppendPreview(p Preview)
	ShowFileCount(n int)
}

// FileInput es el input de archivos que se envía con el formulario.
// Se resincroniza para reflejar exactamente la lista preparada.
type FileInput interface {
	SetFiles(files []Attachment)
}

// Submission es lo que se entrega al destino del formulario.
type Submission struct {
	Fields      url.Values
	Attachments []Attachment
}

// SubmitResult lo define el destino; el asistente no lo interpreta.
type SubmitResult struct {
	ReportID string `json:"report_id"`
	Redirect string `json:"redirect"`
}

type SubmissionTarget interface {
	Submit(ctx context.Context, sub Submission) (SubmitResult, error)
}

type Deps struct {
	Form      Form
	Screen    Screen
	Map       MapProvider
	FileInput FileInput
	Previews  *PreviewRenderer
	Target    SubmissionTarget
	Now       func() time.Time
}

// Controller coordina el asistente de tres pasos. No es seguro para uso
// concurrente; quien lo comparta debe serializar las llamadas.
type Controller struct {
	state State

	form     Form
	screen   Screen
	mapp     MapProvider
	input    FileInput
	previews *PreviewRenderer
	target   SubmissionTarget
	now      func() time.Time

	mapReady  bool
	hasMarker bool
	location  LocationPick
	files     AttachmentSet
}

// NewController crea el asistente en el paso 1 y hace el primer render.
func NewController(d Deps) *Controller {
	c := &Controller{
		state:    NewState(),
		form:     d.Form,
		screen:   d.Screen,
		mapp:     d.Map,
		input:    d.FileInput,
		previews: d.Previews,
		target:   d.Target,
		now:      d.Now,
	}
	if c.form == nil {
		c.form = NewValues(nil)
	}
	if c.screen == nil {
		c.screen = nopScreen{}
	}
	if c.mapp == nil {
		c.mapp = &MapState{}
	}
	if c.previews == nil {
		c.previews = NewPreviewRenderer()
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.screen.ShowSteps(StepClasses(c.state))
	c.screen.ShowButtons(ButtonsFor(c.state))
	c.screen.ShowCounter(Counter(c.form.Value(FieldDescription)))
	c.screen.ShowFileCount(0)
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) MapReady() bool { return c.mapReady }

func (c *Controller) Location() (LatLng, bool) { return c.location.Get() }

func (c *Controller) Attachments() []Attachment { return c.files.Items() }

// Next valida el paso actual y avanza. Devuelve true si cambió de paso.
func (c *Controller) Next() bool {
	var res StepResult
	next := Next(c.state, func(step int) bool {
		res = ValidateStep(step, c.form, c.now())
		return res.OK
	})
	if !res.OK {
		c.reject(res)
		return false
	}
	if next == c.state {
		return false
	}
	c.state = next
	c.afterTransition()
	return true
}

func (c *Controller) Prev() bool {
	prev := Prev(c.state)
	if prev == c.state {
		return false
	}
	c.state = prev
	c.afterTransition()
	return true
}

func (c *Controller) reject(res StepResult) {
	for _, name := range res.Clear {
		c.form.Clear(name)
	}
	if len(res.Mark) > 0 {
		c.screen.MarkFields(res.Mark)
	}
	if res.Warning != nil {
		c.screen.Alert(*res.Warning)
	}
}

func (c *Controller) afterTransition() {
	c.screen.ShowSteps(StepClasses(c.state))
	c.screen.ShowButtons(ButtonsFor(c.state))
	if c.state.Current == 2 && !c.mapReady {
		c.initMap()
	}
	c.screen.ScrollTop()
}

// initMap se ejecuta una sola vez.
func (c *Controller) initMap() {
	if c.mapReady {
		return
	}
	c.mapReady = true

	center := DefaultCenter
	saved, ok := savedLocation(c.form)
	if ok {
		center = saved
	}
	c.mapp.SetView(center, DefaultZoom)
	c.mapp.AddTileLayer(TileURL, TileAttribution)

	if ok {
		c.mapp.PlaceMarker(saved)
		c.hasMarker = true
		c.location.Set(saved)
		c.screen.ShowLocation(saved)
	}
}

// MapClick reemplaza el marcador y sobrescribe la ubicación.
func (c *Controller) MapClick(at LatLng) {
	if !c.mapReady {
		c.initMap()
	}
	if c.hasMarker {
		c.mapp.RemoveMarker()
	}
	c.mapp.PlaceMarker(at)
	c.hasMarker = true

	c.location.Set(at)
	c.form.Set(FieldLatitude, formatCoord(at.Lat))
	c.form.Set(FieldLongitude, formatCoord(at.Lng))
	c.screen.ShowLocation(at)
}

// SetField actualiza un campo del borrador. La descripción recalcula el
// contador y una fecha futura se limpia al momento.
func (c *Controller) SetField(name, value string) {
	switch name {
	case FieldDescription:
		c.DescriptionInput(value)
		return
	case FieldDate:
		if v := strings.TrimSpace(value); v != "" && !DateNotAfter(v, c.now()) {
			c.form.Clear(FieldDate)
			c.screen.MarkFields([]string{FieldDate})
			c.screen.Alert(warnInvalidDate)
			return
		}
	}
	c.form.Set(name, value)
}

func (c *Controller) DescriptionInput(text string) {
	c.form.Set(FieldDescription, text)
	c.screen.ShowCounter(Counter(text))
}

// AddFiles prepara las imágenes aceptables y re-renderiza una vez por lote.
func (c *Controller) AddFiles(ctx context.Context, candidates ...Attachment) (int, error) {
	added := c.files.Add(candidates...)
	c.resync()
	return added, c.rerender(ctx)
}

func (c *Controller) RemoveFile(ctx context.Context, index int) (bool, error) {
	if !c.files.Remove(index) {
		return false, nil
	}
	c.resync()
	return true, c.rerender(ctx)
}

func (c *Controller) resync() {
	if c.input != nil {
		c.input.SetFiles(c.files.Items())
	}
}

func (c *Controller) rerender(ctx context.Context) error {
	c.screen.ClearPreviews()
	items := c.files.Items()
	c.screen.ShowFileCount(len(items))
	return c.previews.Render(ctx, items, c.screen.AppendPreview)
}

// Submit entrega el formulario al destino. Solo en el último paso.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	if !c.state.IsFinal() {
		return SubmitResult{}, ErrNotFinalStep
	}
	if c.target == nil {
		return SubmitResult{}, ErrNoTarget
	}

	fields := url.Values{}
	for _, name := range FormFields {
		if v := c.form.Value(name); v != "" {
			fields.Set(name, v)
		}
	}
	return c.target.Submit(ctx, Submission{
		Fields:      fields,
		Attachments: c.files.Items(),
	})
}

type nopScreen struct{}

func (nopScreen) ShowSteps([]StepClass)   {}
func (nopScreen) ShowButtons(Buttons)     {}
func (nopScreen) ScrollTop()              {}
func (nopScreen) Alert(Warning)           {}
func (nopScreen) MarkFields([]string)     {}
func (nopScreen) ShowCounter(CounterView) {}
func (nopScreen) ShowLocation(LatLng)     {}
func (nopScreen) ClearPreviews()          {}
func (nopScreen) AppendPreview(Preview)   {}
func (nopScreen) ShowFileCount(int)       {}
