package wizard

import (
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// View es lo que el cliente dibuja después de cada acción.
type View struct {
	SessionID   string            `json:"session_id"`
	Step        int               `json:"step"`
	TotalSteps  int               `json:"total_steps"`
	Steps       []StepClass       `json:"steps"`
	Buttons     Buttons           `json:"buttons"`
	ScrollTop   bool              `json:"scroll_top"`
	Warning     *Warning          `json:"warning,omitempty"`
	Marked      []string          `json:"marked,omitempty"`
	Fields      map[string]string `json:"fields"`
	Counter     CounterView       `json:"counter"`
	Location    *LatLng           `json:"location,omitempty"`
	Map         MapState          `json:"map"`
	Previews    []Preview         `json:"previews"`
	InputFiles  []string          `json:"input_files"`
	FileCount   int               `json:"file_count"`
	MaxFiles    int               `json:"max_files"`
	MaxFileSize string            `json:"max_file_size"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// ViewScreen es el Screen del lado servidor. Los avisos, marcas y el scroll
// duran una sola acción (ver beginAction).
type ViewScreen struct {
	steps     []StepClass
	buttons   Buttons
	scrollTop bool
	warning   *Warning
	marked    []string
	counter   CounterView
	location  *LatLng
	previews  []Preview
	fileCount int
}

func (v *ViewScreen) ShowSteps(classes []StepClass) {
	v.steps = append([]StepClass(nil), classes...)
}

func (v *ViewScreen) ShowButtons(b Buttons) { v.buttons = b }
func (v *ViewScreen) ScrollTop()            { v.scrollTop = true }

func (v *ViewScreen) Alert(w Warning) {
	v.warning = &w
}

func (v *ViewScreen) MarkFields(names []string) {
	v.marked = append(v.marked, names...)
}

func (v *ViewScreen) ShowCounter(c CounterView) { v.counter = c }

func (v *ViewScreen) ShowLocation(at LatLng) {
	v.location = &at
}

func (v *ViewScreen) ClearPreviews()          { v.previews = nil }
func (v *ViewScreen) AppendPreview(p Preview) { v.previews = append(v.previews, p) }
func (v *ViewScreen) ShowFileCount(n int)     { v.fileCount = n }

func (v *ViewScreen) beginAction() {
	v.scrollTop = false
	v.warning = nil
	v.marked = nil
}

// stagedInput hace de input de archivos del formulario.
type stagedInput struct {
	names []string
}

func (in *stagedInput) SetFiles(files []Attachment) {
	in.names = in.names[:0]
	for _, f := range files {
		in.names = append(in.names, f.Name)
	}
}

func (s *Session) snapshot(ttl time.Duration) View {
	st := s.ctrl.State()
	scr := s.screen

	fields := map[string]string{}
	for _, name := range FormFields {
		if v := s.form.Value(name); v != "" {
			fields[name] = v
		}
	}

	// Las miniaturas llegan en orden de término; la vista se ordena por índice.
	previews := append([]Preview{}, scr.previews...)
	sort.Slice(previews, func(i, j int) bool { return previews[i].Index < previews[j].Index })

	m := *s.mapState
	m.Markers = append([]LatLng{}, s.mapState.Markers...)

	return View{
		SessionID:   s.ID,
		Step:        st.Current,
		TotalSteps:  st.Total,
		Steps:       scr.steps,
		Buttons:     scr.buttons,
		ScrollTop:   scr.scrollTop,
		Warning:     scr.warning,
		Marked:      scr.marked,
		Fields:      fields,
		Counter:     scr.counter,
		Location:    scr.location,
		Map:         m,
		Previews:    previews,
		InputFiles:  append([]string{}, s.input.names...),
		FileCount:   scr.fileCount,
		MaxFiles:    MaxAttachments,
		MaxFileSize: humanize.IBytes(MaxAttachmentSize),
		ExpiresAt:   s.updatedAt.Add(ttl),
	}
}
