package reports

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	mediamem "huella-urbana/internal/adapters/media/memory"
	"huella-urbana/internal/domain/wizard"
	"huella-urbana/internal/middleware"
	"huella-urbana/internal/ports/auth"

	"github.com/google/go-cmp/cmp"
)

var testNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu        sync.Mutex
	byID      map[string]Report
	createErr error
}

func newTestRepo() *testRepo { return &testRepo{byID: map[string]Report{}} }

func (r *testRepo) Create(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[rep.ID] = rep
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.byID[id]
	if !ok {
		return Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Report
	for _, rep := range r.byID {
		if f.Status == "" || rep.Status == f.Status {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *testRepo) Count(ctx context.Context, f ListFilter) (int, error) {
	items, _ := r.List(ctx, f)
	return len(items), nil
}

func (r *testRepo) CountByStatus(context.Context) (map[Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[Status]int{}
	for _, rep := range r.byID {
		out[rep.Status]++
	}
	return out, nil
}

func (r *testRepo) UpdateModeration(_ context.Context, rep Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[rep.ID] = rep
	return nil
}

// -------------------------
// helpers
// -------------------------

func newTestService() (*Service, *testRepo, *mediamem.Store) {
	repo := newTestRepo()
	store := mediamem.New()
	svc := NewService(repo, store, nil)
	svc.now = func() time.Time { return testNow }
	return svc, repo, store
}

func pngUpload(t *testing.T, name string, w, h int) Upload {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return Upload{Name: name, ContentType: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func validInput() Input {
	return Input{
		Title:         "Jauría en Isla Teja",
		Date:          "2025-12-21",
		Time:          "18:30",
		AnimalType:    "dog",
		DogCount:      "3",
		Severity:      "severe",
		Description:   strings.Repeat("Mordida en la pierna. ", 4),
		Address:       "Los Lingues 120",
		Sector:        "isla_teja",
		Latitude:      "-39.8089",
		Longitude:     "-73.2530",
		ReporterName:  "Pedro Díaz",
		ReporterEmail: "pedro@example.com",
		ReporterPhone: "+56 9 1234 5678",
	}
}

// -------------------------
// Tests
// -------------------------

func TestSubmit_StoresPendingReportWithPhotos(t *testing.T) {
	svc, repo, store := newTestService()
	in := validInput()
	in.Title = "<b>Jauría</b> en Isla Teja"
	in.Photos = []Upload{pngUpload(t, "a.png", 64, 48), pngUpload(t, "b.png", 10, 10)}

	rep, err := svc.Submit(context.Background(), " u-1 ", in)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if rep.Status != StatusPending || rep.UserID != "u-1" || rep.DogCount != 3 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.Title != "Jauría en Isla Teja" {
		t.Fatalf("expected sanitized title, got %q", rep.Title)
	}
	if !rep.Date.Equal(time.Date(2025, 12, 21, 0, 0, 0, 0, time.UTC)) || !rep.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected dates %v %v", rep.Date, rep.CreatedAt)
	}

	if store.Len() != 2 || len(rep.Photos) != 2 {
		t.Fatalf("expected two stored photos, store=%d photos=%d", store.Len(), len(rep.Photos))
	}
	first := rep.Photos[0]
	if first.Order != 1 || first.Width != 64 || first.Height != 48 || first.Key != "reports/"+rep.ID+"/1.png" {
		t.Fatalf("unexpected first photo %+v", first)
	}

	if _, err := repo.GetByID(context.Background(), rep.ID); err != nil {
		t.Fatalf("report not persisted: %v", err)
	}
}

func TestSubmit_AnonymousDropsContact(t *testing.T) {
	svc, _, _ := newTestService()
	in := validInput()
	in.Anonymous = true
	in.ReporterEmail = "no es un email"

	rep, err := svc.Submit(context.Background(), "", in)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if rep.ReporterName != "" || rep.ReporterEmail != "" || rep.ReporterPhone != "" {
		t.Fatalf("anonymous report kept contact data: %+v", rep)
	}
	if rep.VisibleName() != "Anónimo" {
		t.Fatalf("unexpected visible name %q", rep.VisibleName())
	}
}

func TestSubmit_FieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
		want   []string
	}{
		{"future date", func(in *Input) { in.Date = "2025-12-23" }, []string{wizard.FieldDate}},
		{"bad date format", func(in *Input) { in.Date = "21/12/2025" }, []string{wizard.FieldDate}},
		{"bad time", func(in *Input) { in.Time = "25:99" }, []string{wizard.FieldTime}},
		{"dog count too high", func(in *Input) { in.DogCount = "21" }, []string{wizard.FieldDogCount}},
		{"unknown animal", func(in *Input) { in.AnimalType = "horse" }, []string{wizard.FieldAnimalType}},
		{"html does not count", func(in *Input) {
			in.Description = "<p>" + strings.Repeat("a", MinDescription-1) + "</p>"
		}, []string{wizard.FieldDescription}},
		{"unknown sector", func(in *Input) { in.Sector = "valparaiso" }, []string{wizard.FieldSector}},
		{"null island", func(in *Input) { in.Latitude, in.Longitude = "0", "0" }, []string{KeyLocation}},
		{"out of range", func(in *Input) { in.Latitude = "-91" }, []string{wizard.FieldLatitude}},
		{"missing contact", func(in *Input) {
			in.ReporterName, in.ReporterEmail = "", ""
		}, []string{wizard.FieldReporterName, wizard.FieldReporterEmail}},
		{"display name email", func(in *Input) { in.ReporterEmail = "Pedro <pedro@example.com>" }, []string{wizard.FieldReporterEmail}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			in := validInput()
			tc.mutate(&in)

			_, err := svc.Submit(context.Background(), "", in)
			var fe *FormErrors
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormErrors, got %v", err)
			}
			if diff := cmp.Diff(tc.want, fe.Fields()); diff != "" {
				t.Fatalf("fields mismatch (-want +got):\n%s", diff)
			}
			if len(repo.byID) != 0 {
				t.Fatalf("invalid report must not be stored")
			}
		})
	}
}

func TestSubmit_PhotoErrors(t *testing.T) {
	svc, _, store := newTestService()

	in := validInput()
	for i := 0; i < MaxPhotos+1; i++ {
		in.Photos = append(in.Photos, pngUpload(t, "p.png", 2, 2))
	}
	_, err := svc.Submit(context.Background(), "", in)
	var fe *FormErrors
	if !errors.As(err, &fe) || fe.FieldErrors()[KeyPhotos][0] != "Máximo 5 fotografías permitidas." {
		t.Fatalf("expected max photos error, got %v", err)
	}

	in = validInput()
	big := pngUpload(t, "grande.png", 2, 2)
	big.Size = MaxPhotoSize + 1
	in.Photos = []Upload{
		big,
		{Name: "notas.txt", ContentType: "text/plain", Size: 4, Data: []byte("hola")},
		{Name: "falsa.jpg", ContentType: "image/jpeg", Size: 4, Data: []byte("nope")},
	}
	_, err = svc.Submit(context.Background(), "", in)
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormErrors, got %v", err)
	}
	want := []string{
		"grande.png excede los 5.0 MiB permitidos.",
		"notas.txt no es una imagen válida.",
		"falsa.jpg no es una imagen válida.",
	}
	if diff := cmp.Diff(want, fe.FieldErrors()[KeyPhotos]); diff != "" {
		t.Fatalf("photo errors mismatch (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestSubmit_RepoFailureDiscardsPhotos(t *testing.T) {
	svc, repo, store := newTestService()
	repo.createErr = errors.New("db down")

	in := validInput()
	in.Photos = []Upload{pngUpload(t, "a.png", 4, 4)}
	if _, err := svc.Submit(context.Background(), "", in); err == nil {
		t.Fatalf("expected error")
	}
	if store.Len() != 0 {
		t.Fatalf("expected stored photos to be discarded, got %d", store.Len())
	}
}

func TestInputFromValues(t *testing.T) {
	v := url.Values{}
	v.Set(wizard.FieldTitle, "t")
	v.Set(wizard.FieldAnonymous, "Sí")
	v.Set(wizard.FieldLatitude, "-39.8")

	in := InputFromValues(v)
	if in.Title != "t" || !in.Anonymous || in.Latitude != "-39.8" {
		t.Fatalf("unexpected input %+v", in)
	}
	if InputFromValues(url.Values{wizard.FieldAnonymous: {"off"}}).Anonymous {
		t.Fatalf("off must not mark anonymous")
	}
}

func TestWizardTarget_UsesClaims(t *testing.T) {
	svc, repo, _ := newTestService()
	tg := NewWizardTarget(svc)

	fields := url.Values{}
	in := validInput()
	for k, v := range map[string]string{
		wizard.FieldTitle: in.Title, wizard.FieldDate: in.Date, wizard.FieldAnimalType: in.AnimalType,
		wizard.FieldSeverity: in.Severity, wizard.FieldDescription: in.Description, wizard.FieldAddress: in.Address,
		wizard.FieldLatitude: in.Latitude, wizard.FieldLongitude: in.Longitude, wizard.FieldAnonymous: "on",
	} {
		fields.Set(k, v)
	}

	ctx := middleware.WithClaims(context.Background(), auth.Claims{UserID: "u-9"})
	res, err := tg.Submit(ctx, wizard.Submission{Fields: fields})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if res.Redirect != "/?report="+res.ReportID {
		t.Fatalf("unexpected redirect %q", res.Redirect)
	}
	if repo.byID[res.ReportID].UserID != "u-9" {
		t.Fatalf("expected user from claims")
	}

	// los errores del formulario pasan tal cual al asistente
	_, err = tg.Submit(ctx, wizard.Submission{Fields: url.Values{}})
	var fe wizard.FieldErrorer
	if !errors.As(err, &fe) || len(fe.FieldErrors()) == 0 {
		t.Fatalf("expected field errors, got %v", err)
	}
}

func TestErrorFragment_EscapesMessages(t *testing.T) {
	fe := &FormErrors{}
	fe.add(wizard.FieldTitle, "El título es obligatorio.")
	fe.add(KeyPhotos, "<script>x</script>.png no es una imagen válida.")

	rec := httptest.NewRecorder()
	writeErrorFragment(rec, 422, fe)

	body := rec.Body.String()
	if !strings.Contains(body, "<strong>Título:</strong> El título es obligatorio.") {
		t.Fatalf("missing labelled error: %s", body)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("message must be escaped: %s", body)
	}
	if strings.Index(body, "Título") > strings.Index(body, "Fotografías") {
		t.Fatalf("errors must keep detection order")
	}
}
