package router_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"huella-urbana/internal/router"
)

const description = "Un perro grande persiguió a un ciclista por la costanera durante varios minutos."

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	t.Cleanup(ts.Close)
	return ts
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		img.Set(x, x%30, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestHTTP_WizardEndToEnd(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, http.MethodPost, "/wizard", "", "", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating session, got %d body=%s", st, body)
	}
	var view struct {
		SessionID string `json:"session_id"`
		Step      int    `json:"step"`
		FileCount int    `json:"file_count"`
		Previews  []struct {
			Index   int    `json:"index"`
			DataURL string `json:"data_url"`
		} `json:"previews"`
		Warning *struct {
			Kind string `json:"kind"`
		} `json:"warning"`
	}
	mustJSON(t, body, &view)
	base := "/wizard/" + view.SessionID

	// 1) Paso 1 incompleto: no avanza
	st, body = doReq(t, ts.URL, http.MethodPost, base+"/next", "", "", nil)
	mustJSON(t, body, &view)
	if st != http.StatusOK || view.Step != 1 || view.Warning == nil || view.Warning.Kind != "missing_fields" {
		t.Fatalf("expected missing_fields on step 1, got %d %s", st, body)
	}

	// 2) Completa detalles y avanza
	doReq(t, ts.URL, http.MethodPatch, base+"/fields", "", "", map[string]string{
		"title":       "Perro agresivo en la costanera",
		"date":        "2025-12-20",
		"animal_type": "dog",
		"dog_count":   "2",
		"severity":    "moderate",
		"description": description,
	})
	st, body = doReq(t, ts.URL, http.MethodPost, base+"/next", "", "", nil)
	mustJSON(t, body, &view)
	if view.Step != 2 {
		t.Fatalf("expected step 2, got %s", body)
	}

	// 3) Ubicación y dirección
	doReq(t, ts.URL, http.MethodPost, base+"/location", "", "", map[string]float64{"lat": -39.8142, "lng": -73.2459})
	doReq(t, ts.URL, http.MethodPatch, base+"/fields", "", "", map[string]string{
		"address":   "Av. Costanera 123",
		"sector":    "centro",
		"anonymous": "on",
	})
	st, body = doReq(t, ts.URL, http.MethodPost, base+"/next", "", "", nil)
	mustJSON(t, body, &view)
	if view.Step != 3 {
		t.Fatalf("expected step 3, got %d %s", st, body)
	}

	// 4) Foto real
	ctype, payload := multipartBody(t, nil, map[string][]byte{"perro.png": pngBytes(t)})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+base+"/attachments", payload)
	req.Header.Set("Content-Type", ctype)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	mustJSON(t, body, &view)
	if view.FileCount != 1 || len(view.Previews) != 1 || !strings.HasPrefix(view.Previews[0].DataURL, "data:image/") {
		t.Fatalf("expected one preview, got %s", body)
	}

	// 5) Enviar
	st, body = doReq(t, ts.URL, http.MethodPost, base+"/submit", "", "", nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 on submit, got %d body=%s", st, body)
	}
	var result struct {
		ReportID string `json:"report_id"`
		Redirect string `json:"redirect"`
	}
	mustJSON(t, body, &result)
	if result.ReportID == "" || result.Redirect != "/?report="+result.ReportID {
		t.Fatalf("unexpected submit result %s", body)
	}

	// la sesión se descarta
	if st, _ := doReq(t, ts.URL, http.MethodGet, base, "", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 after submit, got %d", st)
	}

	// 6) El reporte queda pendiente: el público no lo ve, el moderador sí
	if st, _ := doReq(t, ts.URL, http.MethodGet, "/reports/"+result.ReportID, "", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected pending report hidden, got %d", st)
	}
	st, body = doReq(t, ts.URL, http.MethodGet, "/reports/"+result.ReportID, "mod-1", "moderator", nil)
	if st != http.StatusOK {
		t.Fatalf("expected moderator to see report, got %d", st)
	}
	var rep struct {
		Reporter  string `json:"reporter"`
		Anonymous bool   `json:"anonymous"`
		Photos    []struct {
			URL   string `json:"url"`
			Width int    `json:"width"`
		} `json:"photos"`
	}
	mustJSON(t, body, &rep)
	if !rep.Anonymous || rep.Reporter != "Anónimo" || len(rep.Photos) != 1 || rep.Photos[0].Width != 40 {
		t.Fatalf("unexpected report %s", body)
	}
}

func TestHTTP_ReportFormSubmit(t *testing.T) {
	ts := newServer(t)

	fields := map[string]string{
		"title":          "Gato herido",
		"date":           "2025-11-02",
		"animal_type":    "cat",
		"severity":       "minor",
		"description":    description,
		"address":        "Pasaje Los Robles 45",
		"latitude":       "-39.82",
		"longitude":      "-73.23",
		"reporter_name":  "Camila Soto",
		"reporter_email": "camila@example.com",
	}

	// Navegador: 303 al inicio
	ctype, payload := multipartBody(t, fields, map[string][]byte{"gato.png": pngBytes(t)})
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/reports/", payload)
	req.Header.Set("Content-Type", ctype)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusSeeOther || !strings.HasPrefix(res.Header.Get("Location"), "/?report=") {
		t.Fatalf("expected 303 redirect, got %d %q", res.StatusCode, res.Header.Get("Location"))
	}

	// JSON: 201
	ctype, payload = multipartBody(t, fields, nil)
	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/reports/", payload)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Debug-User-ID", "user-7")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", res.StatusCode, body)
	}
	var created struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Reporter string `json:"reporter"`
	}
	mustJSON(t, body, &created)
	if created.Status != "pending" || created.Reporter != "Camila Soto" {
		t.Fatalf("unexpected created report %s", body)
	}

	// el autor ve su reporte pendiente
	if st, _ := doReq(t, ts.URL, http.MethodGet, "/reports/"+created.ID, "user-7", "", nil); st != http.StatusOK {
		t.Fatalf("expected owner to see pending report, got %d", st)
	}

	// Errores: JSON 422 y fragmento HTML 422
	bad := map[string]string{"title": "x", "date": "2999-01-01", "animal_type": "dog", "severity": "minor"}
	ctype, payload = multipartBody(t, bad, nil)
	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/reports/", payload)
	req.Header.Set("Content-Type", ctype)
	req.Header.Set("Accept", "application/json")
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.StatusCode)
	}
	var fe struct {
		Errors map[string][]string `json:"errors"`
	}
	mustJSON(t, body, &fe)
	for _, k := range []string{"date", "description", "address", "latitude", "reporter_name"} {
		if len(fe.Errors[k]) == 0 {
			t.Errorf("expected error for %s, got %v", k, fe.Errors)
		}
	}

	ctype, payload = multipartBody(t, bad, nil)
	res, err = http.Post(ts.URL+"/reports/", ctype, payload)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(string(body), "Por favor corrige los siguientes errores:") {
		t.Fatalf("expected html error fragment, got %d %s", res.StatusCode, body)
	}
}

func TestHTTP_ModerationFlow(t *testing.T) {
	ts := newServer(t)

	ids := make([]string, 0, 3)
	for _, title := range []string{"Uno", "Dos", "Tres"} {
		ctype, payload := multipartBody(t, map[string]string{
			"title":       title,
			"date":        "2025-10-10",
			"animal_type": "dog",
			"severity":    "severe",
			"description": description,
			"address":     "Calle " + title,
			"latitude":    "-39.81",
			"longitude":   "-73.24",
			"anonymous":   "on",
		}, nil)
		req, _ := http.NewRequest(http.MethodPost, ts.URL+"/reports/", payload)
		req.Header.Set("Content-Type", ctype)
		req.Header.Set("Accept", "application/json")
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		var created struct {
			ID string `json:"id"`
		}
		mustJSON(t, body, &created)
		ids = append(ids, created.ID)
	}

	// sin rol
	if st, _ := doReq(t, ts.URL, http.MethodGet, "/moderation/reports", "", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without user, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, http.MethodGet, "/moderation/reports", "user-1", "user", nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", st)
	}

	// aprobar y rechazar
	if st, body := doReq(t, ts.URL, http.MethodPost, "/moderation/reports/"+ids[0]+"/approve", "mod-1", "moderator", nil); st != http.StatusOK {
		t.Fatalf("approve: %d %s", st, body)
	}
	if st, _ := doReq(t, ts.URL, http.MethodPost, "/moderation/reports/"+ids[1]+"/reject", "mod-1", "moderator", map[string]string{"reason": " "}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 rejecting without reason, got %d", st)
	}
	if st, body := doReq(t, ts.URL, http.MethodPost, "/moderation/reports/"+ids[1]+"/reject", "mod-1", "admin", map[string]string{"reason": "Duplicado"}); st != http.StatusOK {
		t.Fatalf("reject: %d %s", st, body)
	}
	if st, _ := doReq(t, ts.URL, http.MethodPost, "/moderation/reports/missing/approve", "mod-1", "moderator", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown report, got %d", st)
	}

	// cola filtrada
	st, body := doReq(t, ts.URL, http.MethodGet, "/moderation/reports?status=pending&page=abc", "mod-1", "moderator", nil)
	if st != http.StatusOK {
		t.Fatalf("list: %d", st)
	}
	var queue struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Page   int `json:"page"`
		Counts struct {
			Pending  int `json:"pending"`
			Approved int `json:"approved"`
			Rejected int `json:"rejected"`
			All      int `json:"all"`
			Filtered int `json:"filtered"`
		} `json:"counts"`
	}
	mustJSON(t, body, &queue)
	if queue.Page != 1 || len(queue.Items) != 1 || queue.Items[0].ID != ids[2] {
		t.Fatalf("unexpected queue %s", body)
	}
	if queue.Counts.Pending != 1 || queue.Counts.Approved != 1 || queue.Counts.Rejected != 1 || queue.Counts.All != 3 || queue.Counts.Filtered != 1 {
		t.Fatalf("unexpected counts %+v", queue.Counts)
	}

	// bitácora
	st, body = doReq(t, ts.URL, http.MethodGet, "/moderation/reports/"+ids[1]+"/log", "mod-1", "moderator", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "Duplicado") {
		t.Fatalf("expected rejection in log, got %d %s", st, body)
	}

	// mapa público: solo el aprobado
	st, body = doReq(t, ts.URL, http.MethodGet, "/map/reports", "", "", nil)
	var markers []struct {
		ID   string `json:"id"`
		Date string `json:"date"`
	}
	mustJSON(t, body, &markers)
	if st != http.StatusOK || len(markers) != 1 || markers[0].ID != ids[0] || markers[0].Date != "10/10/2025" {
		t.Fatalf("unexpected markers %s", body)
	}

	// CSV
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/moderation/export.csv", nil)
	req.Header.Set("X-Debug-User-ID", "admin-1")
	req.Header.Set("X-Debug-Role", "admin")
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer res.Body.Close()
	if !strings.Contains(res.Header.Get("Content-Disposition"), "reportes_") {
		t.Fatalf("unexpected disposition %q", res.Header.Get("Content-Disposition"))
	}
	rows, err := csv.NewReader(res.Body).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
}

func TestHTTP_HealthAndSwagger(t *testing.T) {
	ts := newServer(t)

	if st, body := doReq(t, ts.URL, http.MethodGet, "/health", "", "", nil); st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, body)
	}
	if st, _ := doReq(t, ts.URL, http.MethodGet, "/swagger/doc.json", "", "", nil); st != http.StatusOK {
		t.Fatalf("expected swagger doc, got %d", st)
	}
}

// -------------------------
// helpers
// -------------------------

func doReq(t *testing.T, baseURL, method, path, userID, role string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}
	if role != "" {
		req.Header.Set("X-Debug-Role", role)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, b
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for name, data := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photos"; filename="`+name+`"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = mw.Close()
	return mw.FormDataContentType(), &buf
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}
