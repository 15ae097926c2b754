package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/stats"
	"github.com/fosdem/glconvert/lib/testpattern"
)

func newTestApi() *Api {
	st := stats.New()
	st.Update(64*32*2, 2*time.Millisecond)
	return New(&config.ApiCfg{Bind: "127.0.0.1:0"}, st)
}

func do(a *Api, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGetStats(t *testing.T) {
	a := newTestApi()
	rec := do(a, "GET", "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap stats.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.FramesConverted != 1 || snap.BytesUploaded != 64*32*2 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestKill(t *testing.T) {
	a := newTestApi()
	if rec := do(a, "GET", "/api/kill"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", rec.Code)
	}
	if a.ShutdownRequested.Load() {
		t.Fatalf("GET requested a shutdown")
	}
	if rec := do(a, "POST", "/api/kill"); rec.Code != http.StatusOK {
		t.Errorf("POST status = %d", rec.Code)
	}
	if !a.ShutdownRequested.Load() {
		t.Errorf("POST did not request a shutdown")
	}
}

func TestProfilerDisabled(t *testing.T) {
	a := newTestApi()
	if rec := do(a, "GET", "/prof"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMedia(t *testing.T) {
	a := newTestApi()
	if rec := do(a, "GET", "/api/media/output"); rec.Code != http.StatusFailedDependency {
		t.Errorf("before any frame: status = %d", rec.Code)
	}

	l, err := encdec.NewPlaneLayout(64, 32)
	if err != nil {
		t.Fatal(err)
	}
	src := testpattern.ColorBars(64, 32)
	out, err := encdec.ConvertYUY2ToNV12(nil, src, l)
	if err != nil {
		t.Fatal(err)
	}
	a.SetFrames(
		&encdec.Frame{Data: src, Width: 64, Height: 32, Type: encdec.YUY2Frames},
		&encdec.Frame{Data: out, Width: 64, Height: 32, Type: encdec.NV12Frames},
	)
	// the api keeps its own copy
	src[0] = ^src[0]

	tests := []struct {
		path        string
		code        int
		contentType string
	}{
		{"/api/media/input", http.StatusOK, "image/jpeg"},
		{"/api/media/output/jpeg", http.StatusOK, "image/jpeg"},
		{"/api/media/output/png", http.StatusOK, "image/png"},
		{"/api/media/output/gif", http.StatusBadRequest, ""},
		{"/api/media/scratch", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := do(a, "GET", tt.path)
		if rec.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.path, rec.Code, tt.code)
			continue
		}
		if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
			t.Errorf("%s: content type = %s", tt.path, rec.Header().Get("Content-Type"))
		}
	}

	rec := do(a, "GET", "/api/media/input/png")
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("preview is %dx%d", b.Dx(), b.Dy())
	}
}

func TestMetricsAndSwagger(t *testing.T) {
	a := newTestApi()
	if rec := do(a, "GET", "/metrics"); rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rec.Code)
	}
	rec := do(a, "GET", "/swagger/doc.json")
	if rec.Code != http.StatusOK {
		t.Fatalf("/swagger/doc.json status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/stats") {
		t.Errorf("swagger document does not describe /api/stats")
	}
}

func TestWebsocketPushesStats(t *testing.T) {
	a := newTestApi()
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ws.Close()

	if err := ws.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatal(err)
	}
	_, msg, err := ws.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var snap stats.Snapshot
	if err := json.Unmarshal(msg, &snap); err != nil {
		t.Fatalf("bad stats message %q: %s", msg, err)
	}
	if snap.FramesConverted != 1 {
		t.Errorf("FramesConverted = %d", snap.FramesConverted)
	}
}
