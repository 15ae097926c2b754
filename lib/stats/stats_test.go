package stats

import (
	"encoding/json"
	"go/parser"
	"go/token"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		samples []time.Duration
		want    Summary
	}{
		{"empty", nil, Summary{}},
		{"single", []time.Duration{2 * time.Millisecond}, Summary{Count: 1, Min: 2, Max: 2, Mean: 2, Median: 2}},
		{
			"odd",
			[]time.Duration{3 * time.Millisecond, 1 * time.Millisecond, 2 * time.Millisecond},
			Summary{Count: 3, Min: 1, Max: 3, Mean: 2, Stddev: math.Sqrt(2.0 / 3), Median: 2},
		},
		{
			"even",
			[]time.Duration{4 * time.Millisecond, 2 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond},
			Summary{Count: 4, Min: 2, Max: 4, Mean: 3, Stddev: 1, Median: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.samples)
			if got.Count != tt.want.Count || !near(got.Min, tt.want.Min) || !near(got.Max, tt.want.Max) ||
				!near(got.Mean, tt.want.Mean) || !near(got.Stddev, tt.want.Stddev) || !near(got.Median, tt.want.Median) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummaryFPS(t *testing.T) {
	if fps := (Summary{Mean: 4}).FPS(); fps != 250 {
		t.Errorf("FPS = %v, want 250", fps)
	}
	if fps := (Summary{}).FPS(); fps != 0 {
		t.Errorf("FPS of empty summary = %v, want 0", fps)
	}
}

func TestUpdate(t *testing.T) {
	clock := time.Unix(1000, 0)
	s := New()
	s.now = func() time.Time { return clock }
	s.start = clock
	s.frameTimer = clock

	for range 30 {
		clock = clock.Add(40 * time.Millisecond)
		s.Update(100, 5*time.Millisecond)
	}
	s.Failed()
	s.SetWsClients(2)
	s.SetSession(SessionInfo{Resolution: "64x32", Frames: 30})

	snap := s.Snapshot()
	if snap.FramesConverted != 30 || snap.FramesFailed != 1 {
		t.Errorf("frames = %d/%d failed, want 30/1", snap.FramesConverted, snap.FramesFailed)
	}
	if snap.BytesUploaded != 3000 {
		t.Errorf("BytesUploaded = %d, want 3000", snap.BytesUploaded)
	}
	if snap.FPS != 26 {
		t.Errorf("FPS = %d, want 26", snap.FPS)
	}
	if !near(snap.Uptime, 1.2) {
		t.Errorf("Uptime = %v, want 1.2", snap.Uptime)
	}
	if snap.FrameTime.Count != 30 || !near(snap.FrameTime.Mean, 5) {
		t.Errorf("FrameTime = %+v", snap.FrameTime)
	}
	if snap.WsClients != 2 || snap.Session == nil || snap.Session.Resolution != "64x32" {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, err := json.Marshal(snap); err != nil {
		t.Errorf("snapshot does not marshal: %s", err)
	}
}

func TestSamplesAreBounded(t *testing.T) {
	s := New()
	for i := range maxSamples + 10 {
		s.Update(1, time.Duration(i)*time.Microsecond)
	}
	if n := s.Snapshot().FrameTime.Count; n != maxSamples {
		t.Errorf("Count = %d, want %d", n, maxSamples)
	}
}

// stats is served by the api, which must build without a GL stack.
func TestNoGLImports(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	for _, name := range files {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatal(err)
		}
		for _, imp := range f.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			for _, banned := range []string{"lib/converter", "lib/glcontext", "lib/rendering", "github.com/go-gl/"} {
				if strings.Contains(path, banned) {
					t.Errorf("%s imports %s", name, path)
				}
			}
		}
	}
}
