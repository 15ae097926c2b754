package stats

import (
	"math"
	"slices"
	"sync"
	"time"
)

// how many frame times are kept for the summary
const maxSamples = 1024

type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
	Median float64 `json:"median"`
}

// FPS is the frame rate the mean frame time allows for.
func (s Summary) FPS() float64 {
	if s.Mean == 0 {
		return 0
	}
	return 1000 / s.Mean
}

// SessionInfo describes the conversion session currently in use.
type SessionInfo struct {
	ID         string `json:"id"`
	Resolution string `json:"resolution"`
	TileSize   int    `json:"tile_size"`
	Frames     uint64 `json:"frames"`
	InputSize  int    `json:"input_size"`
	OutputSize int    `json:"output_size"`
}

type Snapshot struct {
	FramesConverted uint64       `json:"frames_converted"`
	FramesFailed    uint64       `json:"frames_failed"`
	BytesUploaded   uint64       `json:"bytes_uploaded"`
	UploadAvgGb     float64      `json:"upload_avg_gb"`
	Uptime          float64      `json:"uptime"`
	FPS             uint64       `json:"fps"`
	WsClients       int          `json:"ws_clients"`
	Session         *SessionInfo `json:"session,omitempty"`
	FrameTime       Summary      `json:"frame_time_ms"`
}

type Stats struct {
	mutex sync.Mutex
	snap  Snapshot

	samples      []time.Duration
	next         int
	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update records one converted frame of the given input size.
func (s *Stats) Update(inputBytes int, took time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	s.frameCounter++
	if now.Sub(s.frameTimer) > 1*time.Second {
		s.snap.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}

	s.snap.FramesConverted++
	s.snap.BytesUploaded += uint64(inputBytes)

	if len(s.samples) < maxSamples {
		s.samples = append(s.samples, took)
	} else {
		s.samples[s.next] = took
		s.next = (s.next + 1) % maxSamples
	}
}

func (s *Stats) Failed() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snap.FramesFailed++
}

func (s *Stats) SetWsClients(n int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snap.WsClients = n
}

func (s *Stats) SetSession(info SessionInfo) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.snap.Session = &info
}

func (s *Stats) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	snap := s.snap
	snap.Uptime = s.now().Sub(s.start).Seconds()
	if snap.Uptime > 0 {
		snap.UploadAvgGb = float64(snap.BytesUploaded) / (snap.Uptime * 1024 * 1024 * 1024)
	}
	if snap.Session != nil {
		info := *snap.Session
		snap.Session = &info
	}
	snap.FrameTime = Summarize(s.samples)
	return snap
}

// Summarize reports the samples in milliseconds.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	ms := make([]float64, len(samples))
	for i, d := range samples {
		ms[i] = float64(d.Nanoseconds()) / 1e6
	}
	slices.Sort(ms)

	var sum float64
	for _, v := range ms {
		sum += v
	}
	mean := sum / float64(len(ms))

	var sq float64
	for _, v := range ms {
		sq += (v - mean) * (v - mean)
	}

	median := ms[len(ms)/2]
	if len(ms)%2 == 0 {
		median = (ms[len(ms)/2-1] + ms[len(ms)/2]) / 2
	}

	return Summary{
		Count:  len(ms),
		Min:    ms[0],
		Max:    ms[len(ms)-1],
		Mean:   mean,
		Stddev: math.Sqrt(sq / float64(len(ms))),
		Median: median,
	}
}
