package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesConverted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glconvert_frames_converted_total",
		Help: "Total number of YUY2 frames converted to NV12",
	}, []string{"resolution"})
	FramesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glconvert_frames_failed_total",
		Help: "Total number of frames whose conversion failed",
	}, []string{"resolution"})
	BytesUploaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glconvert_bytes_uploaded_total",
		Help: "Total number of YUY2 bytes uploaded to the GPU",
	}, []string{"resolution"})
	BytesRead = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "glconvert_bytes_read_total",
		Help: "Total number of NV12 bytes read back from the GPU",
	}, []string{"resolution"})
	PassSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "glconvert_pass_seconds",
		Help:    "Wall time of one upload or plane extraction pass",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"resolution", "pass"})
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "glconvert_active_sessions",
		Help: "Number of conversion sessions holding GPU resources",
	})
)

type SessionMetrics struct {
	FramesConverted prometheus.Counter
	FramesFailed    prometheus.Counter
	BytesUploaded   prometheus.Counter
	BytesRead       prometheus.Counter
	UploadSeconds   prometheus.Observer
	YPassSeconds    prometheus.Observer
	UVPassSeconds   prometheus.Observer
}

func NewSessionMetrics(resolution string) SessionMetrics {
	s := SessionMetrics{
		FramesConverted: FramesConverted.WithLabelValues(resolution),
		FramesFailed:    FramesFailed.WithLabelValues(resolution),
		BytesUploaded:   BytesUploaded.WithLabelValues(resolution),
		BytesRead:       BytesRead.WithLabelValues(resolution),
		UploadSeconds:   PassSeconds.WithLabelValues(resolution, "upload"),
		YPassSeconds:    PassSeconds.WithLabelValues(resolution, "y"),
		UVPassSeconds:   PassSeconds.WithLabelValues(resolution, "uv"),
	}
	s.FramesConverted.Add(0)
	s.FramesFailed.Add(0)
	s.BytesUploaded.Add(0)
	s.BytesRead.Add(0)
	return s
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
