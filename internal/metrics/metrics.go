package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration observes HTTP request latency per route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusevents_http_request_duration_seconds",
		Help:    "HTTP request latency by route, method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method", "status"})

	// RegistrationsTotal counts successful event registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusevents_registrations_total",
		Help: "Successful event registrations.",
	})

	// AttendanceMarksTotal counts attendance marks by status.
	AttendanceMarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusevents_attendance_marks_total",
		Help: "Attendance marks recorded, by normalized status.",
	}, []string{"status"})

	// FeedbackTotal counts feedback submissions.
	FeedbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campusevents_feedback_total",
		Help: "Feedback submissions accepted.",
	})

	// MailJobsTotal counts mail jobs by outcome.
	MailJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusevents_mail_jobs_total",
		Help: "Mail jobs processed by the worker, by outcome.",
	}, []string{"outcome"})
)

// GinMiddleware records request latency. Uses the route template so
// parameterized paths do not explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.WithLabelValues(path, c.Request.Method,
			strconv.Itoa(c.Writer.Status())).Observe(time.Since(start).Seconds())
	}
}
