package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusevents/internal/apperr"
	"campusevents/internal/attendance"
	"campusevents/internal/auth"
	"campusevents/internal/colleges"
	"campusevents/internal/config"
	"campusevents/internal/events"
	"campusevents/internal/feedback"
	"campusevents/internal/queue"
	"campusevents/internal/registrations"
	"campusevents/internal/reports"
	"campusevents/internal/users"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	cfg      config.App
	users    *users.Service
	colleges *colleges.Repository
	events   *events.Service
	regs     *registrations.Service
	att      *attendance.Service
	fb       *feedback.Service
	reports  *reports.Service
	queue    queue.Queue
}

func New(cfg config.App, usersSvc *users.Service, collegesRepo *colleges.Repository,
	eventsSvc *events.Service, regsSvc *registrations.Service, attSvc *attendance.Service,
	fbSvc *feedback.Service, reportsSvc *reports.Service, q queue.Queue) *Handler {
	return &Handler{
		cfg:      cfg,
		users:    usersSvc,
		colleges: collegesRepo,
		events:   eventsSvc,
		regs:     regsSvc,
		att:      attSvc,
		fb:       fbSvc,
		reports:  reportsSvc,
		queue:    q,
	}
}

// Routes mounts the API under /api.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/signup", h.signup)
	api.POST("/auth/login", h.login)
	api.GET("/colleges", h.listColleges)

	authed := api.Group("", auth.RequireAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))
	admin := authed.Group("", auth.RequireRole(auth.RoleAdmin))

	authed.GET("/events", h.listEvents)
	authed.GET("/events/eligible", h.eligibleEvents)
	authed.GET("/events/:id", h.getEvent)
	admin.POST("/events", h.createEvent)
	admin.PUT("/events/:id", h.updateEvent)
	admin.POST("/events/:id/cancel", h.cancelEvent)
	admin.POST("/events/:id/complete", h.completeEvent)
	admin.GET("/events/admin/my-events", h.myEvents)
	admin.GET("/events/:id/registrations", h.eventRegistrations)

	authed.POST("/registrations/register", h.register)
	authed.POST("/registrations/feedback", h.submitFeedback)

	admin.POST("/attendance/:eventId/take", h.initializeAttendance)
	admin.GET("/attendance/event/:eventId", h.eventAttendance)
	admin.PATCH("/attendance/event/:eventId/mark", h.markAttendance)
	admin.POST("/attendance/event/:eventId/submit", h.submitAttendance)
	authed.GET("/attendance/my-attendance", h.myAttendance)

	admin.GET("/reports/event-popularity", h.eventPopularity)
	admin.GET("/reports/top-active-students", h.topActiveStudents)
	admin.GET("/reports/flexible", h.flexibleReport)
	admin.GET("/reports/registrations-per-event", h.registrationsPerEvent)
	admin.GET("/reports/attendance-percentage", h.attendancePercentage)
	admin.GET("/reports/average-feedback", h.averageFeedback)

	admin.GET("/admin/profile", h.adminProfile)
	admin.GET("/admin/my-stats", h.adminStats)
}

// respondErr maps a service error to its status and JSON body. Internal
// causes are logged here and never echoed to the client.
func respondErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": apperr.MessageOf(err)})
}

func (h *Handler) listColleges(c *gin.Context) {
	list, err := h.colleges.List(c.Request.Context())
	if err != nil {
		respondErr(c, apperr.Internal(err))
		return
	}
	if list == nil {
		list = []colleges.College{}
	}
	c.JSON(http.StatusOK, list)
}
