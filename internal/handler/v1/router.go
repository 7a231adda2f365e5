package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sahtycare/sahty/internal/domain"
	"github.com/sahtycare/sahty/pkg/auth"
	"github.com/sahtycare/sahty/pkg/metrics"
)

// Router wires every handler under /api/v1 with the shared middleware
// chain.
type Router struct {
	auth          *AuthHandler
	users         *UserHandler
	appointments  *AppointmentHandler
	prescriptions *PrescriptionHandler
	notifications *NotificationHandler
	catalog       *CatalogHandler

	jwtManager *auth.JWTManager
	collector  *metrics.Collector
	log        *zap.Logger
}

func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	appointmentHandler *AppointmentHandler,
	prescriptionHandler *PrescriptionHandler,
	notificationHandler *NotificationHandler,
	catalogHandler *CatalogHandler,
	jwtManager *auth.JWTManager,
	collector *metrics.Collector,
	log *zap.Logger,
) *Router {
	return &Router{
		auth:          authHandler,
		users:         userHandler,
		appointments:  appointmentHandler,
		prescriptions: prescriptionHandler,
		notifications: notificationHandler,
		catalog:       catalogHandler,
		jwtManager:    jwtManager,
		collector:     collector,
		log:           log,
	}
}

func (r *Router) Register(engine *gin.Engine) {
	engine.Use(Recovery(r.log))
	engine.Use(RequestLogger(r.log))
	engine.Use(Metrics(r.collector))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
	})
	engine.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := engine.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.auth.Register)
		authGroup.POST("/login", r.auth.Login)
		authGroup.POST("/refresh", r.auth.Refresh)
	}

	authed := api.Group("")
	authed.Use(RequireAuth(r.jwtManager))

	admin := authed.Group("/admin")
	admin.Use(RequireRoles(domain.RoleAdmin))
	{
		admin.GET("/users", r.users.List)
		admin.POST("/users", r.users.Create)
		admin.GET("/users/:id", r.users.Get)
		admin.PUT("/users/role", r.users.AssignRole)
		admin.DELETE("/users/:id", r.users.Delete)
	}

	appointments := authed.Group("/appointments")
	{
		appointments.GET("", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), r.appointments.List)
		appointments.GET("/mine", RequireRoles(domain.RolePatient), r.appointments.ListMine)
		appointments.POST("", RequireRoles(domain.RolePatient), r.appointments.Request)
		appointments.PUT("/:id", RequireRoles(domain.RolePatient), r.appointments.Update)
		appointments.DELETE("/:id", RequireRoles(domain.RolePatient), r.appointments.Delete)
		appointments.POST("/:id/accept", RequireRoles(domain.RoleDoctor), r.appointments.Accept)
		appointments.POST("/:id/refuse", RequireRoles(domain.RoleDoctor), r.appointments.Refuse)
	}

	prescriptions := authed.Group("/prescriptions")
	{
		prescriptions.GET("", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RolePharmacist), r.prescriptions.List)
		prescriptions.GET("/mine", RequireRoles(domain.RolePatient), r.prescriptions.ListMine)
		prescriptions.POST("", RequireRoles(domain.RoleDoctor), r.prescriptions.Create)
		prescriptions.PUT("/:id", RequireRoles(domain.RolePharmacist), r.prescriptions.Update)
		prescriptions.DELETE("/:id", RequireRoles(domain.RoleDoctor, domain.RolePharmacist), r.prescriptions.Delete)
		prescriptions.POST("/:id/accept", RequireRoles(domain.RolePharmacist), r.prescriptions.Accept)
		prescriptions.POST("/:id/refuse", RequireRoles(domain.RolePharmacist), r.prescriptions.Refuse)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", r.notifications.List)
		notifications.POST("/:id/read", r.notifications.MarkRead)
		notifications.POST("/read-all", r.notifications.MarkAllRead)
	}

	doctors := authed.Group("/doctors")
	{
		doctors.GET("", r.catalog.ListDoctors)
		doctors.GET("/:id", r.catalog.GetDoctor)
		doctors.PUT("/:id", RequireRoles(domain.RoleAdmin), r.catalog.UpdateDoctor)
		doctors.DELETE("/:id", RequireRoles(domain.RoleAdmin), r.catalog.DeleteDoctor)
	}

	patients := authed.Group("/patients")
	{
		patients.GET("", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RolePharmacist), r.catalog.ListPatients)
		patients.GET("/:id", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RolePharmacist), r.catalog.GetPatient)
		patients.PUT("/:id", RequireRoles(domain.RoleAdmin), r.catalog.UpdatePatient)
		patients.DELETE("/:id", RequireRoles(domain.RoleAdmin), r.catalog.DeletePatient)
	}

	pharmacists := authed.Group("/pharmacists")
	{
		pharmacists.GET("", r.catalog.ListPharmacists)
		pharmacists.GET("/:id", r.catalog.GetPharmacist)
		pharmacists.PUT("/:id", RequireRoles(domain.RoleAdmin), r.catalog.UpdatePharmacist)
		pharmacists.DELETE("/:id", RequireRoles(domain.RoleAdmin), r.catalog.DeletePharmacist)
	}

	medications := authed.Group("/medications")
	{
		medications.GET("", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RolePharmacist), r.catalog.ListMedications)
		medications.GET("/:id", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RolePharmacist), r.catalog.GetMedication)
		medications.POST("", RequireRoles(domain.RoleAdmin, domain.RolePharmacist), r.catalog.CreateMedication)
		medications.PUT("/:id", RequireRoles(domain.RoleAdmin, domain.RolePharmacist), r.catalog.UpdateMedication)
		medications.DELETE("/:id", RequireRoles(domain.RoleAdmin, domain.RolePharmacist), r.catalog.DeleteMedication)
	}
}
