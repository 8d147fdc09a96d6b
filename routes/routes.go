package routes

import (
	"time"

	"turnos/config"
	"turnos/handlers"
	"turnos/middleware"
	"turnos/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterProvinceRoutes registers province endpoints.
func RegisterProvinceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/provinces")
	{
		api.GET("", hb.ListProvinces)
		api.GET("/:id", hb.GetProvince)
		api.POST("", middleware.JWTAuthAdminMiddleware(), hb.CreateProvince)
	}
}

// RegisterBranchRoutes registers branch endpoints.
func RegisterBranchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/branches")
	{
		api.GET("/province/:provinceId", hb.ListBranchesByProvince)
		api.GET("/:branchId", hb.GetBranch)
		api.POST("", middleware.JWTAuthAdminMiddleware(), hb.CreateBranch)
	}
}

// RegisterProfessionalRoutes registers professional endpoints.
func RegisterProfessionalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/professionals")
	{
		api.GET("/branch/:branchId", hb.ListProfessionalsByBranch)
		api.GET("/:professionalId", hb.GetProfessional)
		api.GET("/:professionalId/working-hours/:date", hb.GetWorkingHours)
		api.POST("", middleware.JWTAuthAdminMiddleware(), hb.CreateProfessional)
	}
}

// RegisterAppointmentRoutes registers availability and booking endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.GET("/availability/:professionalId/:date", hb.GetAvailableSlots)
		api.GET("/availability/:professionalId/:date/check", hb.CheckTimeSlot)
		api.POST("", hb.CreateAppointment)
		api.GET("/:appointmentId", hb.GetAppointment)
		api.PUT("/:appointmentId/cancel", hb.CancelAppointment)
	}
}

// RegisterHealthRoute registers the health-check and, when present, metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	if hb.Metrics != nil {
		r.GET("/metrics", hb.Metrics)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	utils.RegisterValidators()

	origins := config.AppConfig.AllowedOrigins()
	corsCfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	RegisterHealthRoute(r, hb)
	RegisterProvinceRoutes(r, hb)
	RegisterBranchRoutes(r, hb)
	RegisterProfessionalRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
}
