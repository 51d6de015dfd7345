package handlers

import (
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// capture and state stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/token", h.issueToken)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorIdMiddleware)
	{
		h.registerApplianceRoutes(api)
		h.registerIRRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerApplianceRoutes(api *gin.RouterGroup) {
	ac := api.Group("/ac")
	{
		ac.GET("/state", h.getState)
		// Body example: {"on":true}
		ac.POST("/power", h.setPower)
		ac.POST("/temperature/up", h.tempUp)
		ac.POST("/temperature/down", h.tempDown)
		ac.PUT("/temperature", h.setTemperature)
		ac.PUT("/mode", h.setMode)
		// Body example: {"powered":true,"mode":"cool","temperature":24}
		ac.PUT("/status", h.setStatus)
	}
}

func (h *Handler) registerIRRoutes(api *gin.RouterGroup) {
	ir := api.Group("/ir")
	{
		ir.GET("/captures", h.listCaptures)
		ir.GET("/captures/latest", h.latestCapture)
		ir.DELETE("/captures", h.clearCaptures)
		// Body example: {"frames":["40 00 14 80 43"]} or {"pulses":[3400,1700,430]}
		ir.POST("/send", h.sendIR)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
