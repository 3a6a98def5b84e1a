package router

import (
	"github.com/campusstore/backend/internal/infrastructure/logger"
	"github.com/campusstore/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Products     *handler.ProductHandler
	Colleges     *handler.CollegeHandler
	Identity     *handler.IdentityHandler
	Transactions *handler.TransactionHandler
	Transfers    *handler.TransferHandler
	Audits       *handler.AuditHandler
	Stock        *handler.StockHandler
	Health       *handler.HealthHandler
}

// NewEngine builds the gin engine with logging, request IDs, panic
// recovery and the full route table.
func NewEngine(log *zap.Logger, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/healthz", h.Health.Live)
	engine.GET("/readyz", h.Health.Ready)

	NewRouter(engine).
		Register(productRoutes(h.Products)).
		Register(collegeRoutes(h.Colleges)).
		Register(identityRoutes(h.Identity)).
		Register(transactionRoutes(h.Transactions)).
		Register(transferRoutes(h.Transfers)).
		Register(auditRoutes(h.Audits)).
		Register(stockRoutes(h.Stock)).
		Setup()

	return engine
}

func productRoutes(h *handler.ProductHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/products")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PUT("/:id/set", h.ConfigureSet)
		g.DELETE("/:id", h.Delete)
	})
}

func collegeRoutes(h *handler.CollegeHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/colleges")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id/courses", h.UpdateCourses)
	})
}

func identityRoutes(h *handler.IdentityHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		students := rg.Group("/students")
		students.POST("", h.CreateStudent)
		students.GET("/:id", h.GetStudent)

		staff := rg.Group("/staff")
		staff.POST("", h.CreateStaff)
		staff.GET("/:id", h.GetStaff)
		staff.PUT("/:id/college", h.AssignStaffCollege)
	})
}

func transactionRoutes(h *handler.TransactionHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/transactions")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Edit)
		g.PUT("/:id/paid", h.SetPaid)
		g.DELETE("/:id", h.Delete)
	})
}

func transferRoutes(h *handler.TransferHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/transfers")
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/:id/complete", h.Complete)
		g.POST("/:id/cancel", h.Cancel)
		g.DELETE("/:id", h.Delete)
	})
}

func auditRoutes(h *handler.AuditHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/audits")
		g.POST("", h.Propose)
		g.GET("", h.List)
		g.GET("/:id", h.Get)
		g.POST("/:id/approve", h.Approve)
		g.POST("/:id/reject", h.Reject)
	})
}

func stockRoutes(h *handler.StockHandler) RouteRegistrar {
	return RegistrarFunc(func(rg *gin.RouterGroup) {
		g := rg.Group("/stock")
		g.GET("/central", h.Central)
		g.GET("/colleges/:id", h.College)
		g.GET("/products/:id", h.Availability)
	})
}
