package router

import (
	"time"

	"facturador/internal/afip"
	"facturador/internal/config"
	"facturador/internal/handler"
	"facturador/internal/infra"
	"facturador/internal/middleware"
	"facturador/internal/repository"
	"facturador/internal/service"
	"facturador/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, wsfe *afip.ClienteWSFE, afipCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	contactoRepo := repository.NewContactoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	comprobanteRepo := repository.NewComprobanteRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	bancoRepo := repository.NewBancoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	contactoSvc := service.NewContactoService(contactoRepo)
	productoSvc := service.NewProductoService(productoRepo)
	bancoSvc := service.NewBancoService(bancoRepo)
	comprobanteSvc := service.NewComprobanteService(
		comprobanteRepo, contactoRepo, productoRepo, bancoRepo, wsfe, afipCB, dispatcher, cfg.AFIPPuntoVenta)
	pagoSvc := service.NewPagoService(pagoRepo, comprobanteRepo, bancoRepo)
	facturacionSvc := service.NewFacturacionService(comprobanteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	contactosH := handler.NewContactosHandler(contactoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	bancosH := handler.NewBancosHandler(bancoSvc)
	comprobantesH := handler.NewComprobantesHandler(comprobanteSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	facturacionH := handler.NewFacturacionHandler(facturacionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, afipCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: operador, supervisor, administrador — declared per-endpoint
		todos := middleware.RequireRole("operador", "supervisor", "administrador")

		v1.POST("/comprobantes", todos, comprobantesH.CrearComprobante)
		v1.GET("/comprobantes", todos, comprobantesH.ListarComprobantes)
		v1.GET("/comprobantes/:id", todos, comprobantesH.ObtenerComprobante)
		v1.DELETE("/comprobantes/:id", middleware.RequireRole("supervisor", "administrador"), comprobantesH.AnularComprobante)

		v1.POST("/comprobantes/:id/pagos", todos, pagosH.RegistrarPago)
		v1.GET("/comprobantes/:id/pagos", todos, pagosH.ListarPagos)

		v1.GET("/contactos", todos, contactosH.ListarContactos)
		v1.GET("/contactos/:id", todos, contactosH.ObtenerContacto)
		v1.POST("/contactos", todos, contactosH.CrearContacto)
		v1.PUT("/contactos/:id", middleware.RequireRole("supervisor", "administrador"), contactosH.ActualizarContacto)
		v1.DELETE("/contactos/:id", middleware.RequireRole("administrador"), contactosH.DesactivarContacto)

		v1.GET("/productos", todos, productosH.ListarProductos)
		v1.GET("/productos/:id", todos, productosH.ObtenerProducto)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.CrearProducto)
			prods.PUT("/:id", productosH.ActualizarProducto)
			prods.DELETE("/:id", productosH.DesactivarProducto)
		}

		// Medios de pago — administrador can write, all authenticated can read
		v1.GET("/bancos", todos, bancosH.ListarBancos)
		v1.GET("/tarjetas", todos, bancosH.ListarTarjetas)
		v1.POST("/bancos", middleware.RequireRole("administrador"), bancosH.CrearBanco)
		v1.POST("/tarjetas", middleware.RequireRole("administrador"), bancosH.CrearTarjeta)

		fact := v1.Group("/facturacion", todos)
		{
			fact.GET("/pdf/:id", facturacionH.DescargarPDF)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
