package router

import (
	"time"

	"sevensystem/internal/config"
	"sevensystem/internal/handler"
	"sevensystem/internal/infra"
	"sevensystem/internal/middleware"
	"sevensystem/internal/repository"
	"sevensystem/internal/service"
	"sevensystem/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← registry DB / tenant stores.
// rdb may be nil: low-stock alerts are then not published.
func New(cfg *config.Config, registry *gorm.DB, tenants *infra.TenantManager, rdb *redis.Client, alertasCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Worker dispatcher ────────────────────────────────────────────────────
	var dispatcher *worker.Dispatcher
	if rdb != nil {
		dispatcher = worker.NewDispatcher(rdb, alertasCB)
	}

	// ── Registry ─────────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(registry)
	authSvc := service.NewAuthService(usuarioRepo, tenants, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutosHandler(middleware.GetTenant)
	vendasH := handler.NewVendasHandler(middleware.GetTenant)
	estoqueH := handler.NewEstoqueHandler(middleware.GetTenant)
	cadastrosH := handler.NewCadastrosHandler(middleware.GetTenant)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(registry, rdb, alertasCB))

	auth := r.Group("/v1/auth", middleware.LoginRateLimiter())
	{
		auth.POST("/registrar", authH.Registrar)
		auth.POST("/login", authH.Login)
	}

	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	// Account routes read the registry only
	conta := r.Group("/v1/conta", jwtMW)
	{
		conta.GET("", authH.Conta)
		conta.PUT("/empresa", authH.AtualizarEmpresa)
		conta.PUT("/senha", authH.AlterarSenha)
	}

	// Tenant routes: every request is bound to the store named in the token
	v1 := r.Group("/v1", jwtMW, middleware.TenantResolver(tenants, dispatcher, cfg.TxTimeout()))
	{
		v1.POST("/funcionarios", cadastrosH.CriarFuncionario)
		v1.GET("/funcionarios", cadastrosH.ListarFuncionarios)
		v1.POST("/fornecedores", cadastrosH.CriarFornecedor)
		v1.GET("/fornecedores", cadastrosH.ListarFornecedores)
		v1.POST("/clientes", cadastrosH.CriarCliente)
		v1.GET("/clientes", cadastrosH.ListarClientes)

		prods := v1.Group("/produtos")
		{
			prods.POST("", produtosH.Criar)
			prods.GET("", produtosH.Listar)
			prods.GET("/:id", produtosH.ObterPorID)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.POST("/:id/ajuste", produtosH.Ajustar)
		}

		vendas := v1.Group("/vendas")
		{
			vendas.POST("", vendasH.Criar)
			vendas.GET("", vendasH.Listar)
			vendas.GET("/:id", vendasH.ObterPorID)
			vendas.PATCH("/:id/status", vendasH.AlterarStatus)
			vendas.POST("/:id/itens", vendasH.AdicionarItem)
		}

		est := v1.Group("/estoque")
		{
			est.GET("/movimentacoes", estoqueH.ListarMovimentacoes)
			est.POST("/movimentacoes", estoqueH.RegistrarMovimentacao)
			est.PUT("/movimentacoes/:id", estoqueH.AtualizarMovimentacao)
			est.GET("/produtos", estoqueH.Produtos)
			est.GET("/funcionarios", estoqueH.Funcionarios)
			est.GET("/alertas", estoqueH.Alertas)
			est.GET("/produtos/:id/conciliacao", estoqueH.Conciliacao)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
