package router

import (
	"io/fs"
	"log/slog"
	"net/http"

	"cotizaciones/api"
	"cotizaciones/config"
	_ "cotizaciones/docs"
	"cotizaciones/middleware"
	"cotizaciones/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)
	api.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(slog.Default()))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))

	// 嵌入的静态文件 - 后台管理页面
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(web.StaticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "Error al cargar la página")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	apiGroup := r.Group("/api")
	{
		// 支出
		expenseHandler := api.NewExpenseHandler(cfg.Expenses.GroupConcurrency)
		exportHandler := api.NewExportHandler()
		expenses := apiGroup.Group("/expenses")
		{
			expenses.GET("", expenseHandler.Grouped)
			expenses.POST("", expenseHandler.Create)
			expenses.GET("/paginated", expenseHandler.Paginated)
			expenses.GET("/categories", expenseHandler.Categories)
			expenses.GET("/concepts/:categoryId", expenseHandler.Concepts)
			expenses.GET("/providers", expenseHandler.Providers)
			expenses.GET("/export/excel", exportHandler.ExportExcel)
			expenses.GET("/export/csv", exportHandler.ExportCSV)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.DELETE("/:id", expenseHandler.Delete)
		}

		// 客户
		clientHandler := api.NewClientHandler()
		clients := apiGroup.Group("/clients")
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/check", clientHandler.Check)
			clients.PUT("/:id", clientHandler.Update)
			clients.DELETE("/:id", clientHandler.Delete)
		}

		// 供应商
		providerHandler := api.NewProviderHandler()
		providers := apiGroup.Group("/providers")
		{
			providers.GET("", providerHandler.List)
			providers.POST("", providerHandler.Create)
			providers.GET("/check", providerHandler.Check)
			providers.PUT("/:id", providerHandler.Update)
			providers.DELETE("/:id", providerHandler.Delete)
		}

		// 服务/产品
		serviceProductHandler := api.NewServiceProductHandler()
		servicesProducts := apiGroup.Group("/services-products")
		{
			servicesProducts.GET("", serviceProductHandler.List)
			servicesProducts.POST("", serviceProductHandler.Create)
			servicesProducts.GET("/check", serviceProductHandler.Check)
			servicesProducts.PUT("/:id", serviceProductHandler.Update)
			servicesProducts.DELETE("/:id", serviceProductHandler.Delete)
		}

		// 报价单
		quotationHandler := api.NewQuotationHandler(cfg)
		quotations := apiGroup.Group("/quotations")
		{
			quotations.GET("", quotationHandler.List)
			quotations.POST("", quotationHandler.Create)
			quotations.GET("/:id", quotationHandler.Get)
			quotations.PUT("/:id/estado", quotationHandler.UpdateStatus)
			quotations.GET("/:id/pdf", quotationHandler.PDF)
			quotations.POST("/:id/send",
				middleware.RateLimit(cfg.RateLimit.SendMax, cfg.RateLimit.SendWindow),
				quotationHandler.Send)
		}

		// 新建记录（报价单或支出）
		registroHandler := api.NewRegistroHandler()
		apiGroup.GET("/registros", registroHandler.Bootstrap)
		apiGroup.POST("/registros", registroHandler.Create)
	}

	return r
}
