package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Payroll Category Engine API
// @version         1.0
// @description     Salary category, rule and bracket management with payroll evaluation.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// The overtime category is a well-known row configured per deployment.
	// Approval runs refuse to start without it.
	overtimeCategoryID := uuid.Nil
	if raw := os.Getenv("OVERTIME_CATEGORY_ID"); raw != "" {
		parsed, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			log.Fatalf("Invalid OVERTIME_CATEGORY_ID: %v", parseErr)
		}
		overtimeCategoryID = parsed
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	rangeRepo := repository.NewRangeRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	overtimeRepo := repository.NewOvertimeRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo)
	categoryService := service.NewCategoryService(categoryRepo, ruleRepo, auditRepo)
	rangeService := service.NewRangeService(rangeRepo, ruleRepo, auditRepo)
	ruleService := service.NewRuleService(ruleRepo, categoryRepo, rangeRepo, auditRepo)
	payrollService := service.NewPayrollService(employeeRepo, categoryRepo, ruleRepo, rangeRepo, assignmentRepo, auditRepo, txManager, wsHub)
	overtimeService := service.NewOvertimeService(employeeRepo, categoryRepo, overtimeRepo, assignmentRepo, auditRepo, txManager, overtimeCategoryID)
	assetService := service.NewAssetService(assetRepo, employeeRepo, auditRepo, txManager)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	rangeHandler := handler.NewRangeHandler(rangeService)
	ruleHandler := handler.NewRuleHandler(ruleService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	overtimeHandler := handler.NewOvertimeHandler(overtimeService)
	assetHandler := handler.NewAssetHandler(assetService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	employeeHandler.RegisterRoutes(router.Group(""))
	categoryHandler.RegisterRoutes(router.Group(""))
	rangeHandler.RegisterRoutes(router.Group(""))
	ruleHandler.RegisterRoutes(router.Group(""))
	payrollHandler.RegisterRoutes(router.Group(""))
	overtimeHandler.RegisterRoutes(router.Group(""))
	assetHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
