package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"moneybot/internal/config"
	"moneybot/internal/handlers"
	"moneybot/internal/ledger"
	"moneybot/internal/middleware"

	_ "moneybot/internal/docs" // Import swagger docs
)

func newRouter(cfg *config.Config, l ledger.Ledger) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	userHandler := handlers.NewUserHandler(l)
	currencyHandler := handlers.NewCurrencyHandler(l)
	accountHandler := handlers.NewAccountHandler(l)
	transactionHandler := handlers.NewTransactionHandler(l)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.PipelineAuthMiddleware(cfg.APIKey))

	v1.GET("/currencies", currencyHandler.ListCurrencies)
	v1.GET("/currencies/search", currencyHandler.SearchCurrency)

	v1.POST("/users", userHandler.RegisterUser)
	v1.GET("/users/by-chat/:chat_id", userHandler.GetUserByChatID)

	users := v1.Group("/users/:user_id")

	users.POST("/accounts", accountHandler.CreateAccount)
	users.GET("/accounts", accountHandler.ListAccounts)
	users.POST("/accounts/search", accountHandler.SearchAccounts)
	users.GET("/accounts/:account_id", accountHandler.GetAccount)
	users.PATCH("/accounts/:account_id", accountHandler.UpdateAccount)
	users.POST("/accounts/:account_id/deactivate", accountHandler.DeactivateAccount)
	users.GET("/balance", accountHandler.GetUserBalance)
	users.GET("/balance/verify", accountHandler.VerifyBalances)

	users.POST("/transactions/topup", transactionHandler.CreateTopup)
	users.POST("/transactions/withdraw", transactionHandler.CreateWithdraw)
	users.POST("/transactions/purchase", transactionHandler.CreatePurchase)
	users.POST("/transactions/transfer", transactionHandler.CreateTransfer)
	users.GET("/transactions", transactionHandler.ListTransactions)
	users.POST("/transactions/search", transactionHandler.SearchTransactions)
	users.GET("/accounts/:account_id/transactions/:transaction_id", transactionHandler.GetTransaction)
	users.DELETE("/accounts/:account_id/transactions/:transaction_id", transactionHandler.DeleteTransaction)

	return router
}
