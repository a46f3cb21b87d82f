package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rental-backend/controllers"
	"rental-backend/middleware"
	"rental-backend/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires middleware and controllers onto the /api groups.
func SetupRouter(
	rc *controllers.RentalController,
	vc *controllers.VehicleController,
	cc *controllers.CustomerController,
	ac *controllers.AuthController,
	uc *controllers.UserController,
	rlc *controllers.RoleController,
	stc *controllers.SettingsController,
	acc *controllers.AccountingController,
	dc *controllers.DashboardController,
	users *services.UserService,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", ac.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth())
	{
		protected.GET("/auth/me", ac.Me)
		protected.POST("/auth/change-password", ac.ChangePassword)

		protected.GET("/dashboard", dc.Summary)

		rentals := protected.Group("/rentals")
		{
			rentals.GET("", rc.Index)
			rentals.POST("", middleware.RequirePermission(users, "rentalManagement.create"), rc.Create)
			rentals.GET("/:id", rc.Show)
			rentals.GET("/:id/history", rc.History)
			rentals.GET("/:id/contract", rc.Contract)
			rentals.POST("/:id/coming-date", middleware.RequirePermission(users, "rentalManagement.edit"), rc.AddComingDate)
			rentals.POST("/:id/extend", middleware.RequirePermission(users, "rentalManagement.edit"), rc.Extend)
			rentals.POST("/:id/pickup", middleware.RequirePermission(users, "rentalManagement.edit"), rc.Pickup)
			rentals.POST("/:id/exchange-vehicle", middleware.RequirePermission(users, "rentalManagement.edit"), rc.ExchangeVehicle)
			rentals.POST("/:id/exchange-deposit", middleware.RequirePermission(users, "rentalManagement.edit"), rc.ExchangeDeposit)
			rentals.POST("/:id/return", middleware.RequirePermission(users, "rentalManagement.return"), rc.Return)
		}

		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vc.Index)
			vehicles.POST("", middleware.RequirePermission(users, "vehicleManagement.create"), vc.Create)
			vehicles.GET("/statuses", vc.Statuses)
			vehicles.POST("/statuses", middleware.RequirePermission(users, "vehicleManagement.editStatus"), vc.CreateStatus)
			vehicles.GET("/makes", vc.Makes)
			vehicles.POST("/makes", middleware.RequirePermission(users, "vehicleManagement.edit"), vc.CreateMake)
			vehicles.GET("/classes", vc.Classes)
			vehicles.POST("/classes", middleware.RequirePermission(users, "vehicleManagement.edit"), vc.CreateClass)
			vehicles.GET("/:id", vc.Show)
			vehicles.PUT("/:id", middleware.RequirePermission(users, "vehicleManagement.edit"), vc.Update)
			vehicles.DELETE("/:id", middleware.RequirePermission(users, "vehicleManagement.delete"), vc.Delete)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", cc.Index)
			customers.POST("", middleware.RequirePermission(users, "customerList.create"), cc.Create)
			customers.GET("/contact-types", cc.ContactTypes)
			customers.GET("/deposit-types", cc.DepositTypes)
			customers.GET("/:id", cc.Show)
			customers.PUT("/:id", middleware.RequirePermission(users, "customerList.edit"), cc.Update)
			customers.DELETE("/:id", middleware.RequirePermission(users, "customerList.delete"), cc.Delete)
			customers.GET("/:id/deposits", cc.Deposits)
			customers.POST("/:id/contacts", middleware.RequirePermission(users, "customerList.edit"), cc.AddContact)
		}
		protected.DELETE("/contacts/:id", middleware.RequirePermission(users, "customerList.edit"), cc.DeactivateContact)

		accounting := protected.Group("/accounting")
		{
			accounting.GET("/sales", acc.Sales)
			accounting.POST("/sales", middleware.RequirePermission(users, "accounting.create"), acc.CreateSale)
			accounting.DELETE("/sales/:id", middleware.RequirePermission(users, "accounting.delete"), acc.DeleteSale)
			accounting.GET("/expenses", acc.Expenses)
			accounting.POST("/expenses", middleware.RequirePermission(users, "accounting.create"), acc.CreateExpense)
			accounting.DELETE("/expenses/:id", middleware.RequirePermission(users, "accounting.delete"), acc.DeleteExpense)
			accounting.GET("/accounts", acc.Accounts)
			accounting.POST("/accounts", middleware.RequirePermission(users, "accounting.create"), acc.CreateAccount)
			accounting.GET("/reports/trial-balance", middleware.RequirePermission(users, "accounting.reports"), acc.TrialBalance)
			accounting.GET("/reports/profit-loss", middleware.RequirePermission(users, "accounting.reports"), acc.ProfitLoss)
			accounting.GET("/reports/balance-sheet", middleware.RequirePermission(users, "accounting.reports"), acc.BalanceSheet)
		}

		usersGroup := protected.Group("/users")
		usersGroup.Use(middleware.RequirePermission(users, "userManagement.view"))
		{
			usersGroup.GET("", uc.Index)
			usersGroup.POST("", middleware.RequirePermission(users, "userManagement.create"), uc.Create)
			usersGroup.DELETE("/:id", middleware.RequirePermission(users, "userManagement.delete"), uc.Delete)
		}

		roles := protected.Group("/roles")
		roles.Use(middleware.RequirePermission(users, "rolesAndPermissions.view"))
		{
			roles.GET("", rlc.Index)
			roles.POST("", middleware.RequirePermission(users, "rolesAndPermissions.create"), rlc.Create)
			roles.DELETE("/:id", middleware.RequirePermission(users, "rolesAndPermissions.delete"), rlc.Delete)
			roles.POST("/:id/members", middleware.RequirePermission(users, "rolesAndPermissions.edit"), rlc.AssignMember)
			roles.PUT("/:id/permissions", middleware.RequirePermission(users, "rolesAndPermissions.edit"), rlc.UpdatePermissions)
		}

		settings := protected.Group("/settings")
		{
			settings.GET("/company", stc.Show)
			settings.PUT("/company", stc.Update)
		}
	}

	return r
}
