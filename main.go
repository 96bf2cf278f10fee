package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"

	"cafefresco/internal/config"
	"cafefresco/internal/database"
	"cafefresco/internal/handlers"
	"cafefresco/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureAdminIndexes(db); err != nil {
		log.Printf("admin index warning: %v", err)
	}
	if err := database.EnsureDiscountCodeIndexes(db); err != nil {
		log.Printf("discount code index warning: %v", err)
	}
	if err := database.EnsureReviewIndexes(db); err != nil {
		log.Printf("review index warning: %v", err)
	}
	if err := database.EnsureEmployeeIndexes(db); err != nil {
		log.Printf("employee index warning: %v", err)
	}
	if err := database.EnsureSupplyChainIndexes(db); err != nil {
		log.Printf("supply chain index warning: %v", err)
	}
	if err := database.EnsureUserInterestIndexes(db); err != nil {
		log.Printf("user interest index warning: %v", err)
	}

	stripe.Key = config.AppEnv.StripeSecretKey

	mailer := handlers.NewMailer(config.AppEnv)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppEnv.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Static("/images", "./public/images")

	r.GET("/", func(c *gin.Context) {
		c.String(200, "Server is running")
	})

	secret := config.AppEnv.JWTSecret
	userAuth := middleware.UserAuth(secret)
	adminAuth := middleware.AdminAuth(secret)
	vpnDetect := middleware.VPNDetect(config.AppEnv)
	loginLimit := middleware.LoginRateLimit()

	user := r.Group("/user")
	{
		user.POST("/register", vpnDetect, handlers.RegisterUser(db, config.AppEnv))
		user.POST("/login", loginLimit, vpnDetect, handlers.LoginUser(db, config.AppEnv))
		user.POST("/logout", handlers.LogoutUser())
		user.PUT("/update-profile", userAuth, handlers.UpdateProfile(db))
		user.POST("/upload-image", userAuth, handlers.UploadUserImage(db))
		user.POST("/forgot-password", handlers.ForgotPassword(db, mailer, config.AppEnv, "users", "user"))
		user.POST("/reset-password/:token", handlers.ResetPassword(db, "users"))
		user.GET("/all", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.GetAllUsers(db))
		user.GET("/search", handlers.SearchUsers(db))
		user.POST("/contact", handlers.Contact(mailer, config.AppEnv))
	}

	admin := r.Group("/admin")
	{
		admin.POST("/register", handlers.RegisterAdmin(db, config.AppEnv))
		admin.POST("/login", loginLimit, handlers.LoginAdmin(db, config.AppEnv))
		admin.GET("/logout", handlers.LogoutAdmin())
		admin.POST("/create-permission", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.CreatePermission(db))
		admin.POST("/update-permission", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.UpdatePermission(db))
		admin.DELETE("/delete-permission", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.DeletePermission(db))
		admin.GET("/all", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.GetAllAdmins(db))
		admin.DELETE("/delete/:id", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.DeleteAdmin(db))
		admin.POST("/forgot-password", handlers.ForgotPassword(db, mailer, config.AppEnv, "admins", "admin"))
		admin.POST("/reset-password/:token", handlers.ResetPassword(db, "admins"))
		admin.GET("/notify", handlers.GetNotifications(db))
		admin.POST("/mark-seen", handlers.MarkNotificationsSeen(db))
	}

	category := r.Group("/category")
	{
		category.POST("/add", adminAuth, middleware.AuthorizeRoles(db, "editor", "manager", "admin"), handlers.CreateCategory(db))
		category.PUT("/update/:id", adminAuth, middleware.AuthorizeRoles(db, "editor", "manager", "admin"), handlers.UpdateCategory(db))
		category.DELETE("/delete/:id", adminAuth, middleware.AuthorizeRoles(db, "manager", "admin"), handlers.DeleteCategory(db))
		category.GET("/fetch", handlers.GetCategories(db))
		category.GET("/:id", handlers.GetCategory(db))
	}

	product := r.Group("/product")
	{
		product.POST("/add", adminAuth, middleware.AuthorizeRoles(db, "editor", "manager", "admin"), handlers.CreateProduct(db))
		product.PUT("/update/:id", adminAuth, middleware.AuthorizeRoles(db, "editor", "manager", "admin"), handlers.UpdateProduct(db))
		product.DELETE("/delete/:id", adminAuth, middleware.AuthorizeRoles(db, "manager", "admin"), handlers.DeleteProduct(db))
		product.GET("/all", handlers.GetAllProducts(db))
		product.GET("/new-releases", handlers.GetNewReleases(db))
		product.GET("/featured", handlers.GetFeaturedProducts(db))
		product.GET("/fetch", handlers.FetchProducts(db))
		product.GET("/:id", handlers.GetProduct(db))
		product.POST("/inventory/update/:id", adminAuth, middleware.AuthorizeRoles(db, "editor", "manager", "admin"), handlers.UpdateInventory(db))
	}

	review := r.Group("/review")
	{
		review.POST("/add/:productId", userAuth, handlers.AddReview(db))
		review.GET("/all/:productId", handlers.GetProductReviews(db))
	}

	cart := r.Group("/cart")
	cart.Use(userAuth)
	{
		cart.POST("/add", handlers.AddToCart(db))
		cart.GET("/all", handlers.GetCart(db))
		cart.DELETE("/remove/:productId", handlers.RemoveFromCart(db))
		cart.PUT("/update", handlers.UpdateCartQuantity(db))
	}

	wishlist := r.Group("/wishlist")
	wishlist.Use(userAuth)
	{
		wishlist.POST("/add/:productId", handlers.AddToWishlist(db))
		wishlist.GET("/all", handlers.GetWishlist(db))
		wishlist.DELETE("/remove/:productId", handlers.RemoveFromWishlist(db))
	}

	payment := r.Group("/stripe")
	payment.Use(userAuth)
	{
		payment.POST("/payment-intent", handlers.CreatePaymentIntent())
		payment.POST("/payment/create", handlers.CreatePayment(db))
	}

	order := r.Group("/order")
	{
		order.POST("/create", userAuth, handlers.CreateOrder(db))
		order.POST("/update-status", adminAuth, middleware.AuthorizeRoles(db, "admin", "manager"), handlers.UpdateOrderStatus(db))
		order.GET("/fetch", adminAuth, middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.FetchOrders(db))
		order.GET("/history/:userId", handlers.OrderHistory(db))
		order.GET("/stats", handlers.OrderStats(db))
		order.POST("/set-transaction/:orderId", userAuth, handlers.SetTransaction(db))
	}

	interest := r.Group("/user-Interest")
	{
		interest.GET("/search", handlers.SearchProducts(db))
		interest.POST("/view-product", handlers.ViewProduct(db))
		interest.GET("/recommend/:userId", handlers.Recommend(db))
	}

	api := r.Group("/api")
	api.Use(adminAuth, middleware.AuthorizeRoles(db, "admin"))
	{
		api.GET("/earning", handlers.Earnings(db))
		api.GET("/dashboard", handlers.Dashboard(db))
		api.GET("/yearly-report", handlers.YearlyReport(db))
		api.GET("/daily-report", handlers.DailyReport(db))
	}

	discount := r.Group("/discount")
	{
		discount.POST("/create", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.CreateDiscountCode(db))
		discount.PUT("/update/:id", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.UpdateDiscountCode(db))
		discount.POST("/apply", userAuth, handlers.ApplyDiscountCode(db))
		discount.DELETE("/delete/:id", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.DeleteDiscountCode(db))
		discount.GET("/fetch", adminAuth, middleware.AuthorizeRoles(db, "admin"), handlers.GetDiscountCodes(db))
	}

	employee := r.Group("/employee")
	employee.Use(adminAuth)
	{
		employee.POST("/register", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.RegisterEmployee(db))
		employee.POST("/update/:id", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.UpdateEmployee(db))
		employee.DELETE("/delete/:id", middleware.AuthorizeRoles(db, "admin"), handlers.DeleteEmployee(db))
		employee.GET("/fetch", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.FetchEmployees(db))
	}

	department := r.Group("/department")
	department.Use(adminAuth)
	{
		department.POST("/add", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.AddDepartment(db))
		department.PUT("/update/:id", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.UpdateDepartment(db))
		department.DELETE("/delete/:id", middleware.AuthorizeRoles(db, "admin", "manager"), handlers.DeleteDepartment(db))
		department.GET("/fetch", middleware.AuthorizeRoles(db, "admin", "editor", "manager"), handlers.FetchDepartments(db))
	}

	supplier := r.Group("/supplier")
	supplier.Use(adminAuth, middleware.AuthorizeRoles(db, "admin", "editor", "manager"))
	{
		supplier.POST("/create", handlers.CreateSupplier(db))
		supplier.PUT("/update/:id", handlers.UpdateSupplier(db))
		supplier.DELETE("/delete/:id", handlers.DeleteSupplier(db))
		supplier.GET("/", handlers.FetchSuppliers(db))
	}

	distributor := r.Group("/distributer")
	distributor.Use(adminAuth, middleware.AuthorizeRoles(db, "admin", "editor", "manager"))
	{
		distributor.POST("/create", handlers.CreateDistributor(db))
		distributor.PUT("/update/:id", handlers.UpdateDistributor(db))
		distributor.DELETE("/delete/:id", handlers.DeleteDistributor(db))
		distributor.GET("/", handlers.FetchDistributors(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
