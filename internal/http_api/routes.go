package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	v1 := s.router.Group("/api/v1")

	// Public
	v1.POST("/auth/register", s.register)
	v1.POST("/auth/login", s.login)
	v1.GET("/plans", s.listPlans)
	v1.POST("/registrations", s.createRegistration)
	v1.POST("/contact", s.createContactMessage)

	authed := v1.Group("", s.authMiddleware())

	// Users
	authed.GET("/users/me", s.currentUser)
	authed.GET("/users", s.adminOnly(), s.listUsers)
	authed.PATCH("/users/:id", s.adminOnly(), s.updateUser)
	authed.DELETE("/users/:id", s.adminOnly(), s.deleteUser)

	// Plans (admin writes)
	authed.POST("/plans", s.adminOnly(), s.createPlan)
	authed.PUT("/plans/:id", s.adminOnly(), s.updatePlan)

	// Contracts
	authed.POST("/contracts", s.createContract)
	authed.GET("/contracts", s.adminOnly(), s.listContracts)
	authed.GET("/contracts/me", s.currentContract)
	authed.PUT("/contracts/:id/status", s.adminOnly(), s.updateContractStatus)

	// Invoices
	authed.POST("/invoices", s.adminOnly(), s.createInvoice)
	authed.GET("/invoices", s.adminOnly(), s.listInvoices)
	authed.GET("/invoices/:id", s.getInvoice)
	authed.PUT("/invoices/:id", s.updateInvoice)
	authed.GET("/customers/:id/invoices", s.listCustomerInvoices)

	// Payments
	authed.POST("/invoices/:id/payments", s.reportPayment)
	authed.GET("/invoices/:id/payments", s.listInvoicePayments)
	authed.PATCH("/payments/:id", s.adminOnly(), s.verifyPayment)

	// Registrations (admin review)
	authed.GET("/registrations", s.adminOnly(), s.listRegistrations)
	authed.PUT("/registrations/:id", s.adminOnly(), s.updateRegistration)

	// Contact messages
	authed.GET("/contact", s.adminOnly(), s.listContactMessages)

	// Operations
	authed.POST("/sweep", s.adminOnly(), s.runSweep)
}
