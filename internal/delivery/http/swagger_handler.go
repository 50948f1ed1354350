package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for PharmaDistrib
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List products
// @Description Catalogue filtered by search text, category, supplier and stock level
// @Tags Products
// @Security UserID
// @Produce json
// @Param search query string false "Name or description contains"
// @Param category query string false "Category or all"
// @Param supplier query string false "Supplier or all"
// @Param stock query string false "low, critical or good"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/products [get]
func (h *Handler) ListProductsDoc() {}

// CreateProduct godoc
// @Summary Create product
// @Description Add a product to the catalogue (supplier or admin)
// @Tags Products
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object true "Product"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *Handler) CreateProductDoc() {}

// UpdateProduct godoc
// @Summary Update product
// @Description Merge the given fields into a product
// @Tags Products
// @Security UserID
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [patch]
func (h *Handler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete product
// @Description Remove a product from the catalogue
// @Tags Products
// @Security UserID
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [delete]
func (h *Handler) DeleteProductDoc() {}

// ProductAlerts godoc
// @Summary Stock alerts
// @Description Low stock, critical stock and soon-expiring products
// @Tags Products
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object{lowStock=array,criticalStock=array,expiring=array}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/products/alerts [get]
func (h *Handler) ProductAlertsDoc() {}

// InventorySummary godoc
// @Summary Inventory summary
// @Description Inventory totals grouped by category and supplier
// @Tags Inventory
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/inventory/summary [get]
func (h *Handler) InventorySummaryDoc() {}

// GetCart godoc
// @Summary Get cart
// @Description Cart lines resolved against the catalogue with the total
// @Tags Cart
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object{items=array,quantity=int,total=number}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/cart [get]
func (h *Handler) GetCartDoc() {}

// AddCartItem godoc
// @Summary Add to cart
// @Description Add units of a product, merging into an existing line
// @Tags Cart
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object{productId=string,quantity=int} true "Cart line"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/cart/items [post]
func (h *Handler) AddCartItemDoc() {}

// UpdateCartItem godoc
// @Summary Set cart quantity
// @Description Set the quantity of a line; zero or less removes it
// @Tags Cart
// @Security UserID
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param request body object{quantity=int} true "Quantity"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/cart/items/{productId} [put]
func (h *Handler) UpdateCartItemDoc() {}

// RemoveCartItem godoc
// @Summary Remove from cart
// @Description Remove a product line from the cart
// @Tags Cart
// @Security UserID
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/cart/items/{productId} [delete]
func (h *Handler) RemoveCartItemDoc() {}

// ClearCart godoc
// @Summary Clear cart
// @Description Empty the cart
// @Tags Cart
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/cart [delete]
func (h *Handler) ClearCartDoc() {}

// Checkout godoc
// @Summary Checkout
// @Description Turn the cart into a pending order for the acting user
// @Tags Cart
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object{notes=string} false "Order notes"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/cart/checkout [post]
func (h *Handler) CheckoutDoc() {}

// ListOrders godoc
// @Summary List orders
// @Description Orders visible to the acting user, optionally filtered by status
// @Tags Orders
// @Security UserID
// @Produce json
// @Param status query string false "Order status or all"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/orders [get]
func (h *Handler) ListOrdersDoc() {}

// CreateOrder godoc
// @Summary Create order
// @Description Record an order as given
// @Tags Orders
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object true "Order"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/orders [post]
func (h *Handler) CreateOrderDoc() {}

// UpdateOrder godoc
// @Summary Update order
// @Description Merge the given fields into an order
// @Tags Orders
// @Security UserID
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body object true "Fields to change"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/orders/{id} [patch]
func (h *Handler) UpdateOrderDoc() {}

// ListReturns godoc
// @Summary List returns
// @Description Return requests; clients only see their own
// @Tags Returns
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/returns [get]
func (h *Handler) ListReturnsDoc() {}

// ListInvoices godoc
// @Summary List invoices
// @Description Invoices; clients only see their own
// @Tags Invoices
// @Security UserID
// @Produce json
// @Param search query string false "Client name or id contains"
// @Param status query string false "Status or all"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/invoices [get]
func (h *Handler) ListInvoicesDoc() {}

// ListDeliveries godoc
// @Summary List deliveries
// @Description Deliveries; clients only see their own
// @Tags Deliveries
// @Security UserID
// @Produce json
// @Param search query string false "Client name or id contains"
// @Param status query string false "Status or all"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/deliveries [get]
func (h *Handler) ListDeliveriesDoc() {}

// ListUsers godoc
// @Summary List users
// @Description Platform accounts filtered by role and status (admin only)
// @Tags Users
// @Security UserID
// @Produce json
// @Param search query string false "Name or email contains"
// @Param role query string false "admin, client or fournisseur"
// @Param status query string false "Account status"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/users [get]
func (h *Handler) ListUsersDoc() {}

// CreateUser godoc
// @Summary Create user
// @Description Create an account with role default permissions (admin only)
// @Tags Users
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object true "User"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/users [post]
func (h *Handler) CreateUserDoc() {}

// ListNotifications godoc
// @Summary List notifications
// @Description Notifications of a user with the unread count
// @Tags Notifications
// @Security UserID
// @Produce json
// @Param userId query string false "Defaults to the acting user"
// @Success 200 {object} object{success=bool,data=object{notifications=array,unread=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/notifications [get]
func (h *Handler) ListNotificationsDoc() {}

// ClearNotifications godoc
// @Summary Clear notifications
// @Description Delete every notification of a user
// @Tags Notifications
// @Security UserID
// @Produce json
// @Param userId query string false "Defaults to the acting user"
// @Success 200 {object} object{success=bool,message=string,data=object{removed=int}}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/notifications [delete]
func (h *Handler) ClearNotificationsDoc() {}

// ListMessages godoc
// @Summary List messages
// @Description Messages sent to or by a user with the unread count
// @Tags Messages
// @Security UserID
// @Produce json
// @Param userId query string false "Defaults to the acting user"
// @Success 200 {object} object{success=bool,data=object{messages=array,unread=int}}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/messages [get]
func (h *Handler) ListMessagesDoc() {}

// SendMessage godoc
// @Summary Send message
// @Description Send a message; the sender defaults to the acting user
// @Tags Messages
// @Security UserID
// @Accept json
// @Produce json
// @Param request body object true "Message"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/messages [post]
func (h *Handler) SendMessageDoc() {}

// ListAuditLogs godoc
// @Summary List audit logs
// @Description Recorded user actions (admin only)
// @Tags Audit
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/audit-logs [get]
func (h *Handler) ListAuditLogsDoc() {}

// ListComplianceRecords godoc
// @Summary List compliance records
// @Description Licences and certifications, optionally only those expiring soon
// @Tags Compliance
// @Security UserID
// @Produce json
// @Param expiringWithin query int false "Days ahead"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/compliance-records [get]
func (h *Handler) ListComplianceRecordsDoc() {}

// OperationsSummary godoc
// @Summary Operations summary
// @Description Per-status counts of deliveries, quality controls, returns and compliance records
// @Tags Operations
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/operations/summary [get]
func (h *Handler) OperationsSummaryDoc() {}

// Dashboard godoc
// @Summary Dashboard
// @Description Dashboard matching the acting user's role
// @Tags Insights
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/dashboard [get]
func (h *Handler) DashboardDoc() {}

// FinanceSummary godoc
// @Summary Finance summary
// @Description Revenue, pending and overdue amounts with month-over-month growth
// @Tags Insights
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/finance/summary [get]
func (h *Handler) FinanceSummaryDoc() {}

// Analytics godoc
// @Summary Analytics
// @Description Platform-wide overview (admin only)
// @Tags Insights
// @Security UserID
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Router /api/analytics [get]
func (h *Handler) AnalyticsDoc() {}

// Search godoc
// @Summary Quick search
// @Description Search products, orders and users
// @Tags Insights
// @Security UserID
// @Produce json
// @Param q query string true "Query, at least two characters"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 401 {object} object{success=bool,error=string}
// @Router /api/search [get]
func (h *Handler) SearchDoc() {}

// Export godoc
// @Summary Export
// @Description Tabular export of products, orders, users, stock-alerts, invoices or deliveries
// @Tags Insights
// @Security UserID
// @Produce json
// @Param entity path string true "Entity to export"
// @Success 200 {object} object{success=bool,data=object{headers=array,rows=array,filename=string}}
// @Failure 401 {object} object{success=bool,error=string}
// @Failure 403 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/export/{entity} [get]
func (h *Handler) ExportDoc() {}
