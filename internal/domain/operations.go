package domain

// ReturnStatus tracks a return request
type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "pending"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnProcessed ReturnStatus = "processed"
)

// Return is a client request to send goods back
type Return struct {
	ID            string       `json:"id"`
	OrderID       string       `json:"orderId"`
	ProductID     string       `json:"productId"`
	ProductName   string       `json:"productName"`
	Quantity      int          `json:"quantity"`
	Reason        string       `json:"reason"`
	Status        ReturnStatus `json:"status"`
	RequestDate   string       `json:"requestDate"`
	ProcessedDate string       `json:"processedDate,omitempty"`
	RefundAmount  *float64     `json:"refundAmount,omitempty"`
}

// InvoiceStatus tracks billing
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is one billed line
type InvoiceItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Total       float64 `json:"total"`
}

// Invoice bills an order. Total is stored as given; amount+tax is not checked.
type Invoice struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"orderId"`
	ClientID    string        `json:"clientId"`
	ClientName  string        `json:"clientName"`
	Amount      float64       `json:"amount"`
	Tax         float64       `json:"tax"`
	Total       float64       `json:"total"`
	Status      InvoiceStatus `json:"status"`
	IssueDate   string        `json:"issueDate"`
	DueDate     string        `json:"dueDate"`
	PaymentDate string        `json:"paymentDate,omitempty"`
	Items       []InvoiceItem `json:"items"`
}

// DeliveryStatus tracks shipment progress
type DeliveryStatus string

const (
	DeliveryScheduled DeliveryStatus = "scheduled"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

// Delivery is the shipment of an order
type Delivery struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"orderId"`
	ClientID       string         `json:"clientId"`
	ClientName     string         `json:"clientName"`
	Address        string         `json:"address"`
	Status         DeliveryStatus `json:"status"`
	ScheduledDate  string         `json:"scheduledDate"`
	DeliveredDate  string         `json:"deliveredDate,omitempty"`
	DriverID       string         `json:"driverId,omitempty"`
	DriverName     string         `json:"driverName,omitempty"`
	TrackingNumber string         `json:"trackingNumber"`
	Notes          string         `json:"notes,omitempty"`
}
