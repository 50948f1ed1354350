package domain

// Seed returns the initial dataset used when no snapshot has been persisted
// yet, or when the persisted one could not be decoded.
func Seed() State {
	s := State{
		Products: []Product{
			{
				ID:          "1",
				Name:        "Paracétamol 500mg",
				Category:    "Antalgiques",
				Price:       3.5,
				Stock:       150,
				MinStock:    50,
				MaxStock:    300,
				Description: "Antalgique et antipyrétique",
				Supplier:    "PharmaLab",
				ExpiryDate:  "2025-12-31",
				BatchNumber: "PAR2024001",
			},
			{
				ID:          "2",
				Name:        "Ibuprofène 400mg",
				Category:    "Anti-inflammatoires",
				Price:       4.2,
				Stock:       25,
				MinStock:    50,
				MaxStock:    200,
				Description: "Anti-inflammatoire non stéroïdien",
				Supplier:    "MediSupply",
				ExpiryDate:  "2025-08-15",
				BatchNumber: "IBU2024002",
			},
			{
				ID:          "3",
				Name:        "Amoxicilline 1g",
				Category:    "Antibiotiques",
				Price:       8.9,
				Stock:       180,
				MinStock:    30,
				MaxStock:    250,
				Description: "Antibiotique à large spectre",
				Supplier:    "BioPharm",
				ExpiryDate:  "2025-06-30",
				BatchNumber: "AMO2024003",
			},
		},
		Orders: []Order{
			{
				ID:         "ORD-2024-001",
				ClientID:   "1",
				ClientName: "Pharmacie du Centre",
				Products: []OrderLine{
					{ProductID: "1", ProductName: "Paracétamol 500mg", Quantity: 50, Price: 3.5},
				},
				Total:        175.0,
				Status:       OrderConfirmed,
				OrderDate:    "2024-01-15T10:30:00Z",
				DeliveryDate: "2024-01-16T14:00:00Z",
			},
		},
		Users: []User{
			{
				ID:           "1",
				Name:         "Dr. Martin Dubois",
				Email:        "martin.dubois@pharmacie-centre.fr",
				Role:         RoleClient,
				Status:       UserActive,
				LastLogin:    "2024-01-15T14:30:00Z",
				Permissions:  []string{"orders", "invoices", "stock"},
				PharmacyName: "Pharmacie du Centre",
				Address:      "123 Rue de la Paix, 75001 Paris",
				Phone:        "+33 1 23 45 67 89",
				CreatedAt:    "2023-01-15T10:00:00Z",
			},
			{
				ID:          "2",
				Name:        "Administrateur Système",
				Email:       "admin@pharmadistrib.fr",
				Role:        RoleAdmin,
				Status:      UserActive,
				LastLogin:   "2024-01-15T16:45:00Z",
				Permissions: DefaultPermissions(RoleAdmin),
				CreatedAt:   "2024-01-01T00:00:00Z",
			},
			{
				ID:          "3",
				Name:        "Jean Dupont",
				Email:       "jean.dupont@pharmalab.fr",
				Role:        RoleSupplier,
				Status:      UserActive,
				LastLogin:   "2024-01-15T09:15:00Z",
				Permissions: DefaultPermissions(RoleSupplier),
				CompanyName: "PharmaLab",
				CreatedAt:   "2024-01-01T00:00:00Z",
			},
			{
				ID:           "4",
				Name:         "Sophie Laurent",
				Email:        "sophie.laurent@pharmacie-lilas.fr",
				Role:         RoleClient,
				Status:       UserInactive,
				Permissions:  []string{"catalog:read", "orders:create", "orders:read"},
				PharmacyName: "Pharmacie des Lilas",
				CreatedAt:    "2024-01-10T00:00:00Z",
			},
		},
		Invoices: []Invoice{
			{
				ID:          "INV-2024-001",
				OrderID:     "ORD-2024-001",
				ClientID:    "1",
				ClientName:  "Pharmacie du Centre",
				Amount:      175.0,
				Tax:         35.0,
				Total:       210.0,
				Status:      InvoicePaid,
				IssueDate:   "2024-01-15T10:30:00Z",
				DueDate:     "2024-02-15T10:30:00Z",
				PaymentDate: "2024-01-20T14:00:00Z",
				Items: []InvoiceItem{
					{ProductID: "1", ProductName: "Paracétamol 500mg", Quantity: 50, UnitPrice: 3.5, Total: 175.0},
				},
			},
		},
		Deliveries: []Delivery{
			{
				ID:             "DEL-2024-001",
				OrderID:        "ORD-2024-001",
				ClientID:       "1",
				ClientName:     "Pharmacie du Centre",
				Address:        "123 Rue de la Paix, 75001 Paris",
				Status:         DeliveryDelivered,
				ScheduledDate:  "2024-01-16T09:00:00Z",
				DeliveredDate:  "2024-01-16T14:30:00Z",
				DriverID:       "driver1",
				DriverName:     "Pierre Martin",
				TrackingNumber: "TRK123456789",
			},
		},
	}
	s.Normalize()
	return s
}
