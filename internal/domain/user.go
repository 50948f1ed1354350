package domain

// Role is the account type that drives route gating
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleClient   Role = "client"
	RoleSupplier Role = "fournisseur"
)

// UserStatus is the account state
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// User is a platform account. Clients carry a PharmacyName, suppliers a CompanyName.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	LastLogin    string     `json:"lastLogin"`
	Permissions  []string   `json:"permissions"`
	PharmacyName string     `json:"pharmacyName,omitempty"`
	CompanyName  string     `json:"companyName,omitempty"`
	Address      string     `json:"address,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	CreatedAt    string     `json:"createdAt"`
}

// DisplayName is the name shown on orders placed by this user
func (u User) DisplayName() string {
	if u.PharmacyName != "" {
		return u.PharmacyName
	}
	return u.Name
}

// FindUser returns the user with the given id
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
