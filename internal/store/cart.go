package store

import (
	"github.com/tair/pharmadistrib/internal/domain"
	"github.com/tair/pharmadistrib/internal/views"
)

const cartCollection = "cart"

// AddToCart adds Quantity units of ProductID, merging into an existing line.
// Stock is not checked.
type AddToCart struct {
	ProductID string
	Quantity  int
}

func (c *AddToCart) Name() string { return "add_to_cart" }

func (c *AddToCart) Apply(tx *Tx) error {
	if c.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	for i := range tx.State.Cart {
		if tx.State.Cart[i].ProductID == c.ProductID {
			tx.State.Cart[i].Quantity += c.Quantity
			tx.Emit("cart.updated", cartCollection, c.ProductID)
			return nil
		}
	}
	tx.State.Cart = append(tx.State.Cart, domain.CartLine{ProductID: c.ProductID, Quantity: c.Quantity})
	tx.Emit("cart.updated", cartCollection, c.ProductID)
	return nil
}

// RemoveFromCart drops the line for ProductID
type RemoveFromCart struct {
	ProductID string
}

func (c *RemoveFromCart) Name() string { return "remove_from_cart" }

func (c *RemoveFromCart) Apply(tx *Tx) error {
	kept := make([]domain.CartLine, 0, len(tx.State.Cart))
	for _, line := range tx.State.Cart {
		if line.ProductID != c.ProductID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(tx.State.Cart) {
		return nil
	}
	tx.State.Cart = kept
	tx.Emit("cart.updated", cartCollection, c.ProductID)
	return nil
}

// UpdateCartQuantity replaces the quantity of an existing line. A quantity
// of zero or less removes the line.
type UpdateCartQuantity struct {
	ProductID string
	Quantity  int
}

func (c *UpdateCartQuantity) Name() string { return "update_cart_quantity" }

func (c *UpdateCartQuantity) Apply(tx *Tx) error {
	if c.Quantity <= 0 {
		return (&RemoveFromCart{ProductID: c.ProductID}).Apply(tx)
	}
	for i := range tx.State.Cart {
		if tx.State.Cart[i].ProductID == c.ProductID {
			tx.State.Cart[i].Quantity = c.Quantity
			tx.Emit("cart.updated", cartCollection, c.ProductID)
			return nil
		}
	}
	return nil
}

// ClearCart empties the cart
type ClearCart struct{}

func (c *ClearCart) Name() string { return "clear_cart" }

func (c *ClearCart) Apply(tx *Tx) error {
	if len(tx.State.Cart) == 0 {
		return nil
	}
	tx.State.Cart = []domain.CartLine{}
	tx.Emit("cart.cleared", cartCollection, "")
	return nil
}

// Checkout turns the cart into a pending order placed by UserID and empties
// the cart, as a single change. Lines whose product no longer exists keep
// an empty name and a zero price.
type Checkout struct {
	UserID string
	Notes  string
	Order  domain.Order
}

func (c *Checkout) Name() string { return "checkout" }

func (c *Checkout) Apply(tx *Tx) error {
	if len(tx.State.Cart) == 0 {
		return ErrEmptyCart
	}
	user, ok := domain.FindUser(tx.State.Users, c.UserID)
	if !ok {
		return ErrUserNotFound
	}

	lines := make([]domain.OrderLine, 0, len(tx.State.Cart))
	for _, item := range tx.State.Cart {
		line := domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if p, found := domain.FindProduct(tx.State.Products, item.ProductID); found {
			line.ProductName = p.Name
			line.Price = p.Price
		}
		lines = append(lines, line)
	}

	order := domain.Order{
		ID:         tx.NewID(ordersC.prefix),
		ClientID:   user.ID,
		ClientName: user.DisplayName(),
		Products:   lines,
		Total:      views.CartTotal(tx.State.Cart, tx.State.Products),
		Status:     domain.OrderPending,
		OrderDate:  domain.FormatTimestamp(tx.Now()),
		Notes:      c.Notes,
	}
	tx.State.Orders = append(tx.State.Orders, order)
	tx.State.Cart = []domain.CartLine{}
	c.Order = order

	tx.Emit("order.created", ordersC.name, order.ID)
	tx.Emit("cart.checked_out", cartCollection, order.ID)
	return nil
}

// ReplaceState swaps in a complete state, for snapshot imports
type ReplaceState struct {
	State domain.State
}

func (c *ReplaceState) Name() string { return "replace_state" }

func (c *ReplaceState) Apply(tx *Tx) error {
	tx.State = c.State.Clone()
	tx.State.Normalize()
	tx.Emit("state.replaced", "", "")
	return nil
}
