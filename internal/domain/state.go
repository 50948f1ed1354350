package domain

// State is the whole store: every collection plus the cart. It is the unit
// that is persisted and rehydrated.
type State struct {
	Products          []Product          `json:"products"`
	Orders            []Order            `json:"orders"`
	Users             []User             `json:"users"`
	Returns           []Return           `json:"returns"`
	Notifications     []Notification     `json:"notifications"`
	Cart              []CartLine         `json:"cart"`
	Invoices          []Invoice          `json:"invoices"`
	Deliveries        []Delivery         `json:"deliveries"`
	QualityControls   []QualityControl   `json:"qualityControls"`
	ComplianceRecords []ComplianceRecord `json:"complianceRecords"`
	AuditLogs         []AuditLog         `json:"auditLogs"`
	Documents         []Document         `json:"documents"`
	Messages          []Message          `json:"messages"`
}

// Clone returns a deep copy; mutating the copy never affects the receiver.
func (s State) Clone() State {
	return State{
		Products:          cloneSlice(s.Products, nil),
		Orders:            cloneSlice(s.Orders, func(o *Order) { o.Products = cloneSlice(o.Products, nil) }),
		Users:             cloneSlice(s.Users, func(u *User) { u.Permissions = cloneSlice(u.Permissions, nil) }),
		Returns:           cloneSlice(s.Returns, cloneReturn),
		Notifications:     cloneSlice(s.Notifications, nil),
		Cart:              cloneSlice(s.Cart, nil),
		Invoices:          cloneSlice(s.Invoices, func(i *Invoice) { i.Items = cloneSlice(i.Items, nil) }),
		Deliveries:        cloneSlice(s.Deliveries, nil),
		QualityControls:   cloneSlice(s.QualityControls, func(q *QualityControl) { q.Results = cloneJSONMap(q.Results) }),
		ComplianceRecords: cloneSlice(s.ComplianceRecords, nil),
		AuditLogs:         cloneSlice(s.AuditLogs, func(a *AuditLog) { a.Details = cloneJSONMap(a.Details) }),
		Documents:         cloneSlice(s.Documents, func(d *Document) { d.Tags = cloneSlice(d.Tags, nil) }),
		Messages:          cloneSlice(s.Messages, nil),
	}
}

// Normalize replaces nil collections with empty ones so the encoded blob
// always carries arrays rather than nulls.
func (s *State) Normalize() {
	s.Products = nonNil(s.Products)
	s.Orders = nonNil(s.Orders)
	s.Users = nonNil(s.Users)
	s.Returns = nonNil(s.Returns)
	s.Notifications = nonNil(s.Notifications)
	s.Cart = nonNil(s.Cart)
	s.Invoices = nonNil(s.Invoices)
	s.Deliveries = nonNil(s.Deliveries)
	s.QualityControls = nonNil(s.QualityControls)
	s.ComplianceRecords = nonNil(s.ComplianceRecords)
	s.AuditLogs = nonNil(s.AuditLogs)
	s.Documents = nonNil(s.Documents)
	s.Messages = nonNil(s.Messages)
}

func cloneReturn(r *Return) {
	if r.RefundAmount != nil {
		amount := *r.RefundAmount
		r.RefundAmount = &amount
	}
}

// cloneJSONMap copies a decoded JSON object, including nested objects and arrays
func cloneJSONMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneJSONValue(v)
	}
	return out
}

func cloneJSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneJSONMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneJSONValue(item)
		}
		return out
	default:
		return val
	}
}

func cloneSlice[T any](in []T, deep func(*T)) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	if deep != nil {
		for i := range out {
			deep(&out[i])
		}
	}
	return out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
