package models

// IdentityKind is the role a session is authenticated as
type IdentityKind string

const (
	IdentityCustomer    IdentityKind = "customer"
	IdentityDeliveryMan IdentityKind = "delivery_man"
	IdentityAdmin       IdentityKind = "admin"
)

// Valid reports whether k is one of the three known kinds
func (k IdentityKind) Valid() bool {
	switch k {
	case IdentityCustomer, IdentityDeliveryMan, IdentityAdmin:
		return true
	}
	return false
}

// Identity is who the current session is. A session holds exactly one.
type Identity struct {
	Kind      IdentityKind `json:"kind"`
	ID        uint         `json:"id"`
	SessionID string       `json:"session_id"`
}
