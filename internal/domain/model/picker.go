package model

import "time"

// Relationship is the kinship label of a picker towards the child.
type Relationship string

const (
	RelationshipFather      Relationship = "father"
	RelationshipMother      Relationship = "mother"
	RelationshipGrandfather Relationship = "grandfather"
	RelationshipGrandmother Relationship = "grandmother"
	RelationshipUncle       Relationship = "uncle"
	RelationshipAunt        Relationship = "aunt"
	RelationshipBrother     Relationship = "brother"
	RelationshipSister      Relationship = "sister"
	RelationshipOther       Relationship = "other"
)

// Relationships lists accepted kinship labels.
var Relationships = []Relationship{
	RelationshipFather, RelationshipMother,
	RelationshipGrandfather, RelationshipGrandmother,
	RelationshipUncle, RelationshipAunt,
	RelationshipBrother, RelationshipSister,
	RelationshipOther,
}

// Valid reports whether r is a known kinship label.
func (r Relationship) Valid() bool {
	for _, known := range Relationships {
		if r == known {
			return true
		}
	}
	return false
}

// PickerInfo is supplied by the guardian when creating an order.
type PickerInfo struct {
	Name         string
	Cedula       string
	Phone        string
	Relationship Relationship
}

// PickerCredential is the one-time login material bound to a single order.
type PickerCredential struct {
	ID            string
	OrderID       string
	Name          string
	Cedula        string
	Phone         string
	Relationship  Relationship
	CodeHash      string
	CodeCipher    string
	CodeExpiresAt time.Time
	IsActive      bool
	CreatedAt     time.Time
}

// Expired reports whether the code is past its expiry at now. The expiry instant itself is still valid.
func (c *PickerCredential) Expired(now time.Time) bool {
	return now.After(c.CodeExpiresAt)
}

// PickerAssertion is the identity issued to an authenticated picker.
type PickerAssertion struct {
	Token        string
	CredentialID string
	OrderID      string
	Role         Role
	Temporary    bool
	ExpiresAt    time.Time
}
