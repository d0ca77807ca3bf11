package auth

import (
	"crypto/subtle"

	"github.com/budgetgate/budgetgate/internal/model"
)

// Gate admits exactly one allow-listed identity.
type Gate struct {
	allowedEmail string
}

// NewGate creates a Gate for the allow-listed email in cred.
func NewGate(cred model.Credential) *Gate {
	return &Gate{allowedEmail: cred.AllowedEmail}
}

// Admit returns true iff identity.Email exactly equals the allowed email.
// A nil identity, an empty email or an unset allow-list is a denial.
func (g *Gate) Admit(identity *model.Identity) bool {
	if g == nil || g.allowedEmail == "" || identity == nil || identity.Email == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(identity.Email), []byte(g.allowedEmail)) == 1
}
