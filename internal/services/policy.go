package services

import (
	"time"

	"github.com/aqariapp/aqari-api/internal/models"
)

// EditWindow is how long a non-privileged user can still edit their
// own financial entries after creating them.
const EditWindow = 5 * 24 * time.Hour

// RequiresApproval reports whether an entry with the given adjustments
// must enter the approval queue instead of posting directly. Admins
// and managers self-approve; everyone else needs sign-off as soon as
// an extra charge or discount is involved.
func RequiresApproval(actor *models.User, extraAmount, discountAmount float64) bool {
	if actor.IsPrivileged() {
		return false
	}
	return extraAmount > 0 || discountAmount > 0
}

// CanEditTransaction reports whether the actor may modify or delete
// the entry. Privileged users always can; others only touch entries
// they created themselves, and only while the edit window is open.
func CanEditTransaction(actor *models.User, tx *models.Transaction, now time.Time) bool {
	if actor.IsPrivileged() {
		return true
	}
	if tx.CreatedBy != actor.ID {
		return false
	}
	return now.Sub(tx.CreatedAt) < EditWindow
}

// CanViewAllTransactions reports whether the actor sees every user's
// entries or only their own.
func CanViewAllTransactions(actor *models.User) bool {
	return actor.IsPrivileged()
}

// CanApproveTransactions reports whether the actor can settle pending
// entries.
func CanApproveTransactions(actor *models.User) bool {
	return actor.IsPrivileged()
}
