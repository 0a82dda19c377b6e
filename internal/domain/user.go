package domain

import "time"

// User is the domain model for registered accounts. PasswordHash never
// leaves the service boundary; outward representations are built by the
// DTO layer from the other fields.
type User struct {
	ID                   string
	Name                 string
	Email                string
	WhatsappNumber       *string
	PasswordHash         string
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPendingReset reports whether a reset token pair is outstanding.
// Token and expiry are always both set or both nil.
func (u *User) HasPendingReset() bool {
	return u.PasswordResetToken != nil && u.PasswordResetExpires != nil
}

// ClearResetToken drops the pending reset pair.
func (u *User) ClearResetToken() {
	u.PasswordResetToken = nil
	u.PasswordResetExpires = nil
}
