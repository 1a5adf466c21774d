package domain

type Shop struct {
	ID               string  `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	OwnerName        string  `db:"owner_name" json:"owner_name"`
	Email            string  `db:"email" json:"email"`
	Phone            string  `db:"phone" json:"phone"`
	PasswordHash     string  `db:"password_hash" json:"-"`
	Address          string  `db:"address" json:"address"`
	City             string  `db:"city" json:"city"`
	District         string  `db:"district" json:"district"`
	RegisteredAt     string  `db:"registered_at" json:"registered_at"`
	LastLoginAt      *string `db:"last_login_at" json:"last_login_at,omitempty"`
	IsActive         bool    `db:"is_active" json:"is_active"`
	SubscriptionTier string  `db:"subscription_tier" json:"subscription_tier"`
}
