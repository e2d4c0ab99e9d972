// Package transport defines request and response DTOs for the shops module.
package transport

import "github.com/google/uuid"

// RegisterShopRequest is the payload for registering a new shop together
// with its first admin user.
type RegisterShopRequest struct {
	Name      string  `json:"name" validate:"required,min=2,max=120"`
	Subdomain string  `json:"subdomain" validate:"required,min=2,max=63"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address   *string `json:"address,omitempty" validate:"omitempty,max=255"`

	AdminFirstName string `json:"adminFirstName" validate:"required,min=1,max=80"`
	AdminLastName  string `json:"adminLastName" validate:"required,min=1,max=80"`
	AdminEmail     string `json:"adminEmail" validate:"required,email,max=254"`
	AdminPassword  string `json:"adminPassword" validate:"required,min=8,max=128"`
}

// UpdateShopRequest is the payload for a partial shop profile update.
type UpdateShopRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// ShopResponse is the API representation of a shop.
type ShopResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}
