package users

import (
	"github.com/google/uuid"

	"github.com/storefrontlabs/storefront-api/pkg/db/models"
)

// UserDTO is the public representation of an account.
type UserDTO struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsStaff  bool      `json:"is_staff"`
}

// ToDTO maps the persistence model to its API shape.
func ToDTO(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:       user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}
}
