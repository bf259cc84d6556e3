package response

import (
	"time"

	"visitdesk/internal/usecase/commands"

	"github.com/google/uuid"
)

type Login struct {
	Role string `json:"role"`
}

type Me struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func NewMe(u *commands.UserSnapshot) Me {
	return Me{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role.String(),
		LastLoginAt: u.LastLoginAt,
	}
}

type Message struct {
	Message string `json:"message"`
}
