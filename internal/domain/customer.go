package domain

import (
	"github.com/google/uuid"
	"time"
)

type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string

	CreatedAt time.Time
}
