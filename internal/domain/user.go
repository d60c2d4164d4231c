package domain

import "time"

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FarmSize  float64   `json:"farmSize"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicProfile es la vista del usuario expuesta a clientes.
type PublicProfile struct {
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	FarmSize float64 `json:"farmSize"`
}

func (u User) Profile() PublicProfile {
	return PublicProfile{
		Email:    u.Email,
		Name:     u.Name,
		FarmSize: u.FarmSize,
	}
}
