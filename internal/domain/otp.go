package domain

import "time"

// LoginOTP es un codigo emitido para iniciar sesion. Nunca se borra; solo cambia Used.
type LoginOTP struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// RegistrationOTP guarda el perfil candidato junto al codigo hasta que se verifica.
type RegistrationOTP struct {
	ID        int64
	Email     string
	Name      string
	FarmSize  float64
	Code      string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
