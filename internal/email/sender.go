package email

import (
	"context"
	"errors"
	"time"
)

// Kind identifica la plantilla de correo a enviar.
type Kind string

const (
	KindLoginCode        Kind = "login-code"
	KindRegistrationCode Kind = "registration-code"
	KindWelcome          Kind = "welcome"
)

// Message es el payload de una notificacion. Code y ExpiresAt no aplican a KindWelcome.
type Message struct {
	Kind      Kind
	To        string
	Name      string
	Code      string
	ExpiresAt time.Time
}

// Sender define la interfaz para envio de correos transaccionales.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) Send(_ context.Context, _ Message) error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
