package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const brandName = "AgroAnalytics"

var codeTemplate = template.Must(template.New("code").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #10b981; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">{{.Brand}}</h1>
  </div>
  <div style="padding: 30px; background: #f9fafb;">
    <h2 style="color: #1f2937;">{{.Heading}}</h2>
    <p style="color: #6b7280;">{{.Intro}}</p>
    <div style="background: white; border: 2px solid #10b981; border-radius: 8px; padding: 20px; text-align: center;">
      <h1 style="color: #10b981; font-size: 32px; letter-spacing: 5px; margin: 0; font-family: monospace;">{{.Code}}</h1>
    </div>
    <p style="color: #6b7280; font-size: 14px;">This code expires in {{.Minutes}} minutes. If you did not request it, please ignore this email.</p>
  </div>
</div>
`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #10b981; padding: 20px; text-align: center;">
    <h1 style="color: white; margin: 0;">Welcome to {{.Brand}}!</h1>
  </div>
  <div style="padding: 30px; background: #f9fafb;">
    <h2 style="color: #1f2937;">Hello {{.Name}}!</h2>
    <p style="color: #6b7280;">You now have access to real-time weather monitoring, soil health analytics, crop performance tracking and market trend analysis.</p>
    <p style="color: #6b7280;">Start exploring your dashboard to make data-driven decisions for your farm.</p>
  </div>
</div>
`))

// subjectFor devuelve el asunto para cada tipo de mensaje.
func subjectFor(kind Kind) (string, error) {
	switch kind {
	case KindLoginCode:
		return "Your OTP for " + brandName + " Login", nil
	case KindRegistrationCode:
		return "Verify Your Email - " + brandName + " Account", nil
	case KindWelcome:
		return "Welcome to " + brandName + "!", nil
	default:
		return "", fmt.Errorf("unknown email kind %q", kind)
	}
}

// renderBody genera el HTML del mensaje.
func renderBody(msg Message, now time.Time) (string, error) {
	var buf bytes.Buffer
	switch msg.Kind {
	case KindLoginCode, KindRegistrationCode:
		heading := "Your One-Time Password"
		intro := "Use the following code to complete your login:"
		if msg.Kind == KindRegistrationCode {
			heading = "Welcome " + msg.Name + "!"
			intro = "To complete your account creation, please verify your email address using the code below:"
		}
		minutes := int(msg.ExpiresAt.Sub(now).Round(time.Minute).Minutes())
		if minutes < 1 {
			minutes = 1
		}
		err := codeTemplate.Execute(&buf, map[string]any{
			"Brand":   brandName,
			"Heading": heading,
			"Intro":   intro,
			"Code":    msg.Code,
			"Minutes": minutes,
		})
		if err != nil {
			return "", err
		}
	case KindWelcome:
		if err := welcomeTemplate.Execute(&buf, map[string]any{
			"Brand": brandName,
			"Name":  msg.Name,
		}); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown email kind %q", msg.Kind)
	}
	return buf.String(), nil
}
