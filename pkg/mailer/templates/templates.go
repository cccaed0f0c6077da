package templates

import (
	"bytes"
	"fmt"
	htmpl "html/template"
)

// Template names understood by the email worker.
const (
	OTPEmail = "otp"
	Welcome  = "welcome"
)

// OTPData fills the one-time-code template.
type OTPData struct {
	Name    string `json:"Name"`
	Code    string `json:"Code"`
	Channel string `json:"Channel"` // "email" or "mobile"
	AppName string `json:"AppName"`
}

// WelcomeData fills the registration-complete template.
type WelcomeData struct {
	Name    string `json:"Name"`
	AppName string `json:"AppName"`
}

var otpTmpl = htmpl.Must(htmpl.New(OTPEmail).Parse(`
<p>Hi {{.Name}},</p>
<p>Your {{.AppName}} verification code is:</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>Enter it to confirm your {{.Channel}}. The code expires with your registration session.</p>
<p>If you did not request this, you can ignore this message.</p>
`))

var welcomeTmpl = htmpl.Must(htmpl.New(Welcome).Parse(`
<p>Hi {{.Name}},</p>
<p>Your {{.AppName}} account is verified. You can now log in and start
reporting issues in your neighborhood.</p>
`))

// Render produces subject, text and HTML bodies for the named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var buf bytes.Buffer
	switch name {
	case OTPEmail:
		if err = otpTmpl.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Your verification code"
		text = fmt.Sprintf("Your verification code is %v", data["Code"])
	case Welcome:
		if err = welcomeTmpl.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		subject = "Welcome aboard"
		text = "Your account is verified. You can now log in."
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	return subject, text, buf.String(), nil
}
