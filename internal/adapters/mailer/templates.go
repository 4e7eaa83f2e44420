package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"expedia_inspired/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templateFS, "templates/otp.html"))

type otpEmailData struct {
	Title            string
	Heading          string
	Intro            string
	Footer           string
	Code             string
	ExpiresInMinutes int
}

type purposeCopy struct {
	subject string
	data    otpEmailData
}

var copies = map[domain.OTPPurpose]purposeCopy{
	domain.PurposeSignup: {
		subject: "Welcome to Expedia Inspired - Verify Your Email",
		data: otpEmailData{
			Title:   "Welcome to Expedia Inspired!",
			Heading: "Verify Your Email Address",
			Intro:   "Thank you for signing up! Please use the verification code below to complete your registration:",
			Footer:  "If you didn't request this code, please ignore this email.",
		},
	},
	domain.PurposeLogin: {
		subject: "Your Login Code - Expedia Inspired",
		data: otpEmailData{
			Title:   "Login Verification",
			Heading: "Your Login Code",
			Intro:   "Someone requested to log in to your Expedia Inspired account. Use the code below:",
			Footer:  "If this wasn't you, please secure your account immediately.",
		},
	},
	domain.PurposePasswordReset: {
		subject: "Password Reset Code - Expedia Inspired",
		data: otpEmailData{
			Title:   "Password Reset",
			Heading: "Reset Your Password",
			Intro:   "You requested to reset your password. Use the code below to proceed:",
			Footer:  "If you didn't request this, please ignore this email.",
		},
	},
}

// render returns the subject and HTML body for an OTP mail. Unknown purposes
// fall back to the login wording under a generic subject.
func render(code string, purpose domain.OTPPurpose, minutes int) (string, string, error) {
	c, ok := copies[purpose]
	if !ok {
		c = copies[domain.PurposeLogin]
		c.subject = "Your Verification Code"
	}
	data := c.data
	data.Code = code
	data.ExpiresInMinutes = minutes

	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render otp email: %w", err)
	}
	return c.subject, buf.String(), nil
}
