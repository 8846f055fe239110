package service

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/attireme/auth-service/internal/core/domain"
)

const (
	confirmationSubject  = "Email Confirmation"
	passwordResetSubject = "Reset Your AttireMe Password"
)

func confirmationLink(frontendURL, email, token string) string {
	q := url.Values{}
	q.Set("email", email)
	q.Set("token", token)
	return strings.TrimRight(frontendURL, "/") + "/confirm-email?" + q.Encode()
}

func confirmationEmail(frontendURL, to, token string) domain.Email {
	link := html.EscapeString(confirmationLink(frontendURL, to, token))
	body := fmt.Sprintf(`<h2>Welcome to AttireMe!</h2>
<p>Please confirm your email address by clicking the link below:</p>
<p><a href="%s">Confirm my email</a></p>
<p>If you did not create an account, you can ignore this message.</p>`, link)
	return domain.Email{To: to, Subject: confirmationSubject, HTML: body}
}

// validity renders d in whole hours when it is hour aligned, minutes otherwise.
func validity(d time.Duration) string {
	unit, n := "minute", int(d/time.Minute)
	if d >= time.Hour && d%time.Hour == 0 {
		unit, n = "hour", int(d/time.Hour)
	}
	if n < 1 {
		n = 1
	}
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func passwordResetEmail(to, code string, ttl time.Duration) domain.Email {
	body := fmt.Sprintf(`<h2>Password reset</h2>
<p>We received a request to reset your AttireMe password. Use the code below to choose a new one:</p>
<p><strong>%s</strong></p>
<p>This code will expire in %s. If you did not request a reset, you can ignore this message.</p>`, html.EscapeString(code), validity(ttl))
	return domain.Email{To: to, Subject: passwordResetSubject, HTML: body}
}
