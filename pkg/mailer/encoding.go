package mailer

import (
	"encoding/base64"
	"html"
)

func base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func htmlEscape(s string) string {
	return html.EscapeString(s)
}
