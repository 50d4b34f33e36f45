// Package apierror renders the error body shared by every HTTP route:
// a single-element JSON array carrying a category tag and a message.
package apierror

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleEnglish    = "en-US"
	LocalePortuguese = "pt-BR"
)

// Order matters: the first tag is the fallback when nothing matches.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var matcher = language.NewMatcher(supported)

// Message is a user-facing text keyed by locale.
type Message map[string]string

// Text builds a bilingual message.
func Text(en, pt string) Message {
	return Message{LocaleEnglish: en, LocalePortuguese: pt}
}

// Resolve returns the text best matching an Accept-Language header value.
func (m Message) Resolve(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return m[LocaleEnglish]
	}
	_, idx, _ := matcher.Match(tags...)
	if text, ok := m[supported[idx].String()]; ok {
		return text
	}
	return m[LocaleEnglish]
}

// Render returns the full locale map when no language was requested,
// otherwise the resolved string.
func (m Message) Render(acceptLanguage string) any {
	if acceptLanguage == "" {
		return m
	}
	return m.Resolve(acceptLanguage)
}

type Error struct {
	Category string `json:"category"`
	Message  any    `json:"message"`
}

// Body builds the response payload for one error.
func Body(category string, msg Message, acceptLanguage string) []Error {
	return []Error{{Category: category, Message: msg.Render(acceptLanguage)}}
}

// Respond aborts the request with status and a single-error body.
func Respond(c *gin.Context, status int, category string, msg Message) {
	c.AbortWithStatusJSON(status, Body(category, msg, c.GetHeader("Accept-Language")))
}
