package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/stemsi/intake-backend/internal/model"
	"golang.org/x/text/language"
)

// ContextKeyLang is the Gin context key for the negotiated language.
const ContextKeyLang = "lang"

// supportedTags mirrors model.SupportedLangs index for index.
var supportedTags = []language.Tag{language.Russian, language.English, language.German}

var langMatcher = language.NewMatcher(supportedTags)

// Locale picks the response language from the "lang" query parameter, then
// the Accept-Language header, falling back to the default language.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyLang, Negotiate(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// Negotiate resolves an explicit language choice or an Accept-Language
// header to a supported language.
func Negotiate(query, acceptLanguage string) model.Lang {
	if query != "" {
		if tag, err := language.Parse(query); err == nil {
			if lang, ok := match(tag); ok {
				return lang
			}
		}
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return model.DefaultLang
	}
	if lang, ok := match(tags...); ok {
		return lang
	}
	return model.DefaultLang
}

func match(tags ...language.Tag) (model.Lang, bool) {
	_, idx, conf := langMatcher.Match(tags...)
	if conf == language.No {
		return "", false
	}
	return model.SupportedLangs[idx], true
}

// LangFromContext returns the language chosen by Locale.
func LangFromContext(c *gin.Context) model.Lang {
	if v, ok := c.Get(ContextKeyLang); ok {
		if lang, ok := v.(model.Lang); ok {
			return lang
		}
	}
	return model.DefaultLang
}
