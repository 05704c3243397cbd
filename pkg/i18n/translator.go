// Package i18n resolves user-facing messages for the validator, the exports
// and the terminal session.
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTranslator is passed to the missing handler when no translator
	// is configured.
	ErrMissingTranslator = errors.New("i18n: translator is not configured")
	// ErrMissingTranslation signals that the catalog has no entry for a key.
	ErrMissingTranslation = errors.New("i18n: translation not found")
)

// Translator resolves a message key for a locale, formatting args into the
// message.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler chooses the string returned when a key cannot be
// resolved.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// MissingKey returns the key itself, with args appended so no information is
// lost.
func MissingKey(_ string, key string, args []any, _ error) string {
	if len(args) == 0 {
		return key
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, fmt.Sprint(arg))
	}
	return key + " (" + strings.Join(parts, ", ") + ")"
}

// Localizer binds a translator to one locale.
type Localizer struct {
	Translator Translator
	Locale     string
	OnMissing  MissingTranslationHandler
}

// T resolves key, falling back to the missing handler.
func (l Localizer) T(key string, args ...any) string {
	onMissing := l.OnMissing
	if onMissing == nil {
		onMissing = MissingKey
	}
	if l.Translator == nil {
		return onMissing(l.Locale, key, args, ErrMissingTranslator)
	}
	msg, err := l.Translator.Translate(l.Locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(l.Locale, key, args, err)
	}
	return msg
}
