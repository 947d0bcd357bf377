package validation

import "fmt"

// catalog holds the localized message templates, keyed by rule name.
// The first placeholder is always the entity-specific display label.
var catalog = map[string]string{
	"required": "El campo %s es obligatorio.",
	"string":   "El campo %s debe ser una cadena de caracteres.",
	"boolean":  "El campo %s debe ser verdadero o falso.",
	"numeric":  "El campo %s debe ser numérico.",
	"integer":  "El campo %s debe ser un número entero.",
	"max":      "El campo %s no debe ser mayor que %s caracteres.",
	"min":      "El campo %s debe ser al menos %s.",
	"unique":   "El campo %s ya ha sido registrado.",
}

// Message renders the localized message for a rule and display label.
func Message(rule, label string, params ...any) string {
	tmpl, ok := catalog[rule]
	if !ok {
		return fmt.Sprintf("El campo %s no es válido.", label)
	}
	args := append([]any{label}, params...)
	return fmt.Sprintf(tmpl, args...)
}

// UniqueMessage is the message for a name already taken by another record.
func UniqueMessage(label string) string {
	return Message("unique", label)
}
