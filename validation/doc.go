// Package validation validates configuration structs through
// go-playground/validator struct tags and reports failures as
// CONFIGURATION AppErrors whose field names are the mapstructure keys.
package validation
