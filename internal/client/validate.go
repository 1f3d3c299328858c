package client

import (
	"regexp"
	"strings"
)

// Field names a validated client field. Values match the JSON keys.
type Field string

const (
	FieldTaxID     Field = "taxId"
	FieldLegalName Field = "legalName"
	FieldTradeName Field = "tradeName"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"
	FieldAddress   Field = "address"
	FieldCity      Field = "city"
	FieldRegion    Field = "region"
)

// Error messages reported by Validate.
const (
	MsgTaxIDRequired     = "Tax ID is required"
	MsgTaxIDInvalid      = "Tax ID is invalid"
	MsgLegalNameRequired = "Legal name is required"
	MsgTradeNameRequired = "Trade name is required"
	MsgEmailRequired     = "Email is required"
	MsgEmailInvalid      = "Email is invalid"
)

// Errors maps a field to its validation message. An empty map means valid.
type Errors map[Field]string

// Valid reports whether no field failed validation.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// ValidateOptions tunes the required-field rule.
type ValidateOptions struct {
	// TrimRequired rejects whitespace-only values for required fields.
	TrimRequired bool
}

// DefaultValidateOptions returns the options used by the UI.
func DefaultValidateOptions() ValidateOptions {
	return ValidateOptions{TrimRequired: true}
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks every rule independently so all violations are reported
// together. Optional fields are never checked.
func Validate(f Fields, opts ValidateOptions) Errors {
	errs := Errors{}
	missing := func(v string) bool {
		if opts.TrimRequired {
			return strings.TrimSpace(v) == ""
		}
		return v == ""
	}

	switch {
	case missing(f.TaxID):
		errs[FieldTaxID] = MsgTaxIDRequired
	case len(Digits(f.TaxID)) != TaxIDDigits:
		errs[FieldTaxID] = MsgTaxIDInvalid
	}

	if missing(f.LegalName) {
		errs[FieldLegalName] = MsgLegalNameRequired
	}
	if missing(f.TradeName) {
		errs[FieldTradeName] = MsgTradeNameRequired
	}

	switch {
	case missing(f.Email):
		errs[FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(f.Email):
		errs[FieldEmail] = MsgEmailInvalid
	}

	return errs
}
