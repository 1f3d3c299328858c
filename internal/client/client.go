// Package client defines the client record, its editable field set, and the
// validation and formatting rules applied before a record is stored.
package client

import (
	"encoding/json"
	"time"
)

// Client is a registered business client.
type Client struct {
	ID        string    `json:"id"`
	TaxID     string    `json:"taxId"`
	LegalName string    `json:"legalName"`
	TradeName string    `json:"tradeName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fields is the user-editable part of a Client.
type Fields struct {
	TaxID     string
	LegalName string
	TradeName string
	Email     string
	Phone     string
	Address   string
	City      string
	Region    string
}

// Fields returns the editable fields of c.
func (c Client) Fields() Fields {
	return Fields{
		TaxID:     c.TaxID,
		LegalName: c.LegalName,
		TradeName: c.TradeName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		Region:    c.Region,
	}
}

// Patch is a partial field set. Nil fields are left untouched by Apply.
type Patch struct {
	TaxID     *string
	LegalName *string
	TradeName *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	Region    *string
}

// PatchFrom returns a Patch that sets every field of f.
func PatchFrom(f Fields) Patch {
	return Patch{
		TaxID:     &f.TaxID,
		LegalName: &f.LegalName,
		TradeName: &f.TradeName,
		Email:     &f.Email,
		Phone:     &f.Phone,
		Address:   &f.Address,
		City:      &f.City,
		Region:    &f.Region,
	}
}

// Apply merges the non-nil fields of p over c. ID and timestamps are never
// touched.
func (p Patch) Apply(c Client) Client {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.TaxID, p.TaxID)
	set(&c.LegalName, p.LegalName)
	set(&c.TradeName, p.TradeName)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Address, p.Address)
	set(&c.City, p.City)
	set(&c.Region, p.Region)
	return c
}

// Empty reports whether the patch sets no field.
func (p Patch) Empty() bool {
	return p.TaxID == nil && p.LegalName == nil && p.TradeName == nil && p.Email == nil &&
		p.Phone == nil && p.Address == nil && p.City == nil && p.Region == nil
}

// wireClient mirrors the persisted JSON shape, including the keys written by
// the browser version of the registry (cnpj, name, state).
type wireClient struct {
	ID        string `json:"id"`
	TaxID     string `json:"taxId"`
	LegalName string `json:"legalName"`
	TradeName string `json:"tradeName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Region    string `json:"region"`
	CreatedAt json.RawMessage `json:"createdAt"`
	UpdatedAt json.RawMessage `json:"updatedAt"`

	LegacyCNPJ  string `json:"cnpj,omitempty"`
	LegacyName  string `json:"name,omitempty"`
	LegacyState string `json:"state,omitempty"`
}

// UnmarshalJSON decodes a record leniently: missing strings become "",
// legacy keys fill in for absent new keys, and unparsable timestamps become
// the zero time.
func (c *Client) UnmarshalJSON(data []byte) error {
	var w wireClient
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Client{
		ID:        w.ID,
		TaxID:     firstNonEmpty(w.TaxID, w.LegacyCNPJ),
		LegalName: firstNonEmpty(w.LegalName, w.LegacyName),
		TradeName: w.TradeName,
		Email:     w.Email,
		Phone:     w.Phone,
		Address:   w.Address,
		City:      w.City,
		Region:    firstNonEmpty(w.Region, w.LegacyState),
		CreatedAt: parseTime(w.CreatedAt),
		UpdatedAt: parseTime(w.UpdatedAt),
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTime accepts only an RFC 3339 string; numbers, objects and null
// yield the zero time without failing the record.
func parseTime(raw json.RawMessage) time.Time {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
