package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClaimsDecode is returned when the auth authority's response cannot be
// parsed into a usable claims set
var ErrClaimsDecode = errors.New("cannot decode claims")

// Claims is the authorization payload carried by an access token.
// The auth authority owns the token format; the gateway only decodes
// the claims it hands back.
type Claims struct {
	Admin    bool   `json:"admin"`
	Username string `json:"username,omitempty"`
}

// DecodeClaims parses the authority's claims JSON. The admin field is
// required; a payload without it is a decode failure, not a non-admin.
func DecodeClaims(raw []byte) (Claims, error) {
	var payload struct {
		Admin    *bool  `json:"admin"`
		Username string `json:"username"`
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrClaimsDecode, err)
	}
	if payload.Admin == nil {
		return Claims{}, fmt.Errorf("%w: missing admin field", ErrClaimsDecode)
	}

	return Claims{
		Admin:    *payload.Admin,
		Username: payload.Username,
	}, nil
}
