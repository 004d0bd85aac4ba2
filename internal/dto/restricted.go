package dto

import "time"

type CreateRestrictedAddressRequest struct {
	AddressLine1 string `json:"address_line1" binding:"required,min=1,max=200"`
	PostalCode   string `json:"postal_code" binding:"required,min=1,max=16"`
	Reason       string `json:"reason" binding:"max=500"`
}

type CheckAddressRequest struct {
	AddressLine1 string `json:"address_line1" binding:"required,min=1,max=200"`
	PostalCode   string `json:"postal_code" binding:"max=16"`
}

type RestrictedAddressResponse struct {
	ID           int64     `json:"id"`
	AddressLine1 string    `json:"address_line1"`
	PostalCode   string    `json:"postal_code"`
	MatchKey     string    `json:"match_key"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

type ListRestrictedAddressesResponse struct {
	Items []RestrictedAddressResponse `json:"items"`
}

type CheckAddressResponse struct {
	Restricted bool                       `json:"restricted"`
	Match      *RestrictedAddressResponse `json:"match,omitempty"`
}
