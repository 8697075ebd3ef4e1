package domain

import (
	"fmt"
	"strings"
)

// AddressType classifies an address.
type AddressType string

const (
	AddressHome     AddressType = "HOME"
	AddressWork     AddressType = "WORK"
	AddressBilling  AddressType = "BILLING"
	AddressShipping AddressType = "SHIPPING"
)

// AddressTypes lists every accepted address type in declaration order.
func AddressTypes() []AddressType {
	return []AddressType{AddressHome, AddressWork, AddressBilling, AddressShipping}
}

// ParseAddressType accepts any casing and surrounding whitespace.
func ParseAddressType(s string) (AddressType, error) {
	t := AddressType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AddressTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAddressType, s)
}

// Address is the postal address owned by exactly one identity.
type Address struct {
	ID          int64       `json:"-"`
	StreetLine1 string      `json:"streetLine1"`
	StreetLine2 string      `json:"streetLine2,omitempty"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	ZipCode     string      `json:"zipCode"`
	Country     string      `json:"country"`
	AddressType AddressType `json:"addressType"`
}
