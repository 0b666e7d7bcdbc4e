package entity

import "time"

type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
)

func (t AddressType) Valid() bool {
	return t == AddressShipping || t == AddressBilling
}

type Address struct {
	ID           int64
	UserID       int64
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Phone        string
	IsDefault    bool
	Type         AddressType
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
