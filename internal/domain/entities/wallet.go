package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// WalletType classifies the account behind a wallet
type WalletType string

const (
	WalletTypeChecking      WalletType = "checking"
	WalletTypeSavings       WalletType = "savings"
	WalletTypeCreditCard    WalletType = "credit_card"
	WalletTypeInvestment    WalletType = "investment"
	WalletTypeCash          WalletType = "cash"
	WalletTypeDigitalWallet WalletType = "digital_wallet"
	WalletTypeLoan          WalletType = "loan"
	WalletTypeOther         WalletType = "other"
)

// WalletColor is the UI color token attached to a wallet
type WalletColor string

const (
	WalletColorGray   WalletColor = "bg-gray-800"
	WalletColorPurple WalletColor = "bg-purple-500"
	WalletColorRed    WalletColor = "bg-red-500"
	WalletColorYellow WalletColor = "bg-yellow-500"
	WalletColorGreen  WalletColor = "bg-green-500"
	WalletColorBlue   WalletColor = "bg-blue-500"
)

// Defaults applied at creation
const (
	DefaultWalletBalance  = "0.00"
	DefaultWalletCurrency = "IDR"
	DefaultWalletIcon     = "💰"
)

// WalletTypes lists every valid wallet type
func WalletTypes() []WalletType {
	return []WalletType{
		WalletTypeChecking,
		WalletTypeSavings,
		WalletTypeCreditCard,
		WalletTypeInvestment,
		WalletTypeCash,
		WalletTypeDigitalWallet,
		WalletTypeLoan,
		WalletTypeOther,
	}
}

// WalletColors lists every valid color token
func WalletColors() []WalletColor {
	return []WalletColor{
		WalletColorGray,
		WalletColorPurple,
		WalletColorRed,
		WalletColorYellow,
		WalletColorGreen,
		WalletColorBlue,
	}
}

// Wallet represents a user's money container.
// At most one wallet per user carries IsDefault=true.
type Wallet struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"userId"`
	Name            string      `json:"name"`
	Type            WalletType  `json:"type"`
	Currency        string      `json:"currency"`
	Balance         string      `json:"balance"`
	Description     null.String `json:"description"`
	Color           WalletColor `json:"color"`
	Icon            string      `json:"icon"`
	IsActive        bool        `json:"isActive"`
	IsDefault       bool        `json:"isDefault"`
	AccountNumber   null.String `json:"accountNumber"`
	InstitutionName null.String `json:"institutionName"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// CreateWalletInput is the request body for POST /wallets
type CreateWalletInput struct {
	Name            string  `json:"name" binding:"required,min=1,max=100"`
	Type            string  `json:"type" binding:"required,wallettype"`
	Currency        string  `json:"currency" binding:"omitempty,walletcurrency"`
	Balance         string  `json:"balance" binding:"omitempty,walletbalance"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
	Color           string  `json:"color" binding:"omitempty,walletcolor"`
	Icon            *string `json:"icon"`
	AccountNumber   *string `json:"accountNumber" binding:"omitempty,max=50"`
	InstitutionName *string `json:"institutionName" binding:"omitempty,max=100"`
	IsDefault       bool    `json:"isDefault"`
}

// NullableString is a tri-state JSON string: absent, explicit null, or a
// value. Partial updates need the distinction so a nullable column can be
// cleared with `"field": null` while an absent field stays untouched.
type NullableString struct {
	Set   bool
	Value null.String
}

// UnmarshalJSON marks the field as provided; null leaves Value invalid
func (s *NullableString) UnmarshalJSON(data []byte) error {
	s.Set = true
	return s.Value.UnmarshalJSON(data)
}

// MarshalJSON renders the inner value, null when unset
func (s NullableString) MarshalJSON() ([]byte, error) {
	return s.Value.MarshalJSON()
}

// UpdateWalletInput is the request body for PUT /wallets/:walletId.
// Every field is optional; only provided fields are written. The nullable
// columns take NullableString so an explicit null clears them. The default
// flag is deliberately absent, only the set-default operation moves it.
type UpdateWalletInput struct {
	Name            *string        `json:"name" binding:"omitempty,min=1,max=100"`
	Type            *string        `json:"type" binding:"omitempty,wallettype"`
	Currency        *string        `json:"currency" binding:"omitempty,walletcurrency"`
	Description     NullableString `json:"description" binding:"omitempty,max=500"`
	Color           *string        `json:"color" binding:"omitempty,walletcolor"`
	Icon            *string        `json:"icon"`
	AccountNumber   NullableString `json:"accountNumber" binding:"omitempty,max=50"`
	InstitutionName NullableString `json:"institutionName" binding:"omitempty,max=100"`
	IsActive        *bool          `json:"isActive"`
}

// ListWalletsQuery is the query string for GET /wallets
type ListWalletsQuery struct {
	Type     *string `form:"type" binding:"omitempty,wallettype"`
	IsActive *bool   `form:"isActive"`
	Page     int     `form:"page" binding:"omitempty,min=1"`
	Limit    int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

// WalletFilter narrows wallet list queries
type WalletFilter struct {
	IsActive *bool
	Type     *WalletType
}
