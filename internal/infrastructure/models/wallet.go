package models

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(100);not null"`
	Type            string    `gorm:"type:varchar(20);not null"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'IDR'"`
	Balance         string    `gorm:"type:numeric(15,2);not null;default:'0.00'"`
	Description     *string   `gorm:"type:varchar(500)"`
	Color           string    `gorm:"type:varchar(20);not null;default:'bg-gray-800'"`
	Icon            string    `gorm:"type:varchar(50);not null;default:'💰'"`
	IsActive        bool      `gorm:"not null;default:true"`
	IsDefault       bool      `gorm:"not null;default:false"`
	AccountNumber   *string   `gorm:"type:varchar(50)"`
	InstitutionName *string   `gorm:"type:varchar(100)"`
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Wallet) TableName() string { return "wallets" }
