package models

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	WalletID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount           string    `gorm:"type:numeric(15,2);not null"`
	Category         string    `gorm:"type:varchar(100);not null;index"`
	Description      *string   `gorm:"type:varchar(500)"`
	Notes            *string   `gorm:"type:text"`
	Merchant         *string   `gorm:"type:varchar(255);index"`
	Location         *string   `gorm:"type:varchar(255)"`
	TransactionDate  time.Time `gorm:"not null;index"`
	IsRecurring      bool      `gorm:"not null;default:false"`
	RecurringPattern *string   `gorm:"type:varchar(50)"`
	Tags             *string   `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

func (Expense) TableName() string { return "expenses" }

type Income struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	WalletID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Amount           string    `gorm:"type:numeric(15,2);not null"`
	Category         string    `gorm:"type:varchar(100);not null;index"`
	Description      *string   `gorm:"type:varchar(500)"`
	Notes            *string   `gorm:"type:text"`
	Source           *string   `gorm:"type:varchar(255);index"`
	TransactionDate  time.Time `gorm:"not null;index"`
	IsRecurring      bool      `gorm:"not null;default:false"`
	RecurringPattern *string   `gorm:"type:varchar(50)"`
	IsTaxable        bool      `gorm:"not null;default:false"`
	TaxYear          *string   `gorm:"type:varchar(4)"`
	Tags             *string   `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Wallet Wallet `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
}

func (Income) TableName() string { return "incomes" }
