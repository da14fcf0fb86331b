package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"moneta.backend/internal/infrastructure/models"
)

// TransactionRepository exposes the expense and income rows tied to a
// wallet. Wallet deletion conflicts on any recorded transaction.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// CountByWalletID counts expense and income rows referencing a wallet
func (r *TransactionRepository) CountByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var expenses int64
	if err := db.Model(&models.Expense{}).Where("wallet_id = ?", walletID).Count(&expenses).Error; err != nil {
		return 0, err
	}

	var incomes int64
	if err := db.Model(&models.Income{}).Where("wallet_id = ?", walletID).Count(&incomes).Error; err != nil {
		return 0, err
	}

	return expenses + incomes, nil
}
