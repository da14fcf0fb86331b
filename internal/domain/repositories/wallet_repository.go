package repositories

import (
	"context"

	"github.com/google/uuid"
	"moneta.backend/internal/domain/entities"
	"moneta.backend/pkg/utils"
)

// WalletRepository defines wallet data operations. Reads and mutations are
// owner-scoped: a wallet that exists but belongs to another user behaves
// exactly like a missing one.
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, userID, walletID uuid.UUID) (*entities.Wallet, error)
	List(ctx context.Context, userID uuid.UUID, filter entities.WalletFilter, p utils.PaginationParams) ([]*entities.Wallet, int64, error)
	Update(ctx context.Context, userID, walletID uuid.UUID, updates map[string]interface{}) (*entities.Wallet, error)
	Delete(ctx context.Context, userID, walletID uuid.UUID) error
	// ClearDefault drops the default flag from every wallet the user owns.
	ClearDefault(ctx context.Context, userID uuid.UUID) error
	// MarkDefault raises the default flag on one owned wallet.
	MarkDefault(ctx context.Context, userID, walletID uuid.UUID) error
}

// TransactionRepository exposes the expense/income rows referencing a wallet.
// Only counting is needed: wallet deletion conflicts on recorded transactions.
type TransactionRepository interface {
	CountByWalletID(ctx context.Context, walletID uuid.UUID) (int64, error)
}
