package usecases

import (
	"context"

	"github.com/google/uuid"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/domain/repositories"
	"moneta.backend/pkg/utils"
)

// WalletUsecase handles wallet business logic. Every operation is scoped to
// the owning user; wallets that exist but belong to someone else surface as
// not found.
type WalletUsecase struct {
	walletRepo      repositories.WalletRepository
	transactionRepo repositories.TransactionRepository
	uow             repositories.UnitOfWork
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	transactionRepo repositories.TransactionRepository,
	uow repositories.UnitOfWork,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		uow:             uow,
	}
}

// List gets the user's wallets with filters and pagination metadata
func (u *WalletUsecase) List(ctx context.Context, userID uuid.UUID, query *entities.ListWalletsQuery) ([]*entities.Wallet, utils.PaginationMeta, error) {
	p := utils.NormalizePagination(query.Page, query.Limit)

	filter := entities.WalletFilter{IsActive: query.IsActive}
	if query.Type != nil {
		walletType := entities.WalletType(*query.Type)
		filter.Type = &walletType
	}

	wallets, total, err := u.walletRepo.List(ctx, userID, filter, p)
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	return wallets, utils.CalculateMeta(total, p.Page, p.Limit), nil
}

// Get gets a single owned wallet
func (u *WalletUsecase) Get(ctx context.Context, userID, walletID uuid.UUID) (*entities.Wallet, error) {
	return u.walletRepo.GetByID(ctx, userID, walletID)
}

// Create creates a wallet, applying defaults for omitted fields. A wallet
// requested as default displaces the user's current default atomically.
func (u *WalletUsecase) Create(ctx context.Context, userID uuid.UUID, input *entities.CreateWalletInput) (*entities.Wallet, error) {
	wallet := &entities.Wallet{
		ID:        utils.GenerateUUIDv7(),
		UserID:    userID,
		Name:      input.Name,
		Type:      entities.WalletType(input.Type),
		Currency:  entities.DefaultWalletCurrency,
		Balance:   entities.DefaultWalletBalance,
		Color:     entities.WalletColorGray,
		Icon:      entities.DefaultWalletIcon,
		IsActive:  true,
		IsDefault: input.IsDefault,
	}

	if input.Currency != "" {
		wallet.Currency = input.Currency
	}
	if input.Balance != "" {
		wallet.Balance = input.Balance
	}
	if input.Color != "" {
		wallet.Color = entities.WalletColor(input.Color)
	}
	if input.Icon != nil && *input.Icon != "" {
		wallet.Icon = *input.Icon
	}
	if input.Description != nil {
		wallet.Description.SetValid(*input.Description)
	}
	if input.AccountNumber != nil {
		wallet.AccountNumber.SetValid(*input.AccountNumber)
	}
	if input.InstitutionName != nil {
		wallet.InstitutionName.SetValid(*input.InstitutionName)
	}

	if !input.IsDefault {
		if err := u.walletRepo.Create(ctx, wallet); err != nil {
			return nil, err
		}
		return wallet, nil
	}

	// displacing the current default and inserting the new one must not
	// be observable as two defaults
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.ClearDefault(txCtx, userID); err != nil {
			return err
		}
		return u.walletRepo.Create(txCtx, wallet)
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Update applies a partial update to an owned wallet. The default flag is
// not updatable here; SetDefault is the only way to move it.
func (u *WalletUsecase) Update(ctx context.Context, userID, walletID uuid.UUID, input *entities.UpdateWalletInput) (*entities.Wallet, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}
	if input.Description.Set {
		updates["description"] = input.Description.Value.Ptr()
	}
	if input.Color != nil {
		updates["color"] = *input.Color
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if input.AccountNumber.Set {
		updates["account_number"] = input.AccountNumber.Value.Ptr()
	}
	if input.InstitutionName.Set {
		updates["institution_name"] = input.InstitutionName.Value.Ptr()
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		// nothing to write; still report not found for foreign wallets
		return u.walletRepo.GetByID(ctx, userID, walletID)
	}

	return u.walletRepo.Update(ctx, userID, walletID, updates)
}

// Delete removes an owned wallet. Wallets with recorded expense or income
// transactions refuse deletion.
func (u *WalletUsecase) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	wallet, err := u.walletRepo.GetByID(ctx, userID, walletID)
	if err != nil {
		return err
	}

	count, err := u.transactionRepo.CountByWalletID(ctx, wallet.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.ErrHasTransactions
	}

	return u.walletRepo.Delete(ctx, userID, walletID)
}

// SetDefault moves the user's default flag to the given wallet. The target
// must be owned and active; inactive wallets behave like missing ones.
func (u *WalletUsecase) SetDefault(ctx context.Context, userID, walletID uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByID(ctx, userID, walletID)
	if err != nil {
		return nil, err
	}
	if !wallet.IsActive {
		return nil, domainerrors.ErrNotFound
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.walletRepo.ClearDefault(txCtx, userID); err != nil {
			return err
		}
		return u.walletRepo.MarkDefault(txCtx, userID, walletID)
	})
	if err != nil {
		return nil, err
	}

	return u.walletRepo.GetByID(ctx, userID, walletID)
}
