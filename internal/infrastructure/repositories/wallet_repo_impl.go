package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"moneta.backend/internal/domain/entities"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/internal/infrastructure/models"
	"moneta.backend/pkg/utils"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create creates a new wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	now := time.Now()
	wallet.CreatedAt = now
	wallet.UpdatedAt = now

	m := r.toModel(wallet)
	return GetDB(ctx, r.db).WithContext(ctx).Create(m).Error
}

// GetByID gets a wallet owned by the user. A wallet belonging to a
// different user is reported as not found.
func (r *WalletRepository) GetByID(ctx context.Context, userID, walletID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND user_id = ?", walletID, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List gets the user's wallets with filters, newest first
func (r *WalletRepository) List(ctx context.Context, userID uuid.UUID, filter entities.WalletFilter, p utils.PaginationParams) ([]*entities.Wallet, int64, error) {
	var ms []models.Wallet
	var totalCount int64

	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Wallet{}).
		Where("user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&ms).Error
	if err != nil {
		return nil, 0, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for _, m := range ms {
		model := m
		wallets = append(wallets, r.toEntity(&model))
	}
	return wallets, totalCount, nil
}

// Update applies the given column map to an owned wallet and returns the
// updated row. Only columns present in the map are written.
func (r *WalletRepository) Update(ctx context.Context, userID, walletID uuid.UUID, updates map[string]interface{}) (*entities.Wallet, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	updates["updated_at"] = time.Now()

	result := db.Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerrors.ErrNotFound
	}

	var m models.Wallet
	if err := db.Where("id = ? AND user_id = ?", walletID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

// Delete removes an owned wallet
func (r *WalletRepository) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Where("id = ? AND user_id = ?", walletID, userID).
		Delete(&models.Wallet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// ClearDefault drops the default flag from every wallet the user owns
func (r *WalletRepository) ClearDefault(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Updates(map[string]interface{}{
			"is_default": false,
			"updated_at": time.Now(),
		}).Error
}

// MarkDefault raises the default flag on one owned wallet
func (r *WalletRepository) MarkDefault(ctx context.Context, userID, walletID uuid.UUID) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ? AND user_id = ?", walletID, userID).
		Updates(map[string]interface{}{
			"is_default": true,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *WalletRepository) toModel(w *entities.Wallet) *models.Wallet {
	return &models.Wallet{
		ID:              w.ID,
		UserID:          w.UserID,
		Name:            w.Name,
		Type:            string(w.Type),
		Currency:        w.Currency,
		Balance:         w.Balance,
		Description:     w.Description.Ptr(),
		Color:           string(w.Color),
		Icon:            w.Icon,
		IsActive:        w.IsActive,
		IsDefault:       w.IsDefault,
		AccountNumber:   w.AccountNumber.Ptr(),
		InstitutionName: w.InstitutionName.Ptr(),
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:              m.ID,
		UserID:          m.UserID,
		Name:            m.Name,
		Type:            entities.WalletType(m.Type),
		Currency:        m.Currency,
		Balance:         m.Balance,
		Description:     null.StringFromPtr(m.Description),
		Color:           entities.WalletColor(m.Color),
		Icon:            m.Icon,
		IsActive:        m.IsActive,
		IsDefault:       m.IsDefault,
		AccountNumber:   null.StringFromPtr(m.AccountNumber),
		InstitutionName: null.StringFromPtr(m.InstitutionName),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
