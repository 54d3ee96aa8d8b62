package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/room_booking/internal/model"
	"go.uber.org/zap"
)

type AccountService struct {
	store  Store
	logger *zap.Logger
}

func NewAccountService(store Store, logger *zap.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

// Register регистрирует сотрудника или студента
func (s *AccountService) Register(ctx context.Context, account *model.Account) (model.Violations, error) {
	account.FirstName = strings.TrimSpace(account.FirstName)
	account.LastName = strings.TrimSpace(account.LastName)

	if v := model.ValidateAccount(account); !v.Empty() {
		return v, nil
	}

	err := s.store.Within(ctx, func(ctx context.Context, tx Tx) error {
		return tx.InsertAccount(ctx, account)
	})
	if errors.Is(err, model.ErrDuplicate) {
		var v model.Violations
		v.Add(model.FieldAccountID, fmt.Sprintf("Account %s already exists.", account.ID))
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID),
		zap.String("role", string(account.Role)),
	)

	return nil, nil
}

// LinkTelegram привязывает Telegram пользователя к аккаунту
func (s *AccountService) LinkTelegram(ctx context.Context, accountID string, telegramID int64) error {
	err := s.store.Within(ctx, func(ctx context.Context, tx Tx) error {
		return tx.SetTelegramID(ctx, accountID, telegramID)
	})
	if err != nil {
		return fmt.Errorf("link telegram: %w", err)
	}

	s.logger.Info("Telegram linked",
		zap.String("account_id", accountID),
		zap.Int64("telegram_id", telegramID),
	)

	return nil
}

// GetByTelegramID получает аккаунт по Telegram ID
func (s *AccountService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error) {
	return s.store.GetAccountByTelegramID(ctx, telegramID)
}

// GetByID получает аккаунт по институтскому номеру
func (s *AccountService) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}
