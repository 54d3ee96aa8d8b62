package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

type AccountRepository struct {
	*base.Repository
}

func NewAccountRepository(db base.Querier) *AccountRepository {
	return &AccountRepository{Repository: base.NewRepository(db)}
}

const accountColumns = `id, role, first_name, last_name, email, telegram_id, created_at`

// InsertAccount создаёт аккаунт сотрудника или студента
func (r *AccountRepository) InsertAccount(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, role, first_name, last_name, email, telegram_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		account.ID,
		account.Role,
		account.FirstName,
		account.LastName,
		account.Email,
		account.TelegramID,
	).Scan(&account.CreatedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetAccount получает аккаунт по институтскому номеру
func (r *AccountRepository) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// GetAccountByTelegramID получает аккаунт, привязанный к Telegram пользователю
func (r *AccountRepository) GetAccountByTelegramID(ctx context.Context, telegramID int64) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE telegram_id = $1`

	account, err := scanAccount(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account by telegram id: %w", err)
	}

	return account, nil
}

// SetTelegramID привязывает Telegram пользователя к аккаунту
func (r *AccountRepository) SetTelegramID(ctx context.Context, accountID string, telegramID int64) error {
	query := `UPDATE accounts SET telegram_id = $2 WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, accountID, telegramID)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("set telegram id: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Role,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.TelegramID,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
