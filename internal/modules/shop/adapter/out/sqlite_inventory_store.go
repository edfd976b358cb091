package out

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyledger/internal/modules/shop/domain"
	shopout "studyledger/internal/modules/shop/port/out"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/sqlite"
	"studyledger/internal/platform/tx"
)

type SQLiteInventoryStore struct {
	db *sql.DB
}

func NewSQLiteInventoryStore(db *sql.DB) shopout.InventoryStore {
	return &SQLiteInventoryStore{db: db}
}

func (s *SQLiteInventoryStore) Add(ctx context.Context, item domain.InventoryItem) error {
	_, err := tx.From(ctx, s.db).ExecContext(ctx,
		`INSERT INTO inventory (user_id, item_type, name, acquired_at) VALUES (?, ?, ?, ?)`,
		item.UserID, string(item.Type), item.Name, item.AcquiredAt.Format(time.RFC3339))
	if sqlite.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s:%s already owned", apperrors.ErrDuplicateName, item.Type, item.Name)
	}
	return apperrors.Storage("insert inventory", err)
}

func (s *SQLiteInventoryStore) List(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	rows, err := tx.From(ctx, s.db).QueryContext(ctx,
		`SELECT user_id, item_type, name, acquired_at FROM inventory WHERE user_id = ? ORDER BY item_type ASC, acquired_at ASC`, userID)
	if err != nil {
		return nil, apperrors.Storage("list inventory", err)
	}
	defer rows.Close()
	out := []domain.InventoryItem{}
	for rows.Next() {
		var (
			item       domain.InventoryItem
			itemType   string
			acquiredAt string
		)
		if err := rows.Scan(&item.UserID, &itemType, &item.Name, &acquiredAt); err != nil {
			return nil, apperrors.Storage("scan inventory", err)
		}
		item.Type = domain.ItemType(itemType)
		item.AcquiredAt, _ = time.Parse(time.RFC3339, acquiredAt)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate inventory", err)
	}
	return out, nil
}

func (s *SQLiteInventoryStore) Owns(ctx context.Context, userID string, itemType domain.ItemType, name string) (bool, error) {
	var n int
	err := tx.From(ctx, s.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM inventory WHERE user_id = ? AND item_type = ? AND name = ?`,
		userID, string(itemType), name).Scan(&n)
	if err != nil {
		return false, apperrors.Storage("check inventory", err)
	}
	return n > 0, nil
}
