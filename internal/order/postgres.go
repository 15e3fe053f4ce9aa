package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/magnitronlab/preorder-bot/core/logger"
)

const insertOrderSQL = `INSERT INTO orders
	(id, created_at, language, username, user_id, first_name, last_name, phone, email, address, status)
VALUES
	(:id, :created_at, :language, :username, :user_id, :first_name, :last_name, :phone, :email, :address, :status)`

type orderRow struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Language  string    `db:"language"`
	Username  string    `db:"username"`
	UserID    int64     `db:"user_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Phone     string    `db:"phone"`
	Email     string    `db:"email"`
	Address   string    `db:"address"`
	Status    string    `db:"status"`
}

// PostgresStore mirrors records into the orders table.
type PostgresStore struct {
	db    *sqlx.DB
	newID func() uuid.UUID
}

// NewPostgresStore returns a store backed by db.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db, newID: uuid.New}
}

// Append inserts rec with a fresh id.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	if !rec.Complete() {
		return ErrIncomplete
	}
	row := orderRow{
		ID:        s.newID(),
		CreatedAt: rec.Timestamp,
		Language:  string(rec.Language),
		Username:  rec.DisplayHandle,
		UserID:    rec.UserID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Phone:     rec.Phone,
		Email:     rec.Email,
		Address:   rec.Address,
		Status:    rec.Status,
	}
	start := time.Now()
	if _, err := s.db.NamedExecContext(ctx, insertOrderSQL, row); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	logger.Info(ctx, "orders", "append",
		slog.String("status", "ok"),
		slog.String("store", "postgres"),
		slog.String("order_id", row.ID.String()),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
