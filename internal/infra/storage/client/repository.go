package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/dbmetrics"
	"github.com/salonkit/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий клиентов и их бонусных счетов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"phone",
		"points_balance",
		"created_at",
		"updated_at",
	).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Client
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.ShopID,
		&c.Name,
		&c.Phone,
		&c.PointsBalance,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}

// GetPointsBalance получает текущий бонусный баланс клиента
func (r *Repository) GetPointsBalance(ctx context.Context, id int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("points_balance").
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetPointsBalance - build select query: %v", ErrBuildQuery, err)
	}

	var balance int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)

	if err == sql.ErrNoRows {
		return 0, ErrClientNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetPointsBalance - scan balance: %v", ErrScanRow, err)
	}

	return balance, nil
}

// IncrementPoints атомарно увеличивает бонусный баланс клиента и
// возвращает новый баланс. Одно UPDATE-выражение: конкурентные начисления
// разным записям одного клиента не теряют обновлений; внутри сериализуемой
// транзакции завершения записи конфликт повторяется менеджером транзакций.
func (r *Repository) IncrementPoints(ctx context.Context, id int64, delta int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("clients").
		Set("points_balance", squirrel.Expr("points_balance + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING points_balance").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: IncrementPoints - build update query: %v", ErrBuildQuery, err)
	}

	var balance int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)

	if err == sql.ErrNoRows {
		return 0, ErrClientNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: IncrementPoints - execute update: %v", ErrExecQuery, err)
	}

	return balance, nil
}
