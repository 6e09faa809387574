package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/dbmetrics"
	"github.com/salonkit/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий конфигурации салона и недельного расписания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetShopConfig получает конфигурацию салона (шаг сетки, программа
// лояльности, база комиссии)
func (r *Repository) GetShopConfig(ctx context.Context, shopID int64) (*domain.ShopConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"slot_interval_minutes",
		"min_booking_notice_minutes",
		"loyalty_enabled",
		"points_per_service",
		"commission_includes_products",
		"commission_on_subscription",
		"created_at",
		"updated_at",
	).
		From("shops").
		Where(squirrel.Eq{"id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetShopConfig - build select query: %v", ErrBuildQuery, err)
	}

	var cfg domain.ShopConfig
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&cfg.ShopID,
		&cfg.Name,
		&cfg.SlotIntervalMinutes,
		&cfg.MinBookingNoticeMinutes,
		&cfg.LoyaltyEnabled,
		&cfg.PointsPerService,
		&cfg.CommissionIncludesProducts,
		&cfg.CommissionOnSubscription,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetShopConfig - scan config: %v", ErrScanRow, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}

// UpdateShopConfig обновляет конфигурацию салона
func (r *Repository) UpdateShopConfig(ctx context.Context, cfg *domain.ShopConfig) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("shops").
		Set("slot_interval_minutes", cfg.SlotIntervalMinutes).
		Set("min_booking_notice_minutes", cfg.MinBookingNoticeMinutes).
		Set("loyalty_enabled", cfg.LoyaltyEnabled).
		Set("points_per_service", cfg.PointsPerService).
		Set("commission_includes_products", cfg.CommissionIncludesProducts).
		Set("commission_on_subscription", cfg.CommissionOnSubscription).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": cfg.ShopID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateShopConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateShopConfig - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateShopConfig - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrShopNotFound
	}

	return nil
}

// GetOperatingSchedule получает недельное расписание салона.
// Дни без строки в БД считаются закрытыми.
func (r *Repository) GetOperatingSchedule(ctx context.Context, shopID int64) (*domain.OperatingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"open",
		"start_time",
		"end_time",
		"has_break",
		"break_start",
		"break_end",
	).
		From("shop_schedule").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingSchedule - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOperatingSchedule - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	var schedule domain.OperatingSchedule
	found := false

	for rows.Next() {
		var weekday int
		var day domain.DaySchedule

		err := rows.Scan(
			&weekday,
			&day.Open,
			&day.Start,
			&day.End,
			&day.HasBreak,
			&day.BreakStart,
			&day.BreakEnd,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOperatingSchedule - scan row: %v", ErrScanRow, err)
		}

		if err := setWeekday(&schedule, time.Weekday(weekday), day); err != nil {
			return nil, err
		}
		found = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOperatingSchedule - rows error: %v", ErrScanRow, err)
	}

	if !found {
		return nil, ErrScheduleNotFound
	}

	return &schedule, nil
}

// UpsertOperatingSchedule сохраняет недельное расписание салона (7 строк).
// Вызывается внутри транзакции сервисом расписания.
func (r *Repository) UpsertOperatingSchedule(ctx context.Context, shopID int64, schedule *domain.OperatingSchedule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day := schedule.ForWeekday(weekday)

		query, args, err := psqlbuilder.Insert("shop_schedule").
			Columns("shop_id", "weekday", "open", "start_time", "end_time", "has_break", "break_start", "break_end").
			Values(shopID, int(weekday), day.Open, day.Start, day.End,
				day.HasBreak, day.BreakStart, day.BreakEnd).
			Suffix(`ON CONFLICT (shop_id, weekday) DO UPDATE SET
				open = EXCLUDED.open,
				start_time = EXCLUDED.start_time,
				end_time = EXCLUDED.end_time,
				has_break = EXCLUDED.has_break,
				break_start = EXCLUDED.break_start,
				break_end = EXCLUDED.break_end`).
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: UpsertOperatingSchedule - build upsert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: UpsertOperatingSchedule - execute upsert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

func setWeekday(s *domain.OperatingSchedule, weekday time.Weekday, day domain.DaySchedule) error {
	switch weekday {
	case time.Monday:
		s.Monday = day
	case time.Tuesday:
		s.Tuesday = day
	case time.Wednesday:
		s.Wednesday = day
	case time.Thursday:
		s.Thursday = day
	case time.Friday:
		s.Friday = day
	case time.Saturday:
		s.Saturday = day
	case time.Sunday:
		s.Sunday = day
	default:
		return fmt.Errorf("%w: unknown weekday %d", ErrScanRow, weekday)
	}
	return nil
}
