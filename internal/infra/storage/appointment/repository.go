package appointment

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

var appointmentColumns = []string{
	"id",
	"shop_id",
	"client_id",
	"professional_id",
	"service_id",
	"appointment_date",
	"start_time",
	"status",
	"service_name",
	"service_price",
	"duration_minutes",
	"settlement_method",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Вызывается только внутри сериализуемой транзакции создания записи:
// проверка доступности слота и вставка должны видеть одно и то же
// состояние дня, иначе возможен double-booking.
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"shop_id",
			"client_id",
			"professional_id",
			"service_id",
			"appointment_date",
			"start_time",
			"status",
			"service_name",
			"service_price",
			"duration_minutes",
			"notes",
		).
		Values(
			appt.ShopID,
			appt.ClientID,
			appt.ProfessionalID,
			appt.ServiceID,
			appt.Date,
			appt.StartTime,
			appt.Status,
			appt.ServiceName,
			appt.ServicePrice,
			appt.DurationMinutes,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID вместе с продажами продуктов.
// Внутри транзакции строка блокируется (FOR UPDATE) - используется
// переходами статуса.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadProducts(ctx, []*domain.Appointment{appt}); err != nil {
		return nil, err
	}

	return appt, nil
}

// ListByProfessionalAndDate получает записи мастера на календарный день,
// упорядоченные по времени начала.
// Внутри транзакции строки блокируются (FOR UPDATE) - на этом держится
// защита от double-booking при создании записи.
func (r *Repository) ListByProfessionalAndDate(ctx context.Context, professionalID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"appointment_date": date}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessionalAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProfessionalAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListByShopAndDate получает все записи салона на календарный день
func (r *Repository) ListByShopAndDate(ctx context.Context, shopID int64, date time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.Eq{"appointment_date": date}).
		OrderBy("start_time ASC, professional_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByShopAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByShopAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanAppointments(rows)
}

// ListCompletedByProfessionalAndPeriod получает завершенные записи мастера
// за период [startDate, endDate], с продажами продуктов.
// Используется расчетом комиссии.
func (r *Repository) ListCompletedByProfessionalAndPeriod(ctx context.Context, professionalID int64, startDate, endDate time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.Eq{"status": domain.StatusCompleted}).
		Where(squirrel.GtOrEq{"appointment_date": startDate}).
		Where(squirrel.LtOrEq{"appointment_date": endDate}).
		OrderBy("appointment_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCompletedByProfessionalAndPeriod - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCompletedByProfessionalAndPeriod - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appts, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadProducts(ctx, appts); err != nil {
		return nil, err
	}

	return appts, nil
}

// UpdateStatus обновляет статус записи и, для завершающего перехода,
// способ расчета. Допустимость перехода проверяет вызывающая сторона.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, settlement *domain.SettlementMethod) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if settlement != nil {
		updateBuilder = updateBuilder.Set("settlement_method", *settlement)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Delete безусловно удаляет запись вместе с продажами продуктов (ON DELETE CASCADE).
// Это не переход статуса: статуса "отменена" в модели нет.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// AddProductSale добавляет продажу продукта к записи
func (r *Repository) AddProductSale(ctx context.Context, sale *domain.ProductSale) (*domain.ProductSale, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointment_products").
		Columns("appointment_id", "product_id", "quantity", "unit_price").
		Values(sale.AppointmentID, sale.ProductID, sale.Quantity, sale.UnitPrice).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AddProductSale - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sale.ID); err != nil {
		return nil, fmt.Errorf("%w: AddProductSale - execute insert: %v", ErrExecQuery, err)
	}

	return sale, nil
}

// loadProducts подгружает продажи продуктов для набора записей одним запросом
func (r *Repository) loadProducts(ctx context.Context, appts []*domain.Appointment) error {
	if len(appts) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(appts))
	byID := make(map[int64]*domain.Appointment, len(appts))
	for i, a := range appts {
		ids[i] = a.ID
		byID[a.ID] = a
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"product_id",
		"quantity",
		"unit_price",
	).
		From("appointment_products").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadProducts - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadProducts - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sale domain.ProductSale
		if err := rows.Scan(&sale.ID, &sale.AppointmentID, &sale.ProductID, &sale.Quantity, &sale.UnitPrice); err != nil {
			return fmt.Errorf("%w: loadProducts - scan row: %v", ErrScanRow, err)
		}
		if appt, ok := byID[sale.AppointmentID]; ok {
			appt.Products = append(appt.Products, sale)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadProducts - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var settlement sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.ShopID,
		&appt.ClientID,
		&appt.ProfessionalID,
		&appt.ServiceID,
		&appt.Date,
		&appt.StartTime,
		&appt.Status,
		&appt.ServiceName,
		&appt.ServicePrice,
		&appt.DurationMinutes,
		&settlement,
		&appt.Notes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanAppointment - scan row: %v", ErrScanRow, err)
	}

	if settlement.Valid {
		method := domain.SettlementMethod(settlement.String)
		appt.SettlementMethod = &method
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appts := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appts, nil
}
