package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/salonkit/booking-service/internal/domain"
	"github.com/salonkit/booking-service/pkg/dbmetrics"
	"github.com/salonkit/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий каталога услуг и продуктов салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу салона вместе со списком мастеров,
// которые могут её выполнять
func (r *Repository) GetServiceByID(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"duration_minutes",
		"price",
		"active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID}).
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.ShopID,
		&svc.Name,
		&svc.DurationMinutes,
		&svc.Price,
		&svc.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	if err := r.loadEligibleProfessionals(ctx, &svc); err != nil {
		return nil, err
	}

	return &svc, nil
}

// GetServicePriceByName получает актуальную цену услуги по названию.
// Для удаленной или переименованной услуги возвращает ErrServiceNotFound -
// расчет комиссии деградирует такую позицию до нуля.
func (r *Repository) GetServicePriceByName(ctx context.Context, shopID int64, name string) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("price").
		From("services").
		Where(squirrel.Eq{"shop_id": shopID}).
		Where(squirrel.Eq{"name": name}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetServicePriceByName - build select query: %v", ErrBuildQuery, err)
	}

	var price float64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&price)

	if err == sql.ErrNoRows {
		return 0, ErrServiceNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetServicePriceByName - scan price: %v", ErrScanRow, err)
	}

	return price, nil
}

// GetProductPrice получает актуальную цену продукта
func (r *Repository) GetProductPrice(ctx context.Context, shopID, productID int64) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("price").
		From("products").
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.Eq{"shop_id": shopID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: GetProductPrice - build select query: %v", ErrBuildQuery, err)
	}

	var price float64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&price)

	if err == sql.ErrNoRows {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: GetProductPrice - scan price: %v", ErrScanRow, err)
	}

	return price, nil
}

func (r *Repository) loadEligibleProfessionals(ctx context.Context, svc *domain.Service) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("professional_id").
		From("service_professionals").
		Where(squirrel.Eq{"service_id": svc.ID}).
		OrderBy("professional_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadEligibleProfessionals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadEligibleProfessionals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("%w: loadEligibleProfessionals - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadEligibleProfessionals - rows error: %v", ErrScanRow, err)
	}

	svc.EligibleProfessionalIDs = ids
	return nil
}
