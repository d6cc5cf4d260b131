package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"car-catalog/internal/database"
	"car-catalog/internal/model"

	"github.com/jackc/pgx/v5"
)

// DefaultListLimit applies when the caller sends no limit.
const DefaultListLimit = 10

// MaxListLimit caps page size.
const MaxListLimit = 100

// sortColumns whitelists the sortable fields; request values never reach
// the SQL text unless they appear here.
var sortColumns = map[string]string{
	"id":    "id",
	"make":  "make",
	"model": "model",
	"year":  "year",
	"price": "price",
}

// CarModelFilter narrows and orders ListCarModels. Zero values mean
// "no constraint"; SortBy must be one of the whitelisted fields.
type CarModelFilter struct {
	Make       string
	Model      string
	Year       *int
	SortBy     string
	Descending bool
	Offset     int
	Limit      int
}

func CreateCarModel(ctx context.Context, db database.DB, cm *model.CarModel) (*model.CarModel, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO car_models (make, model, year, price)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		cm.Make,
		cm.Model,
		cm.Year,
		cm.Price,
	)
	if err := row.Scan(&cm.ID, &cm.CreatedAt); err != nil {
		return nil, fmt.Errorf("CreateCarModel: %w", err)
	}
	return cm, nil
}

func GetCarModelByID(ctx context.Context, db database.DB, id int) (*model.CarModel, error) {
	row := db.QueryRow(ctx,
		`SELECT id, make, model, year, price, image_path, created_at
		 FROM car_models WHERE id = $1`,
		id,
	)
	cm := &model.CarModel{}
	if err := row.Scan(
		&cm.ID,
		&cm.Make,
		&cm.Model,
		&cm.Year,
		&cm.Price,
		&cm.ImagePath,
		&cm.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("GetCarModelByID: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("GetCarModelByID: %w", err)
	}
	return cm, nil
}

// ListCarModels returns a restartable page: identical filters yield the
// same sequence absent concurrent writes (ties broken by id).
func ListCarModels(ctx context.Context, db database.DB, f CarModelFilter) ([]model.CarModel, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, make, model, year, price, image_path, created_at FROM car_models`)

	var conds []string
	if f.Make != "" {
		args = append(args, "%"+f.Make+"%")
		conds = append(conds, "make ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Model != "" {
		args = append(args, "%"+f.Model+"%")
		conds = append(conds, "model ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Year != nil {
		args = append(args, *f.Year)
		conds = append(conds, "year = $"+strconv.Itoa(len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	orderCol := "id"
	if f.SortBy != "" {
		col, ok := sortColumns[f.SortBy]
		if !ok {
			return nil, fmt.Errorf("ListCarModels: unknown sort field %q", f.SortBy)
		}
		orderCol = col
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	sb.WriteString(" ORDER BY " + orderCol + " " + dir)
	if orderCol != "id" {
		sb.WriteString(", id ASC")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	args = append(args, limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, f.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	rows, err := db.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("ListCarModels: %w", err)
	}
	defer rows.Close()

	out := []model.CarModel{}
	for rows.Next() {
		var cm model.CarModel
		if err := rows.Scan(
			&cm.ID,
			&cm.Make,
			&cm.Model,
			&cm.Year,
			&cm.Price,
			&cm.ImagePath,
			&cm.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListCarModels: %w", err)
		}
		out = append(out, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCarModels: %w", err)
	}
	return out, nil
}

// UpdateCarModel replaces the mutable fields; id and image_path are
// untouched. ErrNotFound when the id does not exist.
func UpdateCarModel(ctx context.Context, db database.DB, cm *model.CarModel) error {
	tag, err := db.Exec(ctx,
		`UPDATE car_models SET make = $1, model = $2, year = $3, price = $4
		 WHERE id = $5`,
		cm.Make,
		cm.Model,
		cm.Year,
		cm.Price,
		cm.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateCarModel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("UpdateCarModel: %w", ErrNotFound)
	}
	return nil
}

// DeleteCarModel removes the row and reports the image path it carried so
// the caller can delete the file.
func DeleteCarModel(ctx context.Context, db database.DB, id int) (*string, error) {
	row := db.QueryRow(ctx,
		`DELETE FROM car_models WHERE id = $1 RETURNING image_path`,
		id,
	)
	var imagePath *string
	if err := row.Scan(&imagePath); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("DeleteCarModel: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("DeleteCarModel: %w", err)
	}
	return imagePath, nil
}

// SetCarModelImage records the new image path and returns the previous
// one, nil when the record had no image yet.
func SetCarModelImage(ctx context.Context, db database.DB, id int, path string) (*string, error) {
	row := db.QueryRow(ctx,
		`UPDATE car_models cm SET image_path = $1
		 FROM (SELECT id, image_path FROM car_models WHERE id = $2 FOR UPDATE) prev
		 WHERE cm.id = prev.id
		 RETURNING prev.image_path`,
		path,
		id,
	)
	var prior *string
	if err := row.Scan(&prior); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("SetCarModelImage: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("SetCarModelImage: %w", err)
	}
	return prior, nil
}

// ClearCarModelImage nulls the image path and returns what was stored.
// ErrNotFound only when the record itself is missing; a nil return with
// nil error means the record existed without an image.
func ClearCarModelImage(ctx context.Context, db database.DB, id int) (*string, error) {
	row := db.QueryRow(ctx,
		`UPDATE car_models cm SET image_path = NULL
		 FROM (SELECT id, image_path FROM car_models WHERE id = $1 FOR UPDATE) prev
		 WHERE cm.id = prev.id
		 RETURNING prev.image_path`,
		id,
	)
	var prior *string
	if err := row.Scan(&prior); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ClearCarModelImage: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("ClearCarModelImage: %w", err)
	}
	return prior, nil
}
