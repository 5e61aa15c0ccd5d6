package utils

import (
	"context"

	"github.com/RichardToddFidelis/reporting-backend/config"
	"gorm.io/gorm"
)

// check if id exists, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// MissingIds returns the subset of ids that have no matching row.
// Pass the transaction handle when the check must see uncommitted rows.
func MissingIds[M any](ctx context.Context, db *gorm.DB, ids []int) ([]int, error) {
	unqIds := UniqueSlice(ids)
	if len(unqIds) == 0 {
		return nil, nil
	}

	var model M
	var found []int
	if err := db.WithContext(ctx).Model(&model).
		Where("id IN ?", unqIds).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	foundSet := make(map[int]bool, len(found))
	for _, id := range found {
		foundSet[id] = true
	}
	var missing []int
	for _, id := range unqIds {
		if !foundSet[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// count records matching WHERE $condition
func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
