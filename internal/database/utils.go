package database

import (
	"context"
)

// CreateEntity creates a record for the provided entity type.
func CreateEntity[T any](ctx context.Context, entity *T) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetEntityByID returns a single record of type T by its primary key id.
func GetEntityByID[T any, ID comparable](ctx context.Context, id ID) (*T, error) {
	db, err := GetDB()
	if err != nil {
		return nil, err
	}
	var out T
	if err := db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEntitiesByIDs returns all records of type T whose primary key is in ids.
// Missing ids are skipped, not errors; callers re-order as needed.
func GetEntitiesByIDs[T any, ID comparable](ctx context.Context, ids []ID) ([]T, error) {
	db, err := GetDB()
	if err != nil {
		return nil, err
	}
	var out []T
	if len(ids) == 0 {
		return out, nil
	}
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteEntity deletes the given record. Deleting a loaded instance rather
// than a bare id keeps gorm delete hooks working with the row's real values.
func DeleteEntity[T any](ctx context.Context, entity *T) error {
	db, err := GetDB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Delete(entity).Error
}
