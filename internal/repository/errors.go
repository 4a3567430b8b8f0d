package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/eventsystem/service-booking/internal/platform/apperr"
)

// ErrStaleVersion marks an optimistic-lock miss on a row that still exists.
var ErrStaleVersion = errors.New("row was modified by another transaction")

func storageFault(op string, err error) error {
	return apperr.NewStorageFault(op, err)
}

func notFound(entity string, id int64) error {
	return apperr.NewNotFoundError(entity, strconv.FormatInt(id, 10))
}

// staleOrMissing decides what a zero-row versioned update means: NotFound if
// the row is gone, otherwise a storage fault telling the caller to reload.
func staleOrMissing(ctx context.Context, db *gorm.DB, model interface{}, entity string, id int64) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return storageFault(fmt.Sprintf("failed to re-read %s", entity), err)
	}
	if count == 0 {
		return notFound(entity, id)
	}
	return apperr.NewStorageFault(
		fmt.Sprintf("%s %d was modified concurrently, reload and try again", entity, id),
		ErrStaleVersion,
	)
}
