package postgres

import (
	"errors"

	"gorm.io/gorm"

	"viralspark-api/internal/domain/repository"
)

// firstOrNil 查询单行，未命中返回 nil 而不是 ErrRecordNotFound
func firstOrNil[T any](db *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	if err := db.First(&row, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// listPage 对已过滤的查询先 count 再分页取数。
// query 需已带 Model 与过滤条件。
func listPage[T any](query *gorm.DB, order string, p repository.Pagination) (*repository.PagedResult[*T], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []*T
	if err := query.Order(order).Offset(p.Offset()).Limit(p.Limit()).Find(&rows).Error; err != nil {
		return nil, err
	}
	return repository.NewPagedResult(rows, total, p), nil
}
