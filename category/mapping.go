package category

import (
	"fmt"

	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

var fields = []string{
	gateway.FieldName,
	gateway.CategoryColor,
	gateway.CategoryTaskCount,
}

func toRecord(c entity.Category) gateway.Record {
	r := gateway.Record{
		gateway.FieldName:         c.Name,
		gateway.CategoryColor:     c.Color,
		gateway.CategoryTaskCount: int64(c.TaskCount),
	}
	if c.ID != 0 {
		r[gateway.FieldID] = c.ID
	}
	return r
}

func fromRecord(r gateway.Record) (entity.Category, error) {
	id, ok := r.ID()
	if !ok {
		return entity.Category{}, fmt.Errorf("category record without Id: %w", domain.ErrGateway)
	}
	count, _ := r.Int64(gateway.CategoryTaskCount)
	return entity.Category{
		ID:        id,
		Name:      r.String(gateway.FieldName),
		Color:     r.String(gateway.CategoryColor),
		TaskCount: int(count),
	}, nil
}
