package task

import (
	"fmt"

	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

// fields selected on every read
var fields = []string{
	gateway.TaskTitle,
	gateway.TaskDescription,
	gateway.TaskCategory,
	gateway.TaskPriority,
	gateway.TaskDueDate,
	gateway.TaskCompleted,
	gateway.TaskArchived,
	gateway.TaskCreatedAt,
	gateway.TaskCompletedAt,
}

// toRecord maps a task onto persisted field names. The generic Name field
// mirrors the title so the record reads sensibly in the store's own tooling.
func toRecord(t entity.Task) gateway.Record {
	r := gateway.Record{
		gateway.FieldName:       t.Title,
		gateway.TaskTitle:       t.Title,
		gateway.TaskDescription: t.Description,
		gateway.TaskCategory:    t.Category,
		gateway.TaskPriority:    string(t.Priority),
		gateway.TaskDueDate:     t.DueDate.String(),
		gateway.TaskCompleted:   t.Completed,
		gateway.TaskArchived:    t.Archived,
		gateway.TaskCreatedAt:   t.CreatedAt,
		gateway.TaskCompletedAt: nil,
	}
	if t.CompletedAt != nil {
		r[gateway.TaskCompletedAt] = *t.CompletedAt
	}
	if t.ID != 0 {
		r[gateway.FieldID] = t.ID
	}
	return r
}

// fromRecord is the inverse of toRecord
func fromRecord(r gateway.Record) (entity.Task, error) {
	id, ok := r.ID()
	if !ok {
		return entity.Task{}, fmt.Errorf("task record without Id: %w", domain.ErrGateway)
	}

	due, err := entity.ParseDate(r.String(gateway.TaskDueDate))
	if err != nil {
		return entity.Task{}, fmt.Errorf("task %d: %w: %v", id, domain.ErrGateway, err)
	}

	t := entity.Task{
		ID:          id,
		Title:       r.String(gateway.TaskTitle),
		Description: r.String(gateway.TaskDescription),
		Category:    r.String(gateway.TaskCategory),
		Priority:    entity.Priority(r.String(gateway.TaskPriority)),
		DueDate:     due,
		Completed:   r.Bool(gateway.TaskCompleted),
		Archived:    r.Bool(gateway.TaskArchived),
		CompletedAt: r.TimePtr(gateway.TaskCompletedAt),
	}
	if created, ok := r.Time(gateway.TaskCreatedAt); ok {
		t.CreatedAt = created
	}
	return t, nil
}
