// Package task adapts the record gateway's task collection to entity.Task.
package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

// Repository reads and writes tasks through a gateway
type Repository struct {
	gw  gateway.Gateway
	log *zap.Logger
	now func() time.Time
}

// NewRepository creates a task repository over gw. A nil clock means time.Now.
func NewRepository(gw gateway.Gateway, log *zap.Logger, clock func() time.Time) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Repository{gw: gw, log: log, now: clock}
}

var newestFirst = []gateway.OrderBy{gateway.Desc(gateway.TaskCreatedAt)}

// GetAll returns every task, newest first
func (r *Repository) GetAll(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, "fetch tasks", gateway.QueryParams{})
}

// GetActive returns tasks that are not archived, newest first
func (r *Repository) GetActive(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, "fetch active tasks", gateway.QueryParams{
		Where: []gateway.Where{gateway.Eq(gateway.TaskArchived, false)},
	})
}

// GetArchived returns archived tasks, newest first
func (r *Repository) GetArchived(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, "fetch archived tasks", gateway.QueryParams{
		Where: []gateway.Where{gateway.Eq(gateway.TaskArchived, true)},
	})
}

// GetByCategory returns the active tasks of one category, newest first
func (r *Repository) GetByCategory(ctx context.Context, category string) ([]entity.Task, error) {
	return r.list(ctx, "fetch tasks by category", gateway.QueryParams{
		Where: []gateway.Where{
			gateway.Eq(gateway.TaskCategory, category),
			gateway.Eq(gateway.TaskArchived, false),
		},
	})
}

// Search returns active tasks whose title or description contains query, ignoring case
func (r *Repository) Search(ctx context.Context, query string) ([]entity.Task, error) {
	params := gateway.QueryParams{
		Where: []gateway.Where{gateway.Eq(gateway.TaskArchived, false)},
	}
	if query != "" {
		params.WhereGroups = []gateway.WhereGroup{
			gateway.AnyOf(gateway.Like(gateway.TaskTitle, query), gateway.Like(gateway.TaskDescription, query)),
		}
	}
	return r.list(ctx, "search tasks", params)
}

// GetByID returns one task or domain.ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id int64) (entity.Task, error) {
	resp, err := r.gw.GetRecordByID(ctx, gateway.CollectionTask, id, gateway.QueryParams{Fields: fields})
	rec, err := gateway.One("fetch task", resp, err)
	if err != nil {
		r.log.Error("Failed to fetch task", zap.Int64("task_id", id), zap.Error(err))
		return entity.Task{}, err
	}
	if rec == nil {
		return entity.Task{}, domain.NotFound("task", id)
	}
	return fromRecord(rec)
}

// Create stores a new pending, active task and returns it with its id
func (r *Repository) Create(ctx context.Context, d entity.TaskDraft) (entity.Task, error) {
	t := entity.NewTask(d, r.now())

	resp, err := r.gw.CreateRecord(ctx, gateway.CollectionTask, gateway.WriteRequest{
		Records: []gateway.Record{gateway.TaskSchema.Sanitize(toRecord(t), false)},
	})
	return r.written(ctx, "create task", resp, err)
}

// Update merges p into the stored task. Completion timestamps follow entity.Task.Apply.
func (r *Repository) Update(ctx context.Context, id int64, p entity.TaskPatch) (entity.Task, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return entity.Task{}, err
	}

	next := current.Apply(p, r.now())
	resp, err := r.gw.UpdateRecord(ctx, gateway.CollectionTask, gateway.WriteRequest{
		Records: []gateway.Record{gateway.TaskSchema.Sanitize(toRecord(next), true)},
	})
	return r.written(ctx, "update task", resp, err)
}

// Delete removes a task permanently
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	resp, err := r.gw.DeleteRecord(ctx, gateway.CollectionTask, gateway.DeleteRequest{RecordIDs: []int64{id}})
	if err := gateway.Deleted("delete task", resp, err); err != nil {
		r.log.Error("Failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		return err
	}

	r.log.Debug("Task deleted", zap.Int64("task_id", id))
	return nil
}

// MarkComplete sets completed=true
func (r *Repository) MarkComplete(ctx context.Context, id int64) (entity.Task, error) {
	return r.Update(ctx, id, entity.TaskPatch{Completed: entity.Bool(true)})
}

// MarkIncomplete sets completed=false
func (r *Repository) MarkIncomplete(ctx context.Context, id int64) (entity.Task, error) {
	return r.Update(ctx, id, entity.TaskPatch{Completed: entity.Bool(false)})
}

// Archive sets archived=true
func (r *Repository) Archive(ctx context.Context, id int64) (entity.Task, error) {
	return r.Update(ctx, id, entity.TaskPatch{Archived: entity.Bool(true)})
}

func (r *Repository) list(ctx context.Context, action string, params gateway.QueryParams) ([]entity.Task, error) {
	params.Fields = fields
	params.OrderBy = newestFirst

	resp, err := r.gw.FetchRecords(ctx, gateway.CollectionTask, params)
	records, err := gateway.Records(action, resp, err)
	if err != nil {
		r.log.Error("Failed to "+action, zap.Error(err))
		return nil, err
	}

	tasks := make([]entity.Task, 0, len(records))
	for _, rec := range records {
		t, err := fromRecord(rec)
		if err != nil {
			r.log.Error("Failed to decode task record", zap.String("action", action), zap.Error(err))
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *Repository) written(ctx context.Context, action string, resp *gateway.WriteResponse, err error) (entity.Task, error) {
	rec, partial, err := gateway.FirstWritten(action, resp, err)
	if err != nil {
		r.log.Error("Failed to "+action, zap.Error(err))
		return entity.Task{}, err
	}
	if partial != nil {
		for _, f := range partial.Failed {
			r.log.Warn("Task write partially rejected",
				zap.String("action", action),
				zap.Int("index", f.Index),
				zap.String("reason", f.Message))
		}
	}
	return fromRecord(rec)
}
