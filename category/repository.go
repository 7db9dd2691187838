// Package category adapts the record gateway's category collection to entity.Category.
package category

import (
	"context"

	"go.uber.org/zap"

	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

// Repository reads and writes categories through a gateway
type Repository struct {
	gw  gateway.Gateway
	log *zap.Logger
}

// NewRepository creates a category repository over gw
func NewRepository(gw gateway.Gateway, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{gw: gw, log: log}
}

// GetAll returns every category ordered by name
func (r *Repository) GetAll(ctx context.Context) ([]entity.Category, error) {
	resp, err := r.gw.FetchRecords(ctx, gateway.CollectionCategory, gateway.QueryParams{
		Fields:  fields,
		OrderBy: []gateway.OrderBy{gateway.Asc(gateway.FieldName)},
	})
	records, err := gateway.Records("fetch categories", resp, err)
	if err != nil {
		r.log.Error("Failed to fetch categories", zap.Error(err))
		return nil, err
	}

	out := make([]entity.Category, 0, len(records))
	for _, rec := range records {
		c, err := fromRecord(rec)
		if err != nil {
			r.log.Error("Failed to decode category record", zap.Error(err))
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// GetByID returns one category or domain.ErrNotFound
func (r *Repository) GetByID(ctx context.Context, id int64) (entity.Category, error) {
	resp, err := r.gw.GetRecordByID(ctx, gateway.CollectionCategory, id, gateway.QueryParams{Fields: fields})
	rec, err := gateway.One("fetch category", resp, err)
	if err != nil {
		r.log.Error("Failed to fetch category", zap.Int64("category_id", id), zap.Error(err))
		return entity.Category{}, err
	}
	if rec == nil {
		return entity.Category{}, domain.NotFound("category", id)
	}
	return fromRecord(rec)
}

// Create stores a new category with a zero task count
func (r *Repository) Create(ctx context.Context, d entity.CategoryDraft) (entity.Category, error) {
	c := entity.Category{Name: d.Name, Color: d.Color}
	resp, err := r.gw.CreateRecord(ctx, gateway.CollectionCategory, gateway.WriteRequest{
		Records: []gateway.Record{gateway.CategorySchema.Sanitize(toRecord(c), false)},
	})
	return r.written("create category", resp, err)
}

// Update merges p into the stored category
func (r *Repository) Update(ctx context.Context, id int64, p entity.CategoryPatch) (entity.Category, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return entity.Category{}, err
	}

	resp, err := r.gw.UpdateRecord(ctx, gateway.CollectionCategory, gateway.WriteRequest{
		Records: []gateway.Record{gateway.CategorySchema.Sanitize(toRecord(current.Apply(p)), true)},
	})
	return r.written("update category", resp, err)
}

// Delete removes a category. Tasks referencing it keep the name.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}

	resp, err := r.gw.DeleteRecord(ctx, gateway.CollectionCategory, gateway.DeleteRequest{RecordIDs: []int64{id}})
	if err := gateway.Deleted("delete category", resp, err); err != nil {
		r.log.Error("Failed to delete category", zap.Int64("category_id", id), zap.Error(err))
		return err
	}
	return nil
}

// UpdateTaskCount stores count on the category called name.
// An unknown name is not an error: it returns (nil, nil).
func (r *Repository) UpdateTaskCount(ctx context.Context, name string, count int) (*entity.Category, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, c := range all {
		if c.Name != name {
			continue
		}
		updated, err := r.Update(ctx, c.ID, entity.CategoryPatch{TaskCount: &count})
		if err != nil {
			return nil, err
		}
		return &updated, nil
	}

	r.log.Debug("No category to update count for", zap.String("category", name))
	return nil, nil
}

func (r *Repository) written(action string, resp *gateway.WriteResponse, err error) (entity.Category, error) {
	rec, partial, err := gateway.FirstWritten(action, resp, err)
	if err != nil {
		r.log.Error("Failed to "+action, zap.Error(err))
		return entity.Category{}, err
	}
	if partial != nil {
		r.log.Warn("Category write partially rejected", zap.String("action", action), zap.Error(partial))
	}
	return fromRecord(rec)
}
