// Package board holds the task board: the loaded tasks and categories, the
// filter pipeline, the editor dialog and the mutations users trigger from it.
//
// The controller is shared by every delivery surface. Mutations are pessimistic:
// local state changes only after the store confirms, and each outcome produces
// exactly one notification.
package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"taskflow/domain"
	"taskflow/domain/entity"
)

// TaskStore is the task persistence the board needs
type TaskStore interface {
	GetActive(ctx context.Context) ([]entity.Task, error)
	GetArchived(ctx context.Context) ([]entity.Task, error)
	Create(ctx context.Context, d entity.TaskDraft) (entity.Task, error)
	Update(ctx context.Context, id int64, p entity.TaskPatch) (entity.Task, error)
	Delete(ctx context.Context, id int64) error
	Archive(ctx context.Context, id int64) (entity.Task, error)
}

// CategoryStore is the category persistence the board needs
type CategoryStore interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	UpdateTaskCount(ctx context.Context, name string, count int) (*entity.Category, error)
}

// ErrNotEditing is returned by Update when no task is open in the editor
var ErrNotEditing = fmt.Errorf("no task is being edited: %w", domain.ErrBadParamInput)

type state struct {
	tasks        []entity.Task
	categories   []entity.Category
	filtered     []entity.Task
	filters      Filters
	showArchived bool
	loading      bool
	editing      *entity.Task
	modalOpen    bool
	loaded       bool
}

// Controller owns the board state
type Controller struct {
	tasks      TaskStore
	categories CategoryStore
	notifier   Notifier
	log        *zap.Logger
	now        func() time.Time

	mu    sync.Mutex
	state state
	seq   uint64

	subs    map[int]func(Snapshot)
	nextSub int

	// held while observers run so snapshots reach them in commit order
	publishMu sync.Mutex
}

// Option configures a Controller
type Option func(*Controller)

// WithClock overrides the clock used for due-date labels and form defaults
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New creates a board over the two stores. A nil notifier logs notifications.
func New(tasks TaskStore, categories CategoryStore, notifier Notifier, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier(log)
	}
	c := &Controller{
		tasks:      tasks,
		categories: categories,
		notifier:   notifier,
		log:        log,
		now:        time.Now,
		state:      state{filters: DefaultFilters()},
		subs:       make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs synchronously and must not call back into the controller's mutations.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load fetches the tasks of the current view and all categories concurrently.
// On failure the previous state is kept and one notification is sent. A load
// overtaken by a newer one is discarded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	token := c.seq
	archived := c.state.showArchived
	c.state.loading = true
	c.publishLocked()

	var (
		wg         sync.WaitGroup
		tasks      []entity.Task
		categories []entity.Category
		taskErr    error
		catErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		if archived {
			tasks, taskErr = c.tasks.GetArchived(ctx)
		} else {
			tasks, taskErr = c.tasks.GetActive(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		categories, catErr = c.categories.GetAll(ctx)
	}()
	wg.Wait()

	err := multierr.Combine(taskErr, catErr)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		c.log.Debug("Discarding stale board load", zap.Uint64("token", token))
		return nil
	}
	c.state.loading = false
	if err == nil {
		c.state.tasks = tasks
		c.state.categories = categories
		c.state.loaded = true
	}
	c.publishLocked()

	if err != nil {
		c.log.Error("Failed to load board", zap.Bool("archived", archived), zap.Error(err))
		c.notify(LevelError, MsgLoadFailed)
		return err
	}

	c.log.Debug("Board loaded",
		zap.Bool("archived", archived),
		zap.Int("tasks", len(tasks)),
		zap.Int("categories", len(categories)))
	return nil
}

// SetShowArchived switches between the active and archived views and reloads
func (c *Controller) SetShowArchived(ctx context.Context, show bool) error {
	c.mu.Lock()
	if c.state.showArchived == show && c.state.loaded {
		c.mu.Unlock()
		return nil
	}
	c.state.showArchived = show
	c.mu.Unlock()

	return c.Load(ctx)
}

// SetFilters replaces every filter at once. Invalid filters leave the
// current ones in place.
func (c *Controller) SetFilters(f Filters) error {
	if err := f.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.state.filters = f.Normalize()
	c.publishLocked()
	return nil
}

// SetSearch sets the free-text filter
func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	c.state.filters.Search = q
	c.publishLocked()
}

// SetCategory sets the category filter; All clears it
func (c *Controller) SetCategory(name string) {
	c.mu.Lock()
	c.state.filters.Category = name
	c.state.filters = c.state.filters.Normalize()
	c.publishLocked()
}

// SetPriority sets the priority filter; All clears it
func (c *Controller) SetPriority(p string) error {
	c.mu.Lock()
	next := c.state.filters
	next.Priority = p
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.filters = next.Normalize()
	c.publishLocked()
	return nil
}

// SetStatus sets the completion filter
func (c *Controller) SetStatus(s Status) error {
	c.mu.Lock()
	next := c.state.filters
	next.Status = s
	if err := next.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state.filters = next.Normalize()
	c.publishLocked()
	return nil
}

// OpenCreate opens the editor for a new task
func (c *Controller) OpenCreate() {
	c.mu.Lock()
	c.state.editing = nil
	c.state.modalOpen = true
	c.publishLocked()
}

// OpenEdit opens the editor on a loaded task
func (c *Controller) OpenEdit(id int64) error {
	c.mu.Lock()
	i := indexOf(c.state.tasks, id)
	if i < 0 {
		c.mu.Unlock()
		return domain.NotFound("task", id)
	}
	t := c.state.tasks[i]
	c.state.editing = &t
	c.state.modalOpen = true
	c.publishLocked()
	return nil
}

// CloseModal closes the editor and forgets the task being edited
func (c *Controller) CloseModal() {
	c.mu.Lock()
	c.state.modalOpen = false
	c.state.editing = nil
	c.publishLocked()
}

// Submit validates the form and creates or updates depending on the editor state
func (c *Controller) Submit(ctx context.Context, f Form) (entity.Task, error) {
	c.mu.Lock()
	editing := c.state.editing != nil
	c.mu.Unlock()

	if editing {
		return c.Update(ctx, f)
	}
	return c.Create(ctx, f)
}

// Create validates the form and stores a new task
func (c *Controller) Create(ctx context.Context, f Form) (entity.Task, error) {
	d, err := c.validate(f)
	if err != nil {
		return entity.Task{}, err
	}

	created, err := c.tasks.Create(ctx, d)
	if err != nil {
		c.log.Error("Failed to create task", zap.String("title", d.Title), zap.Error(err))
		c.notify(LevelError, MsgCreateFailed)
		return entity.Task{}, err
	}

	c.mu.Lock()
	if created.Archived == c.state.showArchived {
		c.state.tasks = append([]entity.Task{created}, c.state.tasks...)
	}
	c.state.modalOpen = false
	c.state.editing = nil
	c.publishLocked()

	c.notify(LevelSuccess, MsgCreated)
	return created, nil
}

// Update validates the form and writes it over the task open in the editor
func (c *Controller) Update(ctx context.Context, f Form) (entity.Task, error) {
	c.mu.Lock()
	if c.state.editing == nil {
		c.mu.Unlock()
		return entity.Task{}, ErrNotEditing
	}
	id := c.state.editing.ID
	c.mu.Unlock()

	d, err := c.validate(f)
	if err != nil {
		return entity.Task{}, err
	}

	updated, err := c.tasks.Update(ctx, id, patch(d))
	if err != nil {
		c.log.Error("Failed to update task", zap.Int64("task_id", id), zap.Error(err))
		c.notify(LevelError, MsgUpdateFailed)
		return entity.Task{}, err
	}

	c.mu.Lock()
	c.replaceLocked(updated)
	c.state.modalOpen = false
	c.state.editing = nil
	c.publishLocked()

	c.notify(LevelSuccess, MsgUpdated)
	return updated, nil
}

// validate checks the form against the loaded categories
func (c *Controller) validate(f Form) (entity.TaskDraft, error) {
	c.mu.Lock()
	categories := c.state.categories
	c.mu.Unlock()
	return f.ValidateFor(categories)
}

// ToggleComplete sets a task's completion
func (c *Controller) ToggleComplete(ctx context.Context, id int64, completed bool) (entity.Task, error) {
	updated, err := c.tasks.Update(ctx, id, entity.TaskPatch{Completed: entity.Bool(completed)})
	if err != nil {
		c.log.Error("Failed to toggle task", zap.Int64("task_id", id), zap.Bool("completed", completed), zap.Error(err))
		c.notify(LevelError, MsgUpdateFailed)
		return entity.Task{}, err
	}

	c.mu.Lock()
	c.replaceLocked(updated)
	c.publishLocked()

	if completed {
		c.notify(LevelSuccess, MsgCompleted)
	} else {
		c.notify(LevelSuccess, MsgReopened)
	}
	return updated, nil
}

// Delete removes a task permanently
func (c *Controller) Delete(ctx context.Context, id int64) error {
	if err := c.tasks.Delete(ctx, id); err != nil {
		c.log.Error("Failed to delete task", zap.Int64("task_id", id), zap.Error(err))
		c.notify(LevelError, MsgDeleteFailed)
		return err
	}

	c.mu.Lock()
	c.removeLocked(id)
	c.publishLocked()

	c.notify(LevelSuccess, MsgDeleted)
	return nil
}

// Archive moves a task out of the active view
func (c *Controller) Archive(ctx context.Context, id int64) (entity.Task, error) {
	archived, err := c.tasks.Archive(ctx, id)
	if err != nil {
		c.log.Error("Failed to archive task", zap.Int64("task_id", id), zap.Error(err))
		c.notify(LevelError, MsgArchiveFailed)
		return entity.Task{}, err
	}

	c.mu.Lock()
	c.removeLocked(id)
	c.publishLocked()

	c.notify(LevelSuccess, MsgArchived)
	return archived, nil
}

// SyncCategoryCounts stores the number of active tasks on each category.
// It reads from the stores directly, so the result does not depend on the view.
func (c *Controller) SyncCategoryCounts(ctx context.Context) (int, error) {
	active, err := c.tasks.GetActive(ctx)
	if err != nil {
		return 0, err
	}
	categories, err := c.categories.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	counts := countByCategory(active)
	var errs error
	updated := 0
	for _, cat := range categories {
		n := counts[cat.Name]
		if n == cat.TaskCount {
			continue
		}
		if _, err := c.categories.UpdateTaskCount(ctx, cat.Name, n); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("category %q: %w", cat.Name, err))
			continue
		}
		updated++
	}

	if errs != nil {
		c.log.Error("Failed to sync category counts", zap.Int("updated", updated), zap.Error(errs))
	}
	return updated, errs
}

func (c *Controller) notify(level Level, msg string) {
	c.notifier.Notify(Notification{Level: level, Message: msg})
}

// publishLocked recomputes the derived state, releases c.mu and hands the
// snapshot to every observer. The caller must hold c.mu.
func (c *Controller) publishLocked() {
	c.state.filtered = Apply(c.state.tasks, c.state.filters)
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}

	c.publishMu.Lock()
	c.mu.Unlock()
	defer c.publishMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.state
	now := c.now()

	sorted := SortForDisplay(s.filtered)
	views := make([]TaskView, len(sorted))
	for i, t := range sorted {
		views[i] = viewTask(t, now)
	}

	categories, total := viewCategories(s.categories, s.tasks)

	snap := Snapshot{
		Tasks:        views,
		Categories:   categories,
		Filters:      s.filters,
		ShowArchived: s.showArchived,
		Loading:      s.loading,
		ModalOpen:    s.modalOpen,
		HasFilters:   s.filters.Active(),
		TotalTasks:   total,
		Loaded:       len(s.tasks),
	}
	if s.editing != nil {
		t := *s.editing
		snap.Editing = &t
	}
	if s.modalOpen {
		var f Form
		if s.editing != nil {
			f = FormFromTask(*s.editing)
		} else {
			f = NewForm(now)
		}
		snap.Form = &f
	}
	return snap
}

func (c *Controller) replaceLocked(t entity.Task) {
	if i := indexOf(c.state.tasks, t.ID); i >= 0 {
		next := make([]entity.Task, len(c.state.tasks))
		copy(next, c.state.tasks)
		next[i] = t
		c.state.tasks = next
	}
}

func (c *Controller) removeLocked(id int64) {
	next := make([]entity.Task, 0, len(c.state.tasks))
	for _, t := range c.state.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	c.state.tasks = next
}

func indexOf(tasks []entity.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
