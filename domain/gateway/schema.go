package gateway

// Kind is the storage type of a field
type Kind int

const (
	KindInt Kind = iota
	KindString
	KindBool
	KindTime
)

// Field describes one persisted field of a collection
type Field struct {
	Name     string
	Kind     Kind
	Writable bool
}

// Schema lists the fields a collection accepts
type Schema struct {
	Collection string
	Fields     []Field
}

// Task persisted fields
const (
	TaskTitle       = "title"
	TaskDescription = "description"
	TaskCategory    = "category"
	TaskPriority    = "priority"
	TaskDueDate     = "due_date"
	TaskCompleted   = "completed"
	TaskArchived    = "archived"
	TaskCreatedAt   = "created_at"
	TaskCompletedAt = "completed_at"
)

// Category persisted fields
const (
	CategoryColor     = "color"
	CategoryTaskCount = "task_count"
)

// Generic metadata carried by every collection
const (
	FieldName       = "Name"
	FieldTags       = "Tags"
	FieldOwner      = "Owner"
	FieldCreatedOn  = "CreatedOn"
	FieldModifiedOn = "ModifiedOn"
)

var metadataFields = []Field{
	{Name: FieldID, Kind: KindInt},
	{Name: FieldName, Kind: KindString, Writable: true},
	{Name: FieldTags, Kind: KindString, Writable: true},
	{Name: FieldOwner, Kind: KindString},
	{Name: FieldCreatedOn, Kind: KindTime},
	{Name: FieldModifiedOn, Kind: KindTime},
}

// TaskSchema is the persisted shape of the task collection
var TaskSchema = Schema{
	Collection: CollectionTask,
	Fields: append(append([]Field{}, metadataFields...),
		Field{Name: TaskTitle, Kind: KindString, Writable: true},
		Field{Name: TaskDescription, Kind: KindString, Writable: true},
		Field{Name: TaskCategory, Kind: KindString, Writable: true},
		Field{Name: TaskPriority, Kind: KindString, Writable: true},
		Field{Name: TaskDueDate, Kind: KindString, Writable: true},
		Field{Name: TaskCompleted, Kind: KindBool, Writable: true},
		Field{Name: TaskArchived, Kind: KindBool, Writable: true},
		Field{Name: TaskCreatedAt, Kind: KindTime, Writable: true},
		Field{Name: TaskCompletedAt, Kind: KindTime, Writable: true},
	),
}

// CategorySchema is the persisted shape of the category collection.
// The category name lives in the generic Name field.
var CategorySchema = Schema{
	Collection: CollectionCategory,
	Fields: append(append([]Field{}, metadataFields...),
		Field{Name: CategoryColor, Kind: KindString, Writable: true},
		Field{Name: CategoryTaskCount, Kind: KindInt, Writable: true},
	),
}

var schemas = map[string]Schema{
	CollectionTask:     TaskSchema,
	CollectionCategory: CategorySchema,
}

// SchemaFor returns the schema of a known collection
func SchemaFor(collection string) (Schema, bool) {
	s, ok := schemas[collection]
	return s, ok
}

// Lookup returns the named field
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Writable reports whether callers may set the field
func (s Schema) Writable(name string) bool {
	f, ok := s.Lookup(name)
	return ok && f.Writable
}

// Sanitize drops the fields callers may not write. The id is kept when keepID is set.
func (s Schema) Sanitize(r Record, keepID bool) Record {
	out := make(Record, len(r))
	for k, v := range r {
		if k == FieldID {
			if keepID {
				out[k] = v
			}
			continue
		}
		if s.Writable(k) {
			out[k] = v
		}
	}
	return out
}
