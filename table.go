package lexcalc

// Table is an ordered symbol table mapping unique names to values through
// stable zero-based indices. Tables only grow: once a name has an index, that
// index refers to the same name for the life of the table. It is not safe to
// modify a Table concurrently with any other use.
type Table[T any] struct {
	index map[string]int
	names []string
	vals  []T
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{index: make(map[string]int)}
}

// IsDefined returns whether name has an entry.
func (t *Table[T]) IsDefined(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Get returns the value for name.
func (t *Table[T]) Get(name string) (T, bool) {
	i, ok := t.index[name]
	if !ok {
		var zero T
		return zero, false
	}
	return t.vals[i], true
}

// Index returns the index for name.
func (t *Table[T]) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// At returns the value at index i. Panics if i is out of range.
func (t *Table[T]) At(i int) T {
	return t.vals[i]
}

// Name returns the name at index i. Panics if i is out of range.
func (t *Table[T]) Name(i int) string {
	return t.names[i]
}

// Assign sets the value for name, allocating a new index if name is new.
// Returns the index.
func (t *Table[T]) Assign(name string, v T) int {
	if i, ok := t.index[name]; ok {
		t.vals[i] = v
		return i
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	i := len(t.names)
	t.index[name] = i
	t.names = append(t.names, name)
	t.vals = append(t.vals, v)
	return i
}

// Names returns the names in the table in insertion order.
func (t *Table[T]) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.names)
}
