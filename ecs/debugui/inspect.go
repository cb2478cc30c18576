package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/plus3/flapper/ecs"
)

// FrameHistory is a ring of recent frame times in milliseconds.
type FrameHistory struct {
	Samples []float32
	next    int
	filled  int
}

func NewFrameHistory(n int) FrameHistory {
	return FrameHistory{Samples: make([]float32, max(n, 1))}
}

// Push records a frame that took dt seconds.
func (h *FrameHistory) Push(dt float64) {
	if len(h.Samples) == 0 {
		return
	}
	h.Samples[h.next] = float32(dt * 1000)
	h.next = (h.next + 1) % len(h.Samples)
	h.filled = min(h.filled+1, len(h.Samples))
}

// Average is the mean frame time in milliseconds over the recorded frames.
func (h *FrameHistory) Average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, s := range h.Samples[:h.filled] {
		sum += s
	}
	return sum / float32(h.filled)
}

func (h *FrameHistory) FPS() float32 {
	avg := h.Average()
	if avg == 0 {
		return 0
	}
	return 1000 / avg
}

// Selection is the entity picked in the entity window.
type Selection struct {
	Entity ecs.EntityId
	Filter string
}

// EntityRow is one line of the entity table.
type EntityRow struct {
	ID         ecs.EntityId
	Archetype  uint32
	Components []string
}

// ListEntities returns every live entity ordered by ID.
func ListEntities(storage *ecs.Storage) []EntityRow {
	var rows []EntityRow
	for _, archetype := range storage.Archetypes() {
		names := typeNames(archetype.Types())
		for id := range archetype.Iter() {
			rows = append(rows, EntityRow{ID: id, Archetype: archetype.ID(), Components: names})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// FilterEntities keeps the rows whose id, archetype or component names
// contain text, ignoring case.
func FilterEntities(rows []EntityRow, text string) []EntityRow {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return rows
	}
	var out []EntityRow
	for _, row := range rows {
		haystack := strings.ToLower(fmt.Sprintf("%d 0x%x %s", row.ID, row.Archetype, strings.Join(row.Components, " ")))
		if strings.Contains(haystack, text) {
			out = append(out, row)
		}
	}
	return out
}

func typeNames(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}

// Field is one editable value inside a component.
type Field struct {
	Name  string
	Value reflect.Value
}

// Fields returns the exported fields of the value ptr points at. Nested
// structs are flattened with dotted names. A non-struct component is a single
// field called "value".
func Fields(ptr any) []Field {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return []Field{{Name: "value", Value: v}}
	}
	return appendFields(nil, "", v)
}

func appendFields(out []Field, prefix string, v reflect.Value) []Field {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		fv := v.Field(i)
		name := prefix + sf.Name
		if fv.Kind() == reflect.Struct {
			out = appendFields(out, name+".", fv)
			continue
		}
		out = append(out, Field{Name: name, Value: fv})
	}
	return out
}
