package registry

import (
	"sort"
	"time"
)

// SchemaField is one descriptor annotated with its value at generation
// time. The schema is a snapshot, not a live view.
type SchemaField struct {
	FieldDescriptor
	Value interface{} `json:"value"`
}

// SchemaCategory groups fields under one category name, in field order.
type SchemaCategory struct {
	Name   string        `json:"name"`
	Fields []SchemaField `json:"fields"`
}

// Schema is the full descriptor list ordered by Order plus the
// category grouping, generated on demand for the web UI.
type Schema struct {
	Fields      []SchemaField    `json:"fields"`
	Categories  []SchemaCategory `json:"categories"`
	GeneratedAt int64            `json:"generatedAt"` // unix milliseconds
}

// GenerateSchema builds a schema snapshot with current values.
func (r *Registry) GenerateSchema() *Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := make([]SchemaField, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		fields = append(fields, SchemaField{
			FieldDescriptor: *d,
			Value:           r.values[d.Path],
		})
	}
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})

	var categories []SchemaCategory
	index := make(map[string]int)
	for _, f := range fields {
		i, ok := index[f.Category]
		if !ok {
			i = len(categories)
			index[f.Category] = i
			categories = append(categories, SchemaCategory{Name: f.Category})
		}
		categories[i].Fields = append(categories[i].Fields, f)
	}

	return &Schema{
		Fields:      fields,
		Categories:  categories,
		GeneratedAt: time.Now().UnixMilli(),
	}
}
