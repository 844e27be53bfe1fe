// Package schema defines the intake form definition model: an ordered list of
// sections, each holding ordered fields of a closed set of kinds. Definitions
// arrive as JSON or YAML written by agents; Parse decodes, normalises the
// legacy alias spellings into canonical fields, and validates the result so
// downstream consumers never re-check both spellings.
package schema

// FieldType enumerates the supported field kinds. The set is closed: renderers
// and the client runtime switch exhaustively over these values.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeContent  FieldType = "content"
	FieldTypeFile     FieldType = "file"
)

// FieldTypes lists every known field kind in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeCheckbox,
		FieldTypeContent,
		FieldTypeFile,
	}
}

// Known reports whether t names a supported field kind.
func (t FieldType) Known() bool {
	switch t {
	case FieldTypeText, FieldTypeTextarea, FieldTypeSelect, FieldTypeCheckbox, FieldTypeContent, FieldTypeFile:
		return true
	default:
		return false
	}
}

// FormDefinition is the top-level shape of an intake form.
type FormDefinition struct {
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sections    []Section `json:"sections" yaml:"sections"`
}

// Section groups related fields under an optional heading. "title" is a legacy
// alias for "heading"; Normalize folds it into Heading.
type Section struct {
	Heading     string  `json:"heading,omitempty" yaml:"heading,omitempty"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Field models a single form control. "id" aliases "name" and "default"
// aliases "value"; Normalize resolves both so consumers read Name and Value
// only. Name keys the field in submitted data and must be unique across the
// definition (content blocks excepted, they submit nothing). For file fields
// Name also acts as the grouping key for uploads; uploads are never stored as
// scalar values.
type Field struct {
	Label       string    `json:"label" yaml:"label"`
	Type        FieldType `json:"type" yaml:"type"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty"`
	Default     string    `json:"default,omitempty" yaml:"default,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Accept      string    `json:"accept,omitempty" yaml:"accept,omitempty"`
	Category    string    `json:"category,omitempty" yaml:"category,omitempty"`
}

// HasFileFields reports whether any field in the definition is a file field.
// Renderers use it to decide whether the emitted client runtime needs upload
// handling at all.
func (d FormDefinition) HasFileFields() bool {
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			if field.Type == FieldTypeFile {
				return true
			}
		}
	}
	return false
}

// FieldByName returns the first field whose canonical name matches. It assumes
// a normalized definition.
func (d FormDefinition) FieldByName(name string) (Field, bool) {
	if name == "" {
		return Field{}, false
	}
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}
