package schema

import (
	"fmt"
	"strings"
)

const (
	defaultFileCategory = "photo"
	defaultFileAccept   = "image/*"
)

// Normalize resolves alias spellings into their canonical fields and applies
// per-kind defaults. Section "title" folds into Heading, field "id" into Name
// and "default" into Value; the alias slots are cleared so serialising a
// normalized definition round-trips canonically. File fields gain their
// default category and accept pattern. Normalize is idempotent.
func (d *FormDefinition) Normalize() {
	for si := range d.Sections {
		section := &d.Sections[si]
		if section.Heading == "" {
			section.Heading = section.Title
		}
		section.Title = ""

		for fi := range section.Fields {
			field := &section.Fields[fi]
			if field.Name == "" {
				field.Name = field.ID
			}
			field.ID = ""
			if field.Value == "" {
				field.Value = field.Default
			}
			field.Default = ""

			if field.Type == FieldTypeFile {
				if strings.TrimSpace(field.Category) == "" {
					field.Category = defaultFileCategory
				}
				if strings.TrimSpace(field.Accept) == "" {
					field.Accept = defaultFileAccept
				}
			}
		}
	}
}

// Validate checks a normalized definition against the model invariants:
// every field kind must be known, every non-content field needs a name, names
// must be unique across the whole definition, and select/checkbox fields need
// at least one option.
func (d FormDefinition) Validate() error {
	seen := make(map[string]string, 16)
	for si, section := range d.Sections {
		for fi, field := range section.Fields {
			at := fmt.Sprintf("section %d field %d", si, fi)
			if field.Label != "" {
				at = fmt.Sprintf("%s (%q)", at, field.Label)
			}

			if !field.Type.Known() {
				return fmt.Errorf("schema: %s: unknown field type %q", at, field.Type)
			}
			if field.Type == FieldTypeContent {
				continue
			}
			if strings.TrimSpace(field.Name) == "" {
				return fmt.Errorf("schema: %s: field of type %q needs a name", at, field.Type)
			}
			if prev, dup := seen[field.Name]; dup {
				return fmt.Errorf("schema: %s: duplicate field name %q (first used at %s)", at, field.Name, prev)
			}
			seen[field.Name] = at

			if (field.Type == FieldTypeSelect || field.Type == FieldTypeCheckbox) && len(field.Options) == 0 {
				return fmt.Errorf("schema: %s: %s field %q has no options", at, field.Type, field.Name)
			}
		}
	}
	return nil
}
