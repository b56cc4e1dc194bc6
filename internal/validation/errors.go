package validation

import "github.com/tordrt/schemacheck/internal/schema"

// SchemaErrors mirrors a schema: one record per model, keyed by model id
type SchemaErrors struct {
	Name   ErrorKind              `json:"name,omitempty"`
	Models map[string]ModelErrors `json:"models"`
}

// ModelErrors holds the findings for one model and its children
type ModelErrors struct {
	Name         ErrorKind                    `json:"name,omitempty"`
	TableName    ErrorKind                    `json:"tableName,omitempty"`
	Fields       map[string]FieldErrors       `json:"fields"`
	Associations map[string]AssociationErrors `json:"associations"`
}

// FieldErrors holds the findings for one field
type FieldErrors struct {
	Name ErrorKind `json:"name,omitempty"`
}

// AssociationErrors holds the findings for one association
type AssociationErrors struct {
	Alias            ErrorKind `json:"alias,omitempty"`
	ForeignKey       ErrorKind `json:"foreignKey,omitempty"`
	TargetForeignKey ErrorKind `json:"targetForeignKey,omitempty"`
	ThroughTable     ErrorKind `json:"throughTable,omitempty"`
}

// IsEmpty reports whether neither the schema nor any of its models has errors
func (e SchemaErrors) IsEmpty() bool {
	if e.Name != NoError {
		return false
	}
	for _, m := range e.Models {
		if !m.IsEmpty() {
			return false
		}
	}
	return true
}

// HasErrors is the negation of IsEmpty
func (e SchemaErrors) HasErrors() bool {
	return !e.IsEmpty()
}

// Count returns the number of reported violations in the whole tree
func (e SchemaErrors) Count() int {
	n := countKinds(e.Name)
	for _, m := range e.Models {
		n += m.Count()
	}
	return n
}

func (e ModelErrors) IsEmpty() bool {
	return e.Count() == 0
}

func (e ModelErrors) Count() int {
	n := countKinds(e.Name, e.TableName)
	for _, f := range e.Fields {
		n += f.Count()
	}
	for _, a := range e.Associations {
		n += a.Count()
	}
	return n
}

func (e FieldErrors) IsEmpty() bool { return e.Name == NoError }

func (e FieldErrors) Count() int { return countKinds(e.Name) }

func (e AssociationErrors) IsEmpty() bool { return e.Count() == 0 }

func (e AssociationErrors) Count() int {
	return countKinds(e.Alias, e.ForeignKey, e.TargetForeignKey, e.ThroughTable)
}

func countKinds(kinds ...ErrorKind) int {
	n := 0
	for _, k := range kinds {
		if k != NoError {
			n++
		}
	}
	return n
}

// Entity names the part of a schema an Issue points at
type Entity string

const (
	EntitySchema      Entity = "schema"
	EntityModel       Entity = "model"
	EntityField       Entity = "field"
	EntityAssociation Entity = "association"
)

// Issue is one violation flattened out of the error tree
type Issue struct {
	Entity    Entity    `json:"entity"`
	ModelID   string    `json:"modelId,omitempty"`
	ModelName string    `json:"modelName,omitempty"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Attribute string    `json:"attribute"`
	Kind      ErrorKind `json:"kind"`
}

// Issues lists the violations of e in the display order of s
func (e SchemaErrors) Issues(s *schema.Schema) []Issue {
	var issues []Issue
	byID := s.ModelByID()

	if e.Name != NoError {
		issues = append(issues, Issue{Entity: EntitySchema, ID: s.ID, Name: s.Name, Attribute: "name", Kind: e.Name})
	}

	for _, model := range s.Models {
		me, ok := e.Models[model.ID]
		if !ok {
			continue
		}

		add := func(entity Entity, id, name, attr string, kind ErrorKind) {
			if kind == NoError {
				return
			}
			issues = append(issues, Issue{
				Entity:    entity,
				ModelID:   model.ID,
				ModelName: model.Name,
				ID:        id,
				Name:      name,
				Attribute: attr,
				Kind:      kind,
			})
		}

		add(EntityModel, model.ID, model.Name, "name", me.Name)
		add(EntityModel, model.ID, model.Name, "tableName", me.TableName)

		for _, field := range model.Fields {
			add(EntityField, field.ID, field.Name, "name", me.Fields[field.ID].Name)
		}

		for _, assoc := range model.Associations {
			ae := me.Associations[assoc.ID]
			label := assoc.Alias
			if label == "" {
				label = assoc.TargetModelID
				if target, ok := byID[assoc.TargetModelID]; ok {
					label = target.Name
				}
			}
			add(EntityAssociation, assoc.ID, label, "alias", ae.Alias)
			add(EntityAssociation, assoc.ID, label, "foreignKey", ae.ForeignKey)
			add(EntityAssociation, assoc.ID, label, "targetForeignKey", ae.TargetForeignKey)
			add(EntityAssociation, assoc.ID, label, "throughTable", ae.ThroughTable)
		}
	}

	return issues
}
