package catalog

import (
	"strings"

	"github.com/tordrt/schemacheck/internal/schema"
)

var (
	timestampColumns  = map[string]bool{"created_at": true, "updated_at": true, "createdat": true, "updatedat": true}
	softDeleteColumns = map[string]bool{"deleted_at": true, "deletedat": true}
)

// ToSchema maps a catalog onto the editor's schema model. Tables become
// models, columns become fields and foreign keys become many-to-one
// associations. A table that only links two other tables becomes a pair of
// many-to-many associations through it instead of a model.
func ToSchema(c *Catalog) *schema.Schema {
	s := &schema.Schema{
		ID:     c.Name,
		Name:   c.Name,
		Models: make([]schema.Model, 0, len(c.Tables)),
	}

	var joins []*Table
	for i := range c.Tables {
		table := &c.Tables[i]
		if IsJoinTable(table) {
			joins = append(joins, table)
			continue
		}
		s.Models = append(s.Models, tableToModel(table))
	}

	for _, join := range joins {
		left, right := join.Relations[0], join.Relations[1]
		addAssociation(s, left.TargetTable, joinAssociation(join, left, right))
		addAssociation(s, right.TargetTable, joinAssociation(join, right, left))
	}

	return s
}

// IsJoinTable reports whether a table exists only to link two tables: it has
// exactly two foreign keys and every other column is a key or a timestamp.
func IsJoinTable(t *Table) bool {
	if len(t.Relations) != 2 {
		return false
	}

	fks := map[string]bool{
		t.Relations[0].SourceColumn: true,
		t.Relations[1].SourceColumn: true,
	}
	if len(fks) != 2 {
		return false
	}

	for _, col := range t.Columns {
		name := strings.ToLower(col.Name)
		switch {
		case fks[col.Name]:
		case timestampColumns[name]:
		case name == "id" && t.IsPrimaryKey(col.Name):
		default:
			return false
		}
	}
	return true
}

func tableToModel(t *Table) schema.Model {
	m := schema.Model{
		ID:           t.Name,
		Name:         t.Name,
		TableName:    t.Name,
		Fields:       make([]schema.Field, 0, len(t.Columns)),
		Associations: make([]schema.Association, 0, len(t.Relations)),
	}

	timestamps := 0
	for _, col := range t.Columns {
		name := strings.ToLower(col.Name)
		if timestampColumns[name] {
			timestamps++
		}
		if softDeleteColumns[name] {
			m.SoftDelete = true
		}

		m.Fields = append(m.Fields, schema.Field{
			ID:         t.Name + "." + col.Name,
			Name:       col.Name,
			Type:       schema.DataType{Type: strings.ToUpper(col.Type), Values: col.EnumValues},
			PrimaryKey: t.IsPrimaryKey(col.Name),
			Required:   !col.Nullable,
			Unique:     col.IsUnique,
			Default:    col.DefaultValue,
		})
	}
	m.Timestamps = timestamps >= 2

	for _, rel := range t.Relations {
		m.Associations = append(m.Associations, schema.Association{
			ID:            t.Name + "." + rel.SourceColumn,
			ForeignKey:    rel.SourceColumn,
			SourceModelID: t.Name,
			TargetModelID: rel.TargetTable,
			Type:          schema.ManyToOne{},
		})
	}

	return m
}

func joinAssociation(join *Table, from, to Relation) schema.Association {
	return schema.Association{
		ID:            join.Name + "." + from.SourceColumn,
		ForeignKey:    from.SourceColumn,
		SourceModelID: from.TargetTable,
		TargetModelID: to.TargetTable,
		Type: schema.ManyToMany{
			TargetFK: to.SourceColumn,
			Through:  schema.ThroughTable{Table: join.Name},
		},
	}
}

// addAssociation attaches a to the model with the given id. Associations
// whose owner was not extracted are dropped.
func addAssociation(s *schema.Schema, modelID string, a schema.Association) {
	for i := range s.Models {
		if s.Models[i].ID == modelID {
			s.Models[i].Associations = append(s.Models[i].Associations, a)
			return
		}
	}
}
