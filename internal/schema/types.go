package schema

// Schema represents a named collection of models authored in the editor
type Schema struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	CreatedAt  string  `json:"createdAt,omitempty"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
	ForkedFrom *string `json:"forkedFrom,omitempty"`
	Models     []Model `json:"models"`
}

// Model represents one relational entity
type Model struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	TableName    string        `json:"tableName,omitempty"`
	SoftDelete   bool          `json:"softDelete"`
	Timestamps   bool          `json:"timestamps"`
	CreatedAt    string        `json:"createdAt,omitempty"`
	UpdatedAt    string        `json:"updatedAt,omitempty"`
	Fields       []Field       `json:"fields"`
	Associations []Association `json:"associations"`
}

// Field represents a model attribute
type Field struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       DataType `json:"type"`
	PrimaryKey bool     `json:"primaryKey"`
	Required   bool     `json:"required"`
	Unique     bool     `json:"unique"`
	Default    *string  `json:"default,omitempty"`
}

// DataType describes the storage type of a field
type DataType struct {
	Type       string   `json:"type"`
	Length     *int     `json:"length,omitempty"`
	Precision  *int     `json:"precision,omitempty"`
	Scale      *int     `json:"scale,omitempty"`
	Values     []string `json:"values,omitempty"`
	Unsigned   bool     `json:"unsigned,omitempty"`
	DefaultNow bool     `json:"defaultNow,omitempty"`
}

// Association represents a directed relationship from SourceModelID to TargetModelID
type Association struct {
	ID            string          `json:"id"`
	Alias         string          `json:"alias,omitempty"`
	ForeignKey    string          `json:"foreignKey,omitempty"`
	SourceModelID string          `json:"sourceModelId"`
	TargetModelID string          `json:"targetModelId"`
	Type          AssociationType `json:"type"`
}

// ModelByID indexes the schema's models by id. The returned pointers refer
// into s.Models and must not be used to mutate the schema.
func (s *Schema) ModelByID() map[string]*Model {
	byID := make(map[string]*Model, len(s.Models))
	for i := range s.Models {
		byID[s.Models[i].ID] = &s.Models[i]
	}
	return byID
}

// Kind returns the association kind, or KindUnknown when Type is unset
func (a Association) Kind() Kind {
	if a.Type == nil {
		return KindUnknown
	}
	return a.Type.Kind()
}

// ManyToMany returns the many-to-many payload and whether the association is one
func (a Association) ManyToMany() (ManyToMany, bool) {
	m, ok := a.Type.(ManyToMany)
	return m, ok
}
