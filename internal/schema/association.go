package schema

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the kind of an association
type Kind int

const (
	KindUnknown Kind = iota
	KindOneToOne
	KindOneToMany
	KindManyToOne
	KindManyToMany
)

// Tags used for the association "type" discriminant in documents
const (
	TagOneToOne   = "HAS_ONE"
	TagOneToMany  = "HAS_MANY"
	TagManyToOne  = "BELONGS_TO"
	TagManyToMany = "MANY_TO_MANY"

	TagThroughTable = "THROUGH_TABLE"
	TagThroughModel = "THROUGH_MODEL"
)

// Alternative spellings accepted when decoding
var kindAliases = map[string]Kind{
	TagOneToOne:   KindOneToOne,
	TagOneToMany:  KindOneToMany,
	TagManyToOne:  KindManyToOne,
	TagManyToMany: KindManyToMany,
	"ONE_TO_ONE":  KindOneToOne,
	"ONE_TO_MANY": KindOneToMany,
	"MANY_TO_ONE": KindManyToOne,
}

func (k Kind) String() string {
	switch k {
	case KindOneToOne:
		return "one-to-one"
	case KindOneToMany:
		return "one-to-many"
	case KindManyToOne:
		return "many-to-one"
	case KindManyToMany:
		return "many-to-many"
	default:
		return "unknown"
	}
}

// Symmetric reports whether A→B and B→A describe the same relationship
func (k Kind) Symmetric() bool {
	return k == KindManyToMany
}

// AssociationType is the sealed sum of association kinds:
// OneToOne, OneToMany, ManyToOne and ManyToMany.
type AssociationType interface {
	Kind() Kind
	tag() string
}

type OneToOne struct{}

type OneToMany struct{}

type ManyToOne struct{}

// ManyToMany joins two models through a table or a third model
type ManyToMany struct {
	TargetFK string
	Through  Through
}

func (OneToOne) Kind() Kind   { return KindOneToOne }
func (OneToMany) Kind() Kind  { return KindOneToMany }
func (ManyToOne) Kind() Kind  { return KindManyToOne }
func (ManyToMany) Kind() Kind { return KindManyToMany }

func (OneToOne) tag() string   { return TagOneToOne }
func (OneToMany) tag() string  { return TagOneToMany }
func (ManyToOne) tag() string  { return TagManyToOne }
func (ManyToMany) tag() string { return TagManyToMany }

// Through is the sealed sum of many-to-many join entities:
// ThroughTable and ThroughModel.
type Through interface {
	through() string
}

// ThroughTable joins through a plain table that has no model of its own
type ThroughTable struct {
	Table string
}

// ThroughModel joins through another model of the schema
type ThroughModel struct {
	ModelID string
}

func (ThroughTable) through() string { return TagThroughTable }
func (ThroughModel) through() string { return TagThroughModel }

type associationJSON struct {
	ID            string          `json:"id"`
	Alias         string          `json:"alias,omitempty"`
	ForeignKey    string          `json:"foreignKey,omitempty"`
	SourceModelID string          `json:"sourceModelId"`
	TargetModelID string          `json:"targetModelId"`
	Type          json.RawMessage `json:"type"`
}

type associationTypeJSON struct {
	Type     string          `json:"type"`
	TargetFK string          `json:"targetFk,omitempty"`
	Through  json.RawMessage `json:"through,omitempty"`
}

type throughJSON struct {
	Type    string `json:"type"`
	Table   string `json:"table,omitempty"`
	ModelID string `json:"modelId,omitempty"`
}

// MarshalJSON writes the association with its tagged type variant
func (a Association) MarshalJSON() ([]byte, error) {
	raw, err := marshalAssociationType(a.Type)
	if err != nil {
		return nil, fmt.Errorf("association %s: %w", a.ID, err)
	}
	return json.Marshal(associationJSON{
		ID:            a.ID,
		Alias:         a.Alias,
		ForeignKey:    a.ForeignKey,
		SourceModelID: a.SourceModelID,
		TargetModelID: a.TargetModelID,
		Type:          raw,
	})
}

// UnmarshalJSON reads an association and resolves its tagged type variant
func (a *Association) UnmarshalJSON(data []byte) error {
	var aux associationJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t, err := unmarshalAssociationType(aux.Type)
	if err != nil {
		return fmt.Errorf("association %s: %w", aux.ID, err)
	}

	*a = Association{
		ID:            aux.ID,
		Alias:         aux.Alias,
		ForeignKey:    aux.ForeignKey,
		SourceModelID: aux.SourceModelID,
		TargetModelID: aux.TargetModelID,
		Type:          t,
	}
	return nil
}

func marshalAssociationType(t AssociationType) (json.RawMessage, error) {
	switch v := t.(type) {
	case OneToOne, OneToMany, ManyToOne:
		return json.Marshal(associationTypeJSON{Type: v.tag()})
	case ManyToMany:
		through, err := marshalThrough(v.Through)
		if err != nil {
			return nil, err
		}
		return json.Marshal(associationTypeJSON{Type: TagManyToMany, TargetFK: v.TargetFK, Through: through})
	case nil:
		return nil, fmt.Errorf("missing association type")
	default:
		return nil, fmt.Errorf("unsupported association type %T", t)
	}
}

func marshalThrough(t Through) (json.RawMessage, error) {
	switch v := t.(type) {
	case ThroughTable:
		return json.Marshal(throughJSON{Type: TagThroughTable, Table: v.Table})
	case ThroughModel:
		return json.Marshal(throughJSON{Type: TagThroughModel, ModelID: v.ModelID})
	case nil:
		return nil, fmt.Errorf("missing many-to-many through")
	default:
		return nil, fmt.Errorf("unsupported through type %T", t)
	}
}

func unmarshalAssociationType(data json.RawMessage) (AssociationType, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("missing association type")
	}

	var aux associationTypeJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}

	kind, ok := kindAliases[aux.Type]
	if !ok {
		return nil, fmt.Errorf("unknown association type %q", aux.Type)
	}

	switch kind {
	case KindOneToOne:
		return OneToOne{}, nil
	case KindOneToMany:
		return OneToMany{}, nil
	case KindManyToOne:
		return ManyToOne{}, nil
	default:
		through, err := unmarshalThrough(aux.Through)
		if err != nil {
			return nil, err
		}
		return ManyToMany{TargetFK: aux.TargetFK, Through: through}, nil
	}
}

func unmarshalThrough(data json.RawMessage) (Through, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, fmt.Errorf("many-to-many association is missing through")
	}

	var aux throughJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil, err
	}

	switch aux.Type {
	case TagThroughTable:
		return ThroughTable{Table: aux.Table}, nil
	case TagThroughModel:
		return ThroughModel{ModelID: aux.ModelID}, nil
	default:
		return nil, fmt.Errorf("unknown through type %q", aux.Type)
	}
}
