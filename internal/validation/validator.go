// Package validation computes the error tree of a schema.
//
// The validator is a pure function of its input: it never mutates the
// schema, holds no state between calls, and reports every finding as data.
// Callers re-run it after each edit and gate saving on SchemaErrors.IsEmpty.
package validation

import (
	"strings"

	"github.com/tordrt/schemacheck/internal/schema"
)

// DefaultMaxIdentifierLength is the PostgreSQL identifier limit
const DefaultMaxIdentifierLength = 63

// Options configures a Validator
type Options struct {
	// MaxIdentifierLength is the longest accepted name, in characters.
	// Zero selects DefaultMaxIdentifierLength.
	MaxIdentifierLength int
}

// Validator applies the naming and consistency rules to schemas
type Validator struct {
	maxLen int
}

// New creates a validator
func New(opts Options) *Validator {
	maxLen := opts.MaxIdentifierLength
	if maxLen <= 0 {
		maxLen = DefaultMaxIdentifierLength
	}
	return &Validator{maxLen: maxLen}
}

// MaxIdentifierLength returns the length limit in effect
func (v *Validator) MaxIdentifierLength() int {
	return v.maxLen
}

// pass carries the lookups built once per validation run
type pass struct {
	byID       map[string]*schema.Model
	modelNames map[string][]string
}

func newPass(s *schema.Schema) *pass {
	p := &pass{
		byID:       s.ModelByID(),
		modelNames: make(map[string][]string, len(s.Models)),
	}
	for _, m := range s.Models {
		key := singularKey(m.Name)
		p.modelNames[key] = append(p.modelNames[key], m.ID)
	}
	return p
}

// ValidateSchema validates the schema name and every model
func (v *Validator) ValidateSchema(s *schema.Schema) SchemaErrors {
	p := newPass(s)

	models := make(map[string]ModelErrors, len(s.Models))
	for i := range s.Models {
		models[s.Models[i].ID] = v.validateModel(&s.Models[i], p)
	}

	return SchemaErrors{
		Name:   CheckName(s.Name, NameRules{Required: true}, v.maxLen),
		Models: models,
	}
}

// ValidateModel validates a single model of s
func (v *Validator) ValidateModel(m *schema.Model, s *schema.Schema) ModelErrors {
	return v.validateModel(m, newPass(s))
}

func (v *Validator) validateModel(m *schema.Model, p *pass) ModelErrors {
	fieldNames := make(map[string][]string, len(m.Fields))
	for _, f := range m.Fields {
		key := strings.ToLower(f.Name)
		fieldNames[key] = append(fieldNames[key], f.ID)
	}

	fields := make(map[string]FieldErrors, len(m.Fields))
	for _, f := range m.Fields {
		fields[f.ID] = v.validateField(f, fieldNames)
	}

	buckets := associationBuckets(m, p.byID)
	associations := make(map[string]AssociationErrors, len(m.Associations))
	for _, a := range m.Associations {
		associations[a.ID] = v.validateAssociation(a, m, p, buckets)
	}

	return ModelErrors{
		Name: CheckName(m.Name, NameRules{
			Required:  true,
			Charset:   true,
			Duplicate: func() bool { return hasOther(p.modelNames[singularKey(m.Name)], m.ID) },
		}, v.maxLen),
		TableName:    v.validateTableName(m),
		Fields:       fields,
		Associations: associations,
	}
}

// validateTableName is intentionally a no-op: table names are not validated
func (v *Validator) validateTableName(*schema.Model) ErrorKind {
	return NoError
}

// ValidateField validates a field against the other fields of m
func (v *Validator) ValidateField(f schema.Field, m *schema.Model) FieldErrors {
	var ids []string
	for _, other := range m.Fields {
		if namesEqual(other.Name, f.Name) {
			ids = append(ids, other.ID)
		}
	}
	return v.validateField(f, map[string][]string{strings.ToLower(f.Name): ids})
}

func (v *Validator) validateField(f schema.Field, names map[string][]string) FieldErrors {
	return FieldErrors{
		Name: CheckName(f.Name, NameRules{
			Required:  true,
			Charset:   true,
			Duplicate: func() bool { return hasOther(names[strings.ToLower(f.Name)], f.ID) },
		}, v.maxLen),
	}
}

// ValidateAssociation validates an association of m within s
func (v *Validator) ValidateAssociation(a schema.Association, m *schema.Model, s *schema.Schema) AssociationErrors {
	p := newPass(s)
	return v.validateAssociation(a, m, p, associationBuckets(m, p.byID))
}

func (v *Validator) validateAssociation(a schema.Association, m *schema.Model, p *pass, buckets map[string][]string) AssociationErrors {
	errs := AssociationErrors{
		Alias: CheckName(a.Alias, NameRules{
			Charset: true,
			Duplicate: func() bool {
				target, ok := p.byID[a.TargetModelID]
				if !ok {
					return false
				}
				key, ok := associationKey(a, target.Name)
				return ok && hasOther(buckets[key], a.ID)
			},
		}, v.maxLen),
		ForeignKey: CheckName(a.ForeignKey, NameRules{Charset: true}, v.maxLen),
	}

	if mm, ok := a.ManyToMany(); ok {
		errs.TargetForeignKey = CheckName(mm.TargetFK, NameRules{Charset: true}, v.maxLen)
		if through, ok := mm.Through.(schema.ThroughTable); ok {
			errs.ThroughTable = CheckThroughTable(through.Table, v.maxLen)
		}
	}

	return errs
}

// hasOther reports whether ids contains an id other than self
func hasOther(ids []string, self string) bool {
	for _, id := range ids {
		if id != self {
			return true
		}
	}
	return false
}
