package validation

import (
	"strings"

	"github.com/tordrt/schemacheck/internal/schema"
)

// AssociationsAreSame reports whether two associations of one model describe
// the same relationship. Both must share kind, endpoints (in either order for
// symmetric kinds), effective name (alias, or target model name when the
// alias is blank) and, for many-to-many, the join table or join model.
func AssociationsAreSame(a schema.Association, targetNameA string, b schema.Association, targetNameB string) bool {
	keyA, okA := associationKey(a, targetNameA)
	keyB, okB := associationKey(b, targetNameB)
	return okA && okB && keyA == keyB
}

// associationKey builds the canonical identity of an association. Two
// associations are the same exactly when their keys are equal. ok is false
// for associations that take no part in the comparison.
func associationKey(a schema.Association, targetName string) (key string, ok bool) {
	kind := a.Kind()
	if kind == schema.KindUnknown {
		return "", false
	}

	source, target := a.SourceModelID, a.TargetModelID
	if kind.Symmetric() && target < source {
		source, target = target, source
	}

	name := a.Alias
	if name == "" {
		name = targetName
	}

	parts := []string{kind.String(), source, target, strings.ToLower(name)}

	if m, isManyToMany := a.ManyToMany(); isManyToMany {
		through, ok := throughKey(m.Through)
		if !ok {
			return "", false
		}
		parts = append(parts, through)
	}

	return strings.Join(parts, "\x00"), true
}

func throughKey(t schema.Through) (string, bool) {
	switch v := t.(type) {
	case schema.ThroughTable:
		return "table:" + strings.ToLower(v.Table), true
	case schema.ThroughModel:
		return "model:" + v.ModelID, true
	default:
		return "", false
	}
}

// associationBuckets groups a model's associations by identity. Associations
// whose target cannot be resolved are left out.
func associationBuckets(model *schema.Model, byID map[string]*schema.Model) map[string][]string {
	buckets := make(map[string][]string, len(model.Associations))
	for _, a := range model.Associations {
		target, ok := byID[a.TargetModelID]
		if !ok {
			continue
		}
		key, ok := associationKey(a, target.Name)
		if !ok {
			continue
		}
		buckets[key] = append(buckets[key], a.ID)
	}
	return buckets
}
