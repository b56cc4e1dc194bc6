package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "id": "s1",
  "name": "school",
  "models": [
    {
      "id": "m1",
      "name": "Student",
      "softDelete": false,
      "timestamps": true,
      "fields": [
        {"id": "f1", "name": "id", "type": {"type": "INTEGER"}, "primaryKey": true, "required": true, "unique": false}
      ],
      "associations": [
        {
          "id": "a1",
          "alias": "courses",
          "sourceModelId": "m1",
          "targetModelId": "m2",
          "type": {"type": "MANY_TO_MANY", "targetFk": "course_id", "through": {"type": "THROUGH_TABLE", "table": "enrollments"}}
        },
        {
          "id": "a2",
          "sourceModelId": "m1",
          "targetModelId": "m2",
          "type": {"type": "MANY_TO_MANY", "through": {"type": "THROUGH_MODEL", "modelId": "m3"}}
        },
        {"id": "a3", "foreignKey": "mentor_id", "sourceModelId": "m1", "targetModelId": "m1", "type": {"type": "BELONGS_TO"}}
      ]
    },
    {"id": "m2", "name": "Course", "softDelete": false, "timestamps": false, "fields": [], "associations": []}
  ]
}`

func TestDecodeTaggedVariants(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &s))

	require.Len(t, s.Models, 2)
	assocs := s.Models[0].Associations
	require.Len(t, assocs, 3)

	m, ok := assocs[0].ManyToMany()
	require.True(t, ok)
	assert.Equal(t, "course_id", m.TargetFK)
	assert.Equal(t, ThroughTable{Table: "enrollments"}, m.Through)

	m, ok = assocs[1].ManyToMany()
	require.True(t, ok)
	assert.Equal(t, ThroughModel{ModelID: "m3"}, m.Through)

	assert.Equal(t, KindManyToOne, assocs[2].Kind())
	assert.Equal(t, "mentor_id", assocs[2].ForeignKey)
	_, ok = assocs[2].ManyToMany()
	assert.False(t, ok)
}

func TestEncodeRoundTrip(t *testing.T) {
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &s))

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, sampleJSON, string(out))
}

func TestDecodeAcceptsDirectionalTags(t *testing.T) {
	tests := map[string]Kind{
		`{"type":"ONE_TO_ONE"}`:  KindOneToOne,
		`{"type":"HAS_ONE"}`:     KindOneToOne,
		`{"type":"ONE_TO_MANY"}`: KindOneToMany,
		`{"type":"HAS_MANY"}`:    KindOneToMany,
		`{"type":"MANY_TO_ONE"}`: KindManyToOne,
	}

	for typ, want := range tests {
		var a Association
		require.NoError(t, json.Unmarshal([]byte(`{"id":"a","sourceModelId":"x","targetModelId":"y","type":`+typ+`}`), &a))
		assert.Equal(t, want, a.Kind(), typ)
	}
}

func TestDecodeRejectsUnknownVariants(t *testing.T) {
	bad := []string{
		`{"id":"a","type":{"type":"SIDEWAYS"}}`,
		`{"id":"a","type":{"type":"MANY_TO_MANY"}}`,
		`{"id":"a","type":{"type":"MANY_TO_MANY","through":{"type":"PORTAL"}}}`,
		`{"id":"a"}`,
	}

	for _, doc := range bad {
		var a Association
		assert.Error(t, json.Unmarshal([]byte(doc), &a), doc)
	}
}

func TestEncodeRequiresType(t *testing.T) {
	_, err := json.Marshal(Association{ID: "a"})
	assert.Error(t, err)

	_, err = json.Marshal(Association{ID: "a", Type: ManyToMany{}})
	assert.Error(t, err)
}

func TestModelByID(t *testing.T) {
	s := Schema{Models: []Model{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	byID := s.ModelByID()

	require.Contains(t, byID, "b")
	assert.Equal(t, "B", byID["b"].Name)
	assert.Same(t, &s.Models[1], byID["b"])
	assert.NotContains(t, byID, "c")
}

func TestKindSymmetric(t *testing.T) {
	assert.True(t, KindManyToMany.Symmetric())
	assert.False(t, KindManyToOne.Symmetric())
	assert.Equal(t, "unknown", Association{}.Kind().String())
}
