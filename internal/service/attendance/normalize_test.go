package attendance

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(punches []attendance.Punch) []string {
	out := make([]string, 0, len(punches))
	for _, p := range punches {
		out = append(out, p.ID)
	}
	return out
}

func TestNormalizePunches_Slice(t *testing.T) {
	source := []attendance.Punch{
		utcPunch("p1", "E1", "A", "2024-03-15T09:00:00Z"),
		{ID: "p2", EmployeeID: "E1", PunchFrom: "A", PunchTimestampUTC: "2024-03-15T10:00:00Z", Ignored: true},
		utcPunch("", "E1", "A", "2024-03-15T17:00:00Z"),
	}

	got := NormalizePunches(source)

	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].ID)
	assert.NotEmpty(t, got[1].ID, "missing ids get a fallback")
	assert.Equal(t, got[1].ID, NormalizePunches(source)[1].ID, "fallback ids are stable")
	assert.Empty(t, source[2].ID, "input is not modified")
}

func TestNormalizePunches_KeyedMap(t *testing.T) {
	source := map[string]attendance.Punch{
		"b": {EmployeeID: "E1", PunchFrom: "A", PunchTime: "2024-03-15T10:00:00"},
		"a": {EmployeeID: "E1", PunchFrom: "A", PunchTime: "2024-03-15T09:00:00"},
		"c": {ID: "own", EmployeeID: "E1", PunchFrom: "A", PunchTime: "2024-03-15T11:00:00"},
	}

	assert.Equal(t, []string{"a", "b", "own"}, ids(NormalizePunches(source)))
}

func TestNormalizePunches_Wrappers(t *testing.T) {
	snapshot := attendance.QuerySnapshot{Docs: []attendance.DocumentSnapshot{
		{ID: "d1", Data: func() attendance.Punch { return attendance.Punch{EmployeeID: "E1", PunchFrom: "A"} }},
		{ID: "d2", Data: nil},
		{ID: "d3", Data: func() attendance.Punch { return attendance.Punch{EmployeeID: "E2", PunchFrom: "B", Ignored: true} }},
	}}
	assert.Equal(t, []string{"d1"}, ids(NormalizePunches(snapshot)))
	assert.Equal(t, []string{"d1"}, ids(NormalizePunches(&snapshot)))

	envelope := attendance.DataEnvelope{Data: []attendance.Punch{utcPunch("x", "E1", "A", "2024-03-15T09:00:00Z")}}
	assert.Equal(t, []string{"x"}, ids(NormalizePunches(envelope)))
	assert.Equal(t, []string{"x"}, ids(NormalizePunches(&envelope)))
}

func TestNormalizePunches_JSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `[{"id":"a","employeeId":"E1","punch_from":"A"},{"id":"b","employeeId":"E1","punch_from":"A","ignored":true}]`, []string{"a"}},
		{"data envelope", `{"data":[{"id":"a","employeeId":"E1","punch_from":"A"}]}`, []string{"a"}},
		{"documents", `{"docs":[{"id":"d1","data":{"employeeId":"E1","punch_from":"A"}}]}`, []string{"d1"}},
		{"keyed object", `{"k2":{"employeeId":"E1","punch_from":"A"},"k1":{"employeeId":"E1","punch_from":"B"},"junk":5}`, []string{"k1", "k2"}},
		{"malformed", `{"data":[`, []string{}},
		{"scalar", `42`, []string{}},
		{"empty", ``, []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ids(NormalizePunches([]byte(c.raw))))
			assert.Equal(t, c.want, ids(NormalizePunches(json.RawMessage(c.raw))))
		})
	}
}

func TestNormalizePunches_Unrecognized(t *testing.T) {
	for _, source := range []any{nil, 42, "punches", struct{}{}} {
		got := NormalizePunches(source)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}
