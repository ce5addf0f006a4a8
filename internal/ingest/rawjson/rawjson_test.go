package rawjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	S String `json:"s"`
	I Int    `json:"i"`
	F Float  `json:"f"`
	B Bool   `json:"b"`
}

func TestDecodeTolerantScalars(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want payload
	}{
		{
			name: "native types",
			raw:  `{"s":"abc","i":7,"f":12.5,"b":true}`,
			want: payload{S: String{"abc", true}, I: Int{7, true}, F: Float{12.5, true}, B: true},
		},
		{
			name: "numbers as strings",
			raw:  `{"s":42,"i":"8","f":"3.2","b":1}`,
			want: payload{S: String{"42", true}, I: Int{8, true}, F: Float{3.2, true}, B: true},
		},
		{
			name: "nulls",
			raw:  `{"s":null,"i":null,"f":null,"b":null}`,
			want: payload{},
		},
		{
			name: "garbage stays invalid",
			raw:  `{"s":{"x":1},"i":"O5.4","f":"n/a","b":"no"}`,
			want: payload{},
		},
		{
			name: "absent",
			raw:  `{}`,
			want: payload{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLargeEpochMillisKeepsPrecision(t *testing.T) {
	var p struct {
		ID String `json:"id"`
		TS Int    `json:"ts"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id":1700000000000,"ts":1700000000123}`), &p))

	assert.Equal(t, "1700000000000", p.ID.Value)
	assert.Equal(t, int64(1700000000123), p.TS.Value)
}

func TestOrDefaults(t *testing.T) {
	assert.Equal(t, "Team 1", String{}.Or("Team 1"))
	assert.Equal(t, "R", String{Value: "R", Valid: true}.Or("Team 1"))
	assert.Equal(t, int64(1), Int{}.Or(1))
	assert.Equal(t, 0.0, Float{}.Or(0))
}
