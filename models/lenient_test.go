package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRawID(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want uint
		ok   bool
	}{
		"number":         {`7`, 7, true},
		"numeric string": {`" 12 "`, 12, true},
		"zero":           {`0`, 0, false},
		"negative":       {`-3`, 0, false},
		"decimal":        {`1.5`, 0, false},
		"text":           {`"x"`, 0, false},
		"null":           {`null`, 0, false},
		"object":         {`{}`, 0, false},
		"missing":        {``, 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := ParseRawID(json.RawMessage(tc.raw))
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRawMoney(t *testing.T) {
	m, ok := ParseRawMoney(json.RawMessage(`150.5`))
	assert.True(t, ok)
	assert.Equal(t, "150.50", m.Fixed())

	m, ok = ParseRawMoney(json.RawMessage(`"99.9"`))
	assert.True(t, ok)
	assert.Equal(t, "99.90", m.Fixed())

	for _, raw := range []string{`"abc"`, `""`, `null`, `true`, `[]`} {
		_, ok := ParseRawMoney(json.RawMessage(raw))
		assert.False(t, ok, raw)
	}
}

func TestParseRawInt(t *testing.T) {
	v, ok := ParseRawInt(json.RawMessage(`"3"`))
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = ParseRawInt(json.RawMessage(`2.5`))
	assert.False(t, ok)
	_, ok = ParseRawInt(json.RawMessage(`"dos"`))
	assert.False(t, ok)
}

func TestParseRawString(t *testing.T) {
	s, ok := ParseRawString(json.RawMessage(`"pagado"`))
	assert.True(t, ok)
	assert.Equal(t, "pagado", s)

	s, ok = ParseRawString(nil)
	assert.True(t, ok)
	assert.Empty(t, s)

	_, ok = ParseRawString(json.RawMessage(`5`))
	assert.False(t, ok)
}
