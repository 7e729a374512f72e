package permit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonbrettpreston/buildo-sub002/internal/core/domain"
)

func TestDecode_Scalars(t *testing.T) {
	elem := domain.RawElement(`{
		"PERMIT_NUM": "21 100200 BLD",
		"REVISION_NUM": "00",
		"GEO_ID": 7788123,
		"EST_CONST_COST": 1.5e3,
		"FLAG": true,
		"OTHER": false,
		"OWNER": null,
		"ESCAPED": "Café \"Nord\""
	}`)

	raw, err := Decode(elem)
	require.NoError(t, err)

	assert.Equal(t, domain.RawPermit{
		"PERMIT_NUM":     "21 100200 BLD",
		"REVISION_NUM":   "00",
		"GEO_ID":         "7788123",
		"EST_CONST_COST": "1.5e3",
		"FLAG":           "true",
		"OTHER":          "false",
		"ESCAPED":        `Café "Nord"`,
	}, raw)
}

func TestDecode_EmptyObject(t *testing.T) {
	raw, err := Decode(domain.RawElement(`{}`))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecode_UnexpectedType(t *testing.T) {
	tests := []struct {
		name string
		elem string
	}{
		{"array element", `["PERMIT_NUM", "1"]`},
		{"string element", `"21 100200 BLD"`},
		{"number element", `42`},
		{"null element", `null`},
		{"nested object", `{"PERMIT_NUM": "1", "ADDRESS": {"STREET": "QUEEN"}}`},
		{"nested array", `{"PERMIT_NUM": "1", "TAGS": ["a", "b"]}`},
		{"broken object", `{"PERMIT_NUM": }`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Decode(domain.RawElement(tt.elem))
			assert.Nil(t, raw)
			assert.ErrorIs(t, err, domain.ErrUnexpectedType)
		})
	}
}

func TestDecode_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name string
		elem string
	}{
		{"value", "{\"PERMIT_NUM\": \"1\", \"DESCRIPTION\": \"roof \xff\"}"},
		{"other invalid byte", "{\"PERMIT_NUM\": \"1\", \"DESCRIPTION\": \"roof \xfe\"}"},
		{"field name", "{\"PERMIT_NUM\": \"1\", \"DESCR\xffIPTION\": \"roof\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Decode(domain.RawElement(tt.elem))
			assert.Nil(t, raw)
			assert.ErrorIs(t, err, domain.ErrUnexpectedType)
		})
	}
}

func TestDecode_ReplacementCharacterKept(t *testing.T) {
	raw, err := Decode(domain.RawElement(`{"DESCRIPTION": "roof \uFFFD"}`))
	require.NoError(t, err)
	assert.Equal(t, "roof \uFFFD", raw["DESCRIPTION"])
}

func TestNormaliser_Decode(t *testing.T) {
	n := New()
	raw, err := n.Decode(domain.RawElement(`{"PERMIT_NUM": "A"}`))
	require.NoError(t, err)
	assert.Equal(t, "A", raw["PERMIT_NUM"])
}
