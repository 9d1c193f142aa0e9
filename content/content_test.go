package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLink(t *testing.T) {
	c, err := Validate(TypeLink, map[string]any{"url": "https://go.dev/doc", "extra": 1})
	require.NoError(t, err)

	assert.Equal(t, TypeLink, c.Type())
	assert.Equal(t, map[string]any{"url": "https://go.dev/doc"}, c.Map())

	for _, payload := range []map[string]any{
		{},
		{"url": ""},
		{"url": "not a url"},
		{"url": 42},
	} {
		_, err := Validate(TypeLink, payload)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "payload %v", payload)
		assert.Equal(t, "url", verr.Field)
	}
}

func TestValidateDocument(t *testing.T) {
	_, err := Validate(TypeDocument, map[string]any{"fileName": "a.pdf"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mimeType", verr.Field)
	assert.Equal(t, "is required", verr.Constraint)

	_, err = Validate(TypeDocument, map[string]any{"mimeType": "application/pdf", "fileId": "nope"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "fileId", verr.Field)

	c, err := Validate(TypeDocument, map[string]any{
		"mimeType": "application/pdf",
		"fileId":   "6b1f1c2e-2b7a-4d2e-9a53-0c6c1b5a8e11",
	})
	require.NoError(t, err)
	assert.Equal(t, "6b1f1c2e-2b7a-4d2e-9a53-0c6c1b5a8e11", c.(*Document).FileID)
	assert.NotContains(t, c.Map(), "fileName")
}

func TestValidateContact(t *testing.T) {
	c, err := Validate(TypeContact, map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, c.Map())

	_, err = Validate(TypeContact, map[string]any{"email": "bad-email"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	c, err = Validate(TypeContact, map[string]any{"email": "jane@example.com", "company": "ACME"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"email": "jane@example.com", "company": "ACME"}, c.Map())
}

func TestValidateEvent(t *testing.T) {
	_, err := Validate(TypeEvent, map[string]any{"eventDate": "tomorrow"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "eventDate", verr.Field)

	_, err = Validate(TypeEvent, map[string]any{"eventDate": "2025-06-01T18:30:00Z", "location": "Riga"})
	assert.NoError(t, err)

	_, err = Validate(TypeEvent, map[string]any{"eventDate": "2025-06-01T18:30:00.123+02:00"})
	assert.NoError(t, err)
}

func TestValidateNote(t *testing.T) {
	_, err := Validate(TypeNote, map[string]any{"content": ""})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content", verr.Field)

	c, err := Validate(TypeNote, map[string]any{"content": "buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", c.(*Note).Content)
}

func TestValidateUnknownType(t *testing.T) {
	_, err := Validate(Type("video"), map[string]any{"url": "https://example.com"})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestParseType(t *testing.T) {
	for _, d := range Types() {
		got, ok := ParseType(string(d.Type))
		assert.True(t, ok)
		assert.Equal(t, d.Type, got)
	}

	_, ok := ParseType("Link")
	assert.False(t, ok)
}

func TestValidateKeysAreCaseSensitive(t *testing.T) {
	for typ, payload := range map[Type]map[string]any{
		TypeLink:     {"URL": "https://go.dev"},
		TypeDocument: {"MimeType": "application/pdf"},
		TypeEvent:    {"EventDate": "2025-06-01T18:30:00Z"},
		TypeNote:     {"Content": "buy milk"},
	} {
		_, err := Validate(typ, payload)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "type %s", typ)
		assert.Equal(t, "is required", verr.Constraint, "type %s", typ)
	}

	// Miscased optional keys are dropped like any other unknown key
	c, err := Validate(TypeContact, map[string]any{"Email": "jane@example.com", "phone": "+371 2000000"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"phone": "+371 2000000"}, c.Map())
}

func TestValidateWrongValueType(t *testing.T) {
	_, err := Validate(TypeEvent, map[string]any{"eventDate": "2025-06-01T18:30:00Z", "location": []any{"Riga"}})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "location", verr.Field)
	assert.Equal(t, "has the wrong type", verr.Constraint)
}
