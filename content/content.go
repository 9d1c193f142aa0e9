// Package content validates the type dependent payload attached to a resource.
// Every resource type maps to exactly one variant struct, anything else is
// rejected.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

type Type string

const (
	TypeLink     Type = "link"
	TypeDocument Type = "document"
	TypeContact  Type = "contact"
	TypeEvent    Type = "event"
	TypeNote     Type = "note"
)

var ErrUnknownType = errors.New("unknown resource type")

// Content is a validated payload of one of the resource types
type Content interface {
	Type() Type
	// Map returns the narrowed payload that gets persisted
	Map() map[string]any
}

type Link struct {
	URL string `json:"url" validate:"required,url"`
}

type Document struct {
	FilePath string `json:"filePath,omitempty"`
	FileID   string `json:"fileId,omitempty" validate:"omitempty,uuid"`
	FileName string `json:"fileName,omitempty"`
	MimeType string `json:"mimeType" validate:"required"`
}

type Contact struct {
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

type Event struct {
	EventDate string `json:"eventDate" validate:"required,iso8601"`
	Location  string `json:"location,omitempty"`
}

type Note struct {
	Content string `json:"content" validate:"required"`
}

func (*Link) Type() Type     { return TypeLink }
func (*Document) Type() Type { return TypeDocument }
func (*Contact) Type() Type  { return TypeContact }
func (*Event) Type() Type    { return TypeEvent }
func (*Note) Type() Type     { return TypeNote }

func (c *Link) Map() map[string]any     { return toMap(c) }
func (c *Document) Map() map[string]any { return toMap(c) }
func (c *Contact) Map() map[string]any  { return toMap(c) }
func (c *Event) Map() map[string]any    { return toMap(c) }
func (c *Note) Map() map[string]any     { return toMap(c) }

// ValidationError names the field of a payload that broke its type's schema
type ValidationError struct {
	Type       Type
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid content for type %s: %s %s", e.Type, e.Field, e.Constraint)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so errors match what clients sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(time.RFC3339Nano, fl.Field().String())
		return err == nil
	})

	return v
}

// ParseType checks that s names one of the known resource types
func ParseType(s string) (Type, bool) {
	t := Type(s)
	switch t {
	case TypeLink, TypeDocument, TypeContact, TypeEvent, TypeNote:
		return t, true
	}

	return "", false
}

// Validate checks payload against the schema of t and returns the typed
// variant. Keys unknown to the variant are dropped.
func Validate(t Type, payload map[string]any) (Content, error) {
	var c Content

	switch t {
	case TypeLink:
		c = &Link{}
	case TypeDocument:
		c = &Document{}
	case TypeContact:
		c = &Contact{}
	case TypeEvent:
		c = &Event{}
	case TypeNote:
		c = &Note{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}

	if err := decode(payload, c); err != nil {
		return nil, &ValidationError{Type: t, Field: failingField(c, payload), Constraint: "has the wrong type"}
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return nil, &ValidationError{Type: t, Field: fe.Field(), Constraint: constraint(fe.Tag())}
		}

		return nil, fmt.Errorf("failed to validate content, %w", err)
	}

	return c, nil
}

// decode copies payload into the variant. Keys must match the JSON names
// exactly, "URL" is not "url".
func decode(payload map[string]any, out any) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:   "json",
		Result:    out,
		MatchName: func(mapKey, fieldName string) bool { return mapKey == fieldName },
	})
	if err != nil {
		return err
	}

	return d.Decode(payload)
}

// failingField returns the JSON name of the first field whose value can't be
// decoded on its own
func failingField(c Content, payload map[string]any) string {
	typ := reflect.TypeOf(c).Elem()

	for i := range typ.NumField() {
		name, _, _ := strings.Cut(typ.Field(i).Tag.Get("json"), ",")

		v, ok := payload[name]
		if !ok {
			continue
		}

		if decode(map[string]any{name: v}, reflect.New(typ).Interface()) != nil {
			return name
		}
	}

	return "content"
}

func constraint(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "iso8601":
		return "must be an ISO-8601 datetime"
	}

	return "failed on " + tag
}

func toMap(v any) map[string]any {
	raw, _ := json.Marshal(v)

	m := map[string]any{}
	_ = json.Unmarshal(raw, &m)

	return m
}

// Descriptor lists the content fields accepted by a resource type
type Descriptor struct {
	Type     Type     `json:"type"`
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

func Types() []Descriptor {
	return []Descriptor{
		{Type: TypeLink, Required: []string{"url"}, Optional: []string{}},
		{Type: TypeDocument, Required: []string{"mimeType"}, Optional: []string{"fileId", "fileName", "filePath"}},
		{Type: TypeContact, Required: []string{}, Optional: []string{"email", "phone", "company"}},
		{Type: TypeEvent, Required: []string{"eventDate"}, Optional: []string{"location"}},
		{Type: TypeNote, Required: []string{"content"}, Optional: []string{}},
	}
}
