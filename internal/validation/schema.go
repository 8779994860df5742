package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"staysync/internal/domain"
)

func nonEmptyString() *openapi3.Schema {
	return openapi3.NewStringSchema().WithMinLength(1)
}

func object(required []string, props map[string]*openapi3.Schema) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for name, prop := range props {
		s = s.WithProperty(name, prop)
	}
	s.Required = required
	return s
}

var (
	imageSchema = object(nil, map[string]*openapi3.Schema{
		"url":      openapi3.NewStringSchema(),
		"filename": openapi3.NewStringSchema(),
	})

	listingSchema = object([]string{"listing"}, map[string]*openapi3.Schema{
		"listing": object(
			[]string{"title", "description", "price", "location", "country"},
			map[string]*openapi3.Schema{
				"title":       nonEmptyString(),
				"description": nonEmptyString(),
				"price":       openapi3.NewFloat64Schema().WithMin(0),
				"location":    nonEmptyString(),
				"country":     nonEmptyString(),
				"image":       imageSchema,
			},
		),
	})

	reviewSchema = object([]string{"review"}, map[string]*openapi3.Schema{
		"review": object(
			[]string{"rating", "comment"},
			map[string]*openapi3.Schema{
				"rating":  openapi3.NewIntegerSchema().WithMin(1).WithMax(5),
				"comment": nonEmptyString(),
			},
		),
	})
)

// ValidateListing checks a decoded listing payload of the form
// {"listing": {"title": ..., "price": ...}}.
func ValidateListing(payload map[string]any) Result[domain.ListingInput] {
	if msg := check(listingSchema, payload); msg != "" {
		return invalid[domain.ListingInput](msg)
	}

	fields := payload["listing"].(map[string]any)
	return valid(domain.ListingInput{
		Title:       fields["title"].(string),
		Description: fields["description"].(string),
		Price:       fields["price"].(float64),
		Location:    fields["location"].(string),
		Country:     fields["country"].(string),
	})
}

// ValidateReview checks a decoded review payload of the form
// {"review": {"rating": ..., "comment": ...}}.
func ValidateReview(payload map[string]any) Result[domain.ReviewInput] {
	if msg := check(reviewSchema, payload); msg != "" {
		return invalid[domain.ReviewInput](msg)
	}

	fields := payload["review"].(map[string]any)
	return valid(domain.ReviewInput{
		Rating:  int(fields["rating"].(float64)),
		Comment: fields["comment"].(string),
	})
}

// check returns every schema violation joined with ",", or "" when the payload is valid.
func check(schema *openapi3.Schema, payload map[string]any) string {
	err := schema.VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return ""
	}

	var multi openapi3.MultiError
	if !errors.As(err, &multi) {
		return describe(err)
	}

	msgs := make([]string, 0, len(multi))
	for _, e := range multi {
		msgs = append(msgs, describe(e))
	}
	return strings.Join(msgs, ",")
}

func describe(err error) string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		parts := make([]string, 0, len(multi))
		for _, e := range multi {
			parts = append(parts, describe(e))
		}
		return strings.Join(parts, ",")
	}

	var se *openapi3.SchemaError
	if !errors.As(err, &se) {
		return err.Error()
	}

	path := strings.Join(se.JSONPointer(), ".")
	switch se.SchemaField {
	case "required":
		return fmt.Sprintf("%q is required", path)
	case "minLength":
		return fmt.Sprintf("%q is not allowed to be empty", path)
	case "minimum":
		return fmt.Sprintf("%q must be greater than or equal to %v", path, *se.Schema.Min)
	case "maximum":
		return fmt.Sprintf("%q must be less than or equal to %v", path, *se.Schema.Max)
	case "type":
		return fmt.Sprintf("%q must be %s", path, typeName(se.Schema))
	}
	return fmt.Sprintf("%q %s", path, se.Reason)
}

func typeName(s *openapi3.Schema) string {
	switch {
	case s.Type.Is(openapi3.TypeInteger):
		return "an integer"
	case s.Type.Is(openapi3.TypeNumber):
		return "a number"
	case s.Type.Is(openapi3.TypeObject):
		return "an object"
	}
	return "a string"
}
