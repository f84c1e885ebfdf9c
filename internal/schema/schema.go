// ABOUTME: Closed JSON schemas for the workouts and workoutlogs collections.
// ABOUTME: Documents are validated here before they reach a backend and after they leave one.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Collection names.
const (
	Workouts    = "workouts"
	WorkoutLogs = "workoutlogs"
)

// Field bounds shared by both record kinds.
const (
	MaxIDLength    = 100
	MaxNameLength  = 200
	MaxNotesLength = 1000
	MaxReps        = 1000
	MaxWeight      = 10000
	MaxDuration    = 86400
)

// ErrInvalidDocument is returned when a document does not match its collection schema.
var ErrInvalidDocument = errors.New("invalid document")

// Collections lists every registered collection name.
var Collections = []string{Workouts, WorkoutLogs}

func ptr[T any](v T) *T { return &v }

// closed marks an object schema as rejecting unknown properties.
func closed(s *jsonschema.Schema) *jsonschema.Schema {
	s.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
	return s
}

func str(maxLen int) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", MaxLength: ptr(maxLen)}
}

func nonEmptyStr(maxLen int) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", MinLength: ptr(1), MaxLength: ptr(maxLen)}
}

func number(maxValue float64) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Minimum: ptr(0.0), Maximum: ptr(maxValue)}
}

func dateTime() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Format: "date-time"}
}

func setSchema() *jsonschema.Schema {
	return closed(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"reps":      number(MaxReps),
			"weight":    number(MaxWeight),
			"duration":  number(MaxDuration),
			"completed": {Type: "boolean"},
		},
		Required: []string{"completed"},
	})
}

func exercisesSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "array",
		Items: closed(&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"exerciseId":   str(MaxIDLength),
				"exerciseName": str(MaxNameLength),
				"sets": {
					Type:  "array",
					Items: setSchema(),
				},
			},
			Required: []string{"exerciseId", "exerciseName", "sets"},
		}),
	}
}

// Workout returns the schema for workout templates.
func Workout() *jsonschema.Schema {
	return closed(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":          str(MaxIDLength),
			"name":        nonEmptyStr(MaxNameLength),
			"exercises":   exercisesSchema(),
			"createdAt":   dateTime(),
			"completedAt": dateTime(),
			"duration":    number(MaxDuration),
			"notes":       str(MaxNotesLength),
		},
		Required: []string{"id", "name", "exercises", "createdAt"},
	})
}

// WorkoutLog returns the schema for workout logs.
func WorkoutLog() *jsonschema.Schema {
	return closed(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":          str(MaxIDLength),
			"workoutId":   str(MaxIDLength),
			"workoutName": nonEmptyStr(MaxNameLength),
			"exercises":   exercisesSchema(),
			"startedAt":   dateTime(),
			"completedAt": dateTime(),
			"duration":    number(MaxDuration),
			"notes":       str(MaxNotesLength),
		},
		Required: []string{"id", "workoutId", "workoutName", "exercises", "startedAt"},
	})
}

// Validator checks raw documents against one collection's schema.
type Validator struct {
	collection string
	resolved   *jsonschema.Resolved
}

// New resolves the schema registered for collection.
func New(collection string) (*Validator, error) {
	var s *jsonschema.Schema
	switch collection {
	case Workouts:
		s = Workout()
	case WorkoutLogs:
		s = WorkoutLog()
	default:
		return nil, fmt.Errorf("unknown collection: %q", collection)
	}

	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve %s schema: %w", collection, err)
	}
	return &Validator{collection: collection, resolved: resolved}, nil
}

// Collection returns the collection name this validator guards.
func (v *Validator) Collection() string {
	return v.collection
}

// Validate checks doc against the collection schema.
func (v *Validator) Validate(doc []byte) error {
	var instance any
	if err := json.Unmarshal(doc, &instance); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, v.collection, err)
	}
	if err := v.resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDocument, v.collection, err)
	}
	return nil
}

// Encode marshals value and validates the result.
func Encode(v *Validator, value any) ([]byte, error) {
	doc, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s document: %w", v.collection, err)
	}
	if err := v.Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode validates doc and unmarshals it into a T. Unknown fields are rejected
// and timestamps must be RFC 3339.
func Decode[T any](v *Validator, doc []byte) (*T, error) {
	if err := v.Validate(doc); err != nil {
		return nil, err
	}

	var result T
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, v.collection, err)
	}
	return &result, nil
}
