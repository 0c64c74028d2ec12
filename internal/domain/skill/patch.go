package skill

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	FieldID           = "id"
	FieldSkillName    = "skill_name"
	FieldResourceType = "resource_type"
	FieldPlatform     = "platform"
	FieldProgress     = "progress"
	FieldHoursSpent   = "hours_spent"
	FieldDifficulty   = "difficulty"
	FieldNotes        = "notes"
)

// RequiredFields must be present, and non-blank, when a record is created.
var RequiredFields = []string{FieldSkillName, FieldResourceType, FieldPlatform}

// Nullable distinguishes an absent key (Set=false) from an explicit null
// (Set=true, Value=nil).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Patch is a validated set of field assignments. Only the enumerated fields
// can be expressed; anything else is rejected while decoding.
type Patch struct {
	ID           *int64
	SkillName    *string
	ResourceType *string
	Platform     *string
	Progress     Nullable[string]
	HoursSpent   *float64
	Difficulty   *int
	Notes        Nullable[string]

	// blank holds required labels that were sent as empty strings.
	blank []string
}

// FieldError reports a payload key that is unknown or carries a bad value.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DecodePatch turns a raw JSON object into a Patch. Unknown keys, values of
// the wrong JSON type and out-of-range values are reported as *FieldError;
// when several keys are unknown they are reported together, sorted.
func DecodePatch(raw map[string]json.RawMessage) (Patch, error) {
	var unknown []string
	for k := range raw {
		if !isKnownField(k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Patch{}, &FieldError{Field: strings.Join(unknown, ", "), Reason: "unknown field"}
	}

	var p Patch
	var err error

	if v, ok := raw[FieldID]; ok {
		var id int64
		if isNull(v) || json.Unmarshal(v, &id) != nil {
			return Patch{}, &FieldError{Field: FieldID, Reason: "must be an integer"}
		}
		p.ID = &id
	}
	if p.SkillName, err = p.decodeLabel(raw, FieldSkillName, MaxSkillNameLen); err != nil {
		return Patch{}, err
	}
	if p.ResourceType, err = p.decodeLabel(raw, FieldResourceType, MaxResourceTypeLen); err != nil {
		return Patch{}, err
	}
	if p.Platform, err = p.decodeLabel(raw, FieldPlatform, MaxPlatformLen); err != nil {
		return Patch{}, err
	}
	if p.Progress, err = decodeNullableString(raw, FieldProgress, MaxProgressLen); err != nil {
		return Patch{}, err
	}
	if p.Notes, err = decodeNullableString(raw, FieldNotes, 0); err != nil {
		return Patch{}, err
	}

	if v, ok := raw[FieldHoursSpent]; ok {
		var h float64
		if isNull(v) || json.Unmarshal(v, &h) != nil {
			return Patch{}, &FieldError{Field: FieldHoursSpent, Reason: "must be a number"}
		}
		if h < 0 || math.IsInf(h, 0) || math.IsNaN(h) {
			return Patch{}, &FieldError{Field: FieldHoursSpent, Reason: "must not be negative"}
		}
		p.HoursSpent = &h
	}

	if v, ok := raw[FieldDifficulty]; ok {
		var d int
		if isNull(v) || json.Unmarshal(v, &d) != nil {
			return Patch{}, &FieldError{Field: FieldDifficulty, Reason: "must be an integer"}
		}
		if d < MinDifficulty || d > MaxDifficulty {
			return Patch{}, &FieldError{Field: FieldDifficulty, Reason: fmt.Sprintf("must be between %d and %d", MinDifficulty, MaxDifficulty)}
		}
		p.Difficulty = &d
	}

	return p, nil
}

// MissingRequired lists the required fields p does not carry, counting
// blank values as missing.
func (p Patch) MissingRequired() []string {
	var missing []string
	if p.SkillName == nil {
		missing = append(missing, FieldSkillName)
	}
	if p.ResourceType == nil {
		missing = append(missing, FieldResourceType)
	}
	if p.Platform == nil {
		missing = append(missing, FieldPlatform)
	}
	return missing
}

// BlankError reports required labels sent as empty strings, which an update
// must not accept.
func (p Patch) BlankError() error {
	if len(p.blank) == 0 {
		return nil
	}
	return &FieldError{Field: strings.Join(p.blank, ", "), Reason: "must not be empty"}
}

// Empty reports whether p assigns no writable field.
func (p Patch) Empty() bool {
	return len(p.blank) == 0 && p.SkillName == nil && p.ResourceType == nil && p.Platform == nil &&
		!p.Progress.Set && p.HoursSpent == nil && p.Difficulty == nil && !p.Notes.Set
}

func isKnownField(k string) bool {
	switch k {
	case FieldID, FieldSkillName, FieldResourceType, FieldPlatform,
		FieldProgress, FieldHoursSpent, FieldDifficulty, FieldNotes:
		return true
	}
	return false
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeLabel reads a required text field, trimmed. A blank value leaves the
// field unset and is remembered in p.blank.
func (p *Patch) decodeLabel(raw map[string]json.RawMessage, field string, maxLen int) (*string, error) {
	v, ok := raw[field]
	if !ok {
		return nil, nil
	}
	var s string
	if isNull(v) || json.Unmarshal(v, &s) != nil {
		return nil, &FieldError{Field: field, Reason: "must be a string"}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		p.blank = append(p.blank, field)
		return nil, nil
	}
	if utf8.RuneCountInString(s) > maxLen {
		return nil, &FieldError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return &s, nil
}

func decodeNullableString(raw map[string]json.RawMessage, field string, maxLen int) (Nullable[string], error) {
	v, ok := raw[field]
	if !ok {
		return Nullable[string]{}, nil
	}
	if isNull(v) {
		return Nullable[string]{Set: true}, nil
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return Nullable[string]{}, &FieldError{Field: field, Reason: "must be a string or null"}
	}
	if maxLen > 0 && utf8.RuneCountInString(s) > maxLen {
		return Nullable[string]{}, &FieldError{Field: field, Reason: fmt.Sprintf("must be at most %d characters", maxLen)}
	}
	return Nullable[string]{Set: true, Value: &s}, nil
}
