// Входные данные пользователя: разбор JSON и проверка правил полей
package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"users-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Mode selects whether absent fields are violations.
type Mode int

const (
	// ModeCreate requires every field.
	ModeCreate Mode = iota
	// ModeUpdate checks only the fields that are present.
	ModeUpdate
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindBool
)

type fieldRule struct {
	name string
	kind fieldKind
	tags []string
}

var userRules = []fieldRule{
	{name: "firstName", kind: kindString, tags: []string{"required", "min=3"}},
	{name: "lastName", kind: kindString, tags: []string{"required", "min=3"}},
	{name: "isActive", kind: kindBool},
}

var validate = validator.New()

// UserRequest validated create/update payload
type UserRequest struct {
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// DecodeUserRequest parses payload and checks it against the user field rules.
// All violations are reported together in a *domain.ValidationError.
func DecodeUserRequest(payload []byte, mode Mode) (*UserRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", domain.ErrInvalidInput)
	}

	req := &UserRequest{}
	var violations []domain.Violation

	for _, rule := range userRules {
		value, ok := raw[rule.name]
		if !ok {
			if mode == ModeCreate {
				violations = append(violations, domain.Violation{
					Field:   rule.name,
					Rule:    "required",
					Message: rule.name + " is required",
				})
			}
			continue
		}

		switch rule.kind {
		case kindString:
			s, ok := decodeString(value)
			if !ok {
				violations = append(violations, typeViolation(rule.name, "string"))
				continue
			}
			violations = append(violations, checkTags(rule, s)...)
			switch rule.name {
			case "firstName":
				req.FirstName = &s
			case "lastName":
				req.LastName = &s
			}
		case kindBool:
			b, ok := decodeBool(value)
			if !ok {
				violations = append(violations, typeViolation(rule.name, "boolean"))
				continue
			}
			req.IsActive = &b
		}
	}

	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	return req, nil
}

// ToUser builds a new record. Only valid for ModeCreate requests.
func (r *UserRequest) ToUser() *domain.User {
	return domain.NewUser(*r.FirstName, *r.LastName, *r.IsActive)
}

func (r *UserRequest) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		IsActive:  r.IsActive,
	}
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func decodeString(value json.RawMessage) (string, bool) {
	var s string
	if isNull(value) || json.Unmarshal(value, &s) != nil {
		return "", false
	}
	return s, true
}

func decodeBool(value json.RawMessage) (bool, bool) {
	var b bool
	if isNull(value) || json.Unmarshal(value, &b) != nil {
		return false, false
	}
	return b, true
}

// checkTags evaluates each tag on its own so that an empty string reports
// both the required and the min violation.
func checkTags(rule fieldRule, value any) []domain.Violation {
	var violations []domain.Violation
	for _, tag := range rule.tags {
		err := validate.Var(value, tag)
		if err == nil {
			continue
		}

		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			// невалидный тег - ошибка программиста
			panic(err)
		}
		for _, fe := range fieldErrs {
			violations = append(violations, domain.Violation{
				Field:   rule.name,
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: ruleMessage(rule.name, fe),
			})
		}
	}
	return violations
}

func typeViolation(field, kind string) domain.Violation {
	return domain.Violation{
		Field:   field,
		Rule:    kind,
		Message: fmt.Sprintf("%s must be a %s", field, kind),
	}
}

func ruleMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
