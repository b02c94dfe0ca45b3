package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"users-api/internal/apperr"
	"users-api/internal/domain"
)

var (
	errNotObject = errors.New("body is not a JSON object")
	errMalformed = errors.New("body is not valid JSON")
)

type createUserRequest struct {
	Username *string    `json:"username" binding:"required"`
	Age      *float64   `json:"age" binding:"required"`
	Hobbies  *[]*string `json:"hobbies" binding:"required,dive,required"`
}

// ValidateCreatePayload decodes a create request body. All of username, age
// and hobbies must be present with the right JSON types. The returned user
// carries a fresh random id.
func ValidateCreatePayload(raw []byte) (domain.User, error) {
	// the binder stops after the first JSON value
	if !json.Valid(raw) {
		return domain.User{}, invalidBody(errMalformed)
	}

	var req createUserRequest
	if err := binding.JSON.BindBody(raw, &req); err != nil {
		return domain.User{}, invalidBody(err)
	}
	age, ok := toAge(*req.Age)
	if !ok {
		return domain.User{}, invalidBody(fmt.Errorf("age %v is not an integer", *req.Age))
	}

	hobbies, ok := derefAll(*req.Hobbies)
	if !ok {
		return domain.User{}, invalidBody(errors.New("hobbies must be an array of strings"))
	}

	return domain.User{
		ID:       uuid.NewString(),
		Username: *req.Username,
		Age:      age,
		Hobbies:  hobbies,
	}, nil
}

// ValidateUpdatePayload merges the fields of an update request body onto a
// copy of existing. Each of username, age and hobbies is applied on its own
// when present with the right type; anything else is ignored. Only a body
// that is not a JSON object is rejected.
func ValidateUpdatePayload(raw []byte, existing domain.User) (domain.User, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.User{}, invalidBody(err)
	}
	if fields == nil {
		return domain.User{}, invalidBody(errNotObject)
	}

	user := existing.Clone()

	if value, ok := fields["username"]; ok {
		var username string
		if isString(value) && json.Unmarshal(value, &username) == nil {
			user.Username = username
		}
	}
	if value, ok := fields["age"]; ok {
		var number float64
		if isNumber(value) && json.Unmarshal(value, &number) == nil {
			if age, ok := toAge(number); ok {
				user.Age = age
			}
		}
	}
	if value, ok := fields["hobbies"]; ok {
		var elems []*string
		if isArray(value) && json.Unmarshal(value, &elems) == nil {
			if hobbies, ok := derefAll(elems); ok {
				user.Hobbies = hobbies
			}
		}
	}

	return user, nil
}

// derefAll copies elems into a fresh slice; a null element fails it.
func derefAll(elems []*string) ([]string, bool) {
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		if elem == nil {
			return nil, false
		}
		out = append(out, *elem)
	}
	return out, true
}

func invalidBody(err error) error {
	return apperr.New(apperr.InvalidBody, err)
}

func toAge(number float64) (int, bool) {
	if math.IsNaN(number) || math.IsInf(number, 0) || number != math.Trunc(number) {
		return 0, false
	}
	if number > math.MaxInt32 || number < math.MinInt32 {
		return 0, false
	}
	return int(number), true
}

// encoding/json decodes null into any type without error, so the leading
// byte decides the JSON type before decoding.

func isString(value json.RawMessage) bool {
	return len(value) > 0 && value[0] == '"'
}

func isArray(value json.RawMessage) bool {
	return len(value) > 0 && value[0] == '['
}

func isNumber(value json.RawMessage) bool {
	return len(value) > 0 && (value[0] == '-' || (value[0] >= '0' && value[0] <= '9'))
}
