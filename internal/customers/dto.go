package customers

import (
	"bytes"
	"encoding/json"
)

// UpdatableFields lists the JSON keys a PATCH may carry.
var UpdatableFields = []string{"phone_number", "address", "email"}

// UpdateCustomerRequest is the PATCH /customers/{id} body. Unknown keys are
// ignored.
type UpdateCustomerRequest struct {
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitnil,min=10,max=20"`
	Address     *string `json:"address,omitempty" validate:"omitnil,min=5,max=200"`
	Email       *string `json:"email,omitempty" validate:"omitnil,contains=@"`

	// NonString names updatable keys that were present with a value other
	// than a JSON string, null included.
	NonString []string `json:"-"`
}

// UnmarshalJSON accepts any JSON object. A present updatable key must hold a
// string; anything else is recorded in NonString for validation to report.
func (r *UpdateCustomerRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = UpdateCustomerRequest{}
	targets := map[string]**string{
		"phone_number": &r.PhoneNumber,
		"address":      &r.Address,
		"email":        &r.Email,
	}
	for _, name := range UpdatableFields {
		value, ok := raw[name]
		if !ok {
			continue
		}
		var s string
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) || json.Unmarshal(value, &s) != nil {
			r.NonString = append(r.NonString, name)
			continue
		}
		*targets[name] = &s
	}
	return nil
}

// Patch converts the request into a repository patch.
func (r UpdateCustomerRequest) Patch() Patch {
	return Patch{
		PhoneNumber: r.PhoneNumber,
		Address:     r.Address,
		Email:       r.Email,
	}
}
