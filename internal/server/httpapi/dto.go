package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gatekeeper/internal/common"
	"github.com/dmitrijs2005/gatekeeper/internal/server/forms"
	"github.com/dmitrijs2005/gatekeeper/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
)

// maxBodyBytes caps the request bodies read by decodeForm and decodeStruct.
const maxBodyBytes = 64 << 10

var (
	errMalformedBody = &common.BadRequestError{Reason: "Malformed JSON body"}
	errBodyTooLarge  = &common.BadRequestError{Reason: "Request body too large"}
)

// bodyError classifies a JSON decode failure of a size-limited body.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errBodyTooLarge
	}
	return errMalformedBody
}

// decodeForm reads a JSON object body and binds it to fields. An empty body
// is treated as an empty object.
func decodeForm(w http.ResponseWriter, r *http.Request, fields ...*forms.Field) error {
	values := map[string]any{}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return bodyError(err)
	}
	return forms.Bind(values, fields...)
}

type setRolesRequest struct {
	Roles []string `json:"roles"`
}

func (r setRolesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Roles,
			validation.Required.Error("roles must contain at least 1 elements"),
		),
	)
}

func (r setRolesRequest) roles() []models.Role {
	return models.RolesFromStrings(r.Roles)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r setActiveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IsActive,
			validation.NotNil.Error("isActive must be a boolean value"),
		),
	)
}

// decodeStruct reads a JSON body into dst, rejecting unknown properties, and
// runs its ozzo rules.
func decodeStruct(w http.ResponseWriter, r *http.Request, dst validation.Validatable) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return &common.ValidationError{Messages: []string{
				fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`)),
			}}
		}
		return bodyError(err)
	}
	return validationError(dst.Validate())
}

// validationError flattens ozzo's per-field errors into a
// *common.ValidationError ordered by field name.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &common.ValidationError{Messages: []string{err.Error()}}
	}

	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, errs[k].Error())
	}
	return &common.ValidationError{Messages: messages}
}
