package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/cart-pricing/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Handler exposes the quote endpoint.
type Handler struct {
	Svc *Service
}

// Create prices the submitted cart.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "quote service not configured", nil)
		return
	}
	in, err := decodeInput(r)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out, err := h.Svc.Quote(r.Context(), in)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, out)
}

func decodeInput(r *http.Request) (Input, error) {
	var in Input
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return Input{}, common.NewAppError("INVALID_BODY", "invalid request body", http.StatusBadRequest, err)
	}
	if err := validate.Struct(in); err != nil {
		return Input{}, validationError(err)
	}
	return in, nil
}

func validationError(err error) *common.AppError {
	appErr := common.NewAppError("VALIDATION_FAILED", "validation failed", http.StatusUnprocessableEntity, err)
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return appErr
	}
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[strings.TrimPrefix(fe.Namespace(), "Input.")] = validationMessage(fe)
	}
	return appErr.WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	}
	return "is invalid"
}
