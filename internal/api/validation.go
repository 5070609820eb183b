package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"ageback-backend-go/internal/core"
	"ageback-backend-go/internal/models"
)

// RegisterValidators installs the custom binding tags on gin's validator:
//
//	lessonid  a lesson id from the catalog
//	role      a role name accepted by models.ParseRole
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("lessonid", validateLessonID); err != nil {
		return err
	}
	return v.RegisterValidation("role", validateRole)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validateLessonID(fl validator.FieldLevel) bool {
	return models.IsKnownLesson(models.LessonID(fl.Field().Int()))
}

func validateRole(fl validator.FieldLevel) bool {
	_, err := models.ParseRole(fl.Field().String())
	return err == nil
}

// requiredReasons names the reason for a missing field when it differs
// from "<field>_required".
var requiredReasons = map[string]string{
	"lessonId": core.ReasonLessonRequired,
}

// bindError converts a binding failure into a validation response.
func bindError(err error) apiError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "lessonid":
			return apiError{http.StatusBadRequest, core.ReasonUnknownLesson, "Unknown lesson"}
		case "role":
			return apiError{http.StatusBadRequest, core.ReasonInvalidRole, "Role must be lead or customer"}
		case "required":
			reason, ok := requiredReasons[fe.Field()]
			if !ok {
				reason = fe.Field() + "_required"
			}
			return apiError{http.StatusBadRequest, reason, fe.Field() + " is required"}
		}
		return apiError{http.StatusBadRequest, ReasonInvalidRequest, fe.Field() + " is invalid"}
	}
	return apiError{http.StatusBadRequest, ReasonInvalidRequest, "Invalid request payload"}
}
