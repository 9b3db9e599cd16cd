package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"intercolor/internal/apierror"
	"intercolor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// decimal.Decimal validates through its float value so the numeric rules
	// (gt, gte, ...) apply directly.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report the JSON field name, not the Go one.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindAndValidate binds the JSON body into req and runs struct validation,
// responding 422 with per-field errors on failure. Returns false when the
// request was already answered.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{
			"body": "JSON invalido",
		}))
		return false
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = validationMessage(fe)
			}
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
			return false
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Error de validacion"))
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "el campo es obligatorio"
	case "email":
		return "debe ser un email valido"
	case "min":
		return "es demasiado corto (minimo " + fe.Param() + ")"
	case "max":
		return "es demasiado largo (maximo " + fe.Param() + ")"
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "gte":
		return "debe ser mayor o igual que " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "url":
		return "debe ser una URL valida"
	default:
		return "valor invalido"
	}
}

// parseUUIDParam reads a path parameter as UUID, responding 400 on garbage.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Identificador invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError translates domain and persistence errors into the HTTP
// error envelope.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Recurso no encontrado"))
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrProductInactive),
		errors.Is(err, service.ErrCategoryCycle),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New(err.Error()))
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("internal error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
