package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperror "agendamed/internal/errors"
)

var (
	once sync.Once
	v    *validator.Validate
)

// instance devolve o validador compartilhado; validator.Validate é seguro para uso concorrente
// e mantém cache das structs já inspecionadas.
func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Usa o nome JSON do campo nas mensagens, que é o que o cliente enviou.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Struct valida s pelas tags `validate` e traduz as falhas para um ValidationError.
func Struct(s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.NewInternalError("Falha ao validar payload.", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperror.NewValidationError(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", fe.Field())
	case "len":
		return fmt.Sprintf("%s deve ter %s caracteres", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s caracteres", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s caracteres", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s deve ser um email válido", fe.Field())
	case "numeric":
		return fmt.Sprintf("%s deve conter apenas dígitos", fe.Field())
	default:
		return fmt.Sprintf("%s é inválido (%s)", fe.Field(), fe.Tag())
	}
}
