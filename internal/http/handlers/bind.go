package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondBadRequest(ctx, bindErrorMessage(err))

		return false
	}

	return true
}

func bindErrorMessage(err error) string {
	// validator errors (struct bind tags): name the missing fields

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]string, 0, len(validatorError))

		for _, fieldError := range validatorError {
			if fieldError.Tag() == "required" {
				fields = append(fields, strings.ToLower(fieldError.Field()))
			}
		}

		switch len(fields) {
		case 0:
			// non-presence rule failed; should not happen with our tags
		case 1:
			return capitalize(fields[0]) + " is required"
		default:
			last := fields[len(fields)-1]
			return capitalize(strings.Join(fields[:len(fields)-1], ", ")) + ", and " + last + " are required"
		}
	}

	// bad json syntax, type mismatches and everything else
	return "Invalid request body"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
