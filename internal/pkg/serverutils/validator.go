package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"music-promo-be/internal/apperror"
)

var validate = validator.New()

// ValidateRequest checks struct tags and folds violations into a single
// validation error the error middleware can render.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidation("%s", err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return apperror.NewValidation("%s", strings.Join(msgs, "; "))
}
