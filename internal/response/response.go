package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"queuewise/internal/explain"
	"queuewise/internal/rules"
)

// ErrorResponse is the envelope for failures that are not rule violations
type ErrorResponse struct {
	// Machine-readable error code
	// example: DB_ERROR
	Code string `json:"code"`

	// example: Failed to load queue
	Message string `json:"message"`

	// Optional details
	Details string `json:"details,omitempty"`
}

// RuleError is returned when a business rule blocks an action
type RuleError struct {
	// example: Sorry, that action isn't allowed: Alice is already waiting in this queue.
	Error string `json:"error"`

	// example: DUPLICATE_JOIN
	RuleCode string `json:"rule_code"`
}

// ValidationErrors lists request-shape problems per field
type ValidationErrors struct {
	Errors map[string][]string `json:"errors" swaggertype:"object"`
}

func NewRuleError(v *rules.Violation) RuleError {
	return RuleError{Error: explain.RuleFailure(v.Reason), RuleCode: string(v.Code)}
}

// NewValidationErrors converts a binding error into field messages. Errors that are
// not validator errors, such as malformed JSON, land under "body".
func NewValidationErrors(err error) ValidationErrors {
	fields := make(map[string][]string)

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["body"] = []string{"Invalid request body."}
		return ValidationErrors{Errors: fields}
	}

	for _, fe := range verrs {
		name := fe.Field()
		fields[name] = append(fields[name], fieldMessage(fe))
	}
	return ValidationErrors{Errors: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Missing data for required field."
	case "notblank":
		return "Field may not be blank."
	case "min":
		return "Shorter than minimum length " + fe.Param() + "."
	case "max":
		return "Longer than maximum length " + fe.Param() + "."
	}
	return "Invalid value (" + strings.ToLower(fe.Tag()) + ")."
}

// AbortWithViolation writes v with the given status.
func AbortWithViolation(c *gin.Context, status int, v *rules.Violation) {
	c.AbortWithStatusJSON(status, NewRuleError(v))
}

func AbortWithValidation(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, NewValidationErrors(err))
}
