package helper

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"restaurant-directory/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// HTTPHelper writes JSON responses and maps domain errors to status codes.
type HTTPHelper struct {
	Logger *slog.Logger
}

func NewHTTPHelper(logger *slog.Logger) *HTTPHelper {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHelper{Logger: logger}
}

// GetStatusCode ...
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validationErr *models.ErrorValidation
		notFoundErr   *models.ErrorNotFound
		conflictErr   *models.ErrorConflict
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// SendError ...
// Send an error response with the status matching err.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	status := u.GetStatusCode(err)
	body := gin.H{"error": err.Error()}

	var validationErr *models.ErrorValidation
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		body["fields"] = validationErr.Fields
	}

	if status >= http.StatusInternalServerError {
		u.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, body)
}

// SendBadRequest ...
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// SendSuccess ...
func (u *HTTPHelper) SendSuccess(c *gin.Context, status int, data gin.H) {
	c.JSON(status, data)
}

// BindError converts a gin binding failure into a validation error naming
// the failing fields. Non-validation failures (malformed JSON) keep the
// decoder's message.
func BindError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return models.NewValidationError("Invalid request body: %v", err)
	}

	fields := map[string][]string{}
	var names []string
	for _, fe := range validationErrors {
		name := lowerFirst(fe.Field())
		if _, seen := fields[name]; !seen {
			names = append(names, name)
		}
		fields[name] = append(fields[name], bindMessage(fe))
	}
	return &models.ErrorValidation{
		Message: "Missing or invalid fields: " + strings.Join(names, ", "),
		Fields:  fields,
	}
}

func bindMessage(fe validator.FieldError) string {
	name := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s check", name, fe.Tag())
	}
}

func lowerFirst(s string) string {
	for i, r := range s {
		return string(unicode.ToLower(r)) + s[i+len(string(r)):]
	}
	return s
}
