package api

import (
	"errors"
	"fmt"
	"net/http"

	"creator_support/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Error codes carried in the "error" field of failure bodies
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeMissingFields      = "MISSING_REQUIRED_FIELDS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeProfileExists      = "PROFILE_EXISTS"
	CodeForeignKey         = "FOREIGN_KEY_CONSTRAINT"
	CodeDuplicate          = "DUPLICATE_FIELD"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeServerConfig       = "SERVER_CONFIGURATION_ERROR"
	CodeInternal           = "INTERNAL_ERROR"
	CodeIncorrectPassword  = "INCORRECT_PASSWORD"
	CodeUnbalancedEntry    = "UNBALANCED_ENTRY"
	CodeInvalidAccountType = "INVALID_ACCOUNT_TYPE"
)

// HTTPError is a failure the handlers know how to render
type HTTPError struct {
	Status  int
	Message string
	Code    string
	Field   string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.Err }

func validationError(msg, field string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: msg, Code: CodeValidation, Field: field}
}

func notFound(msg, code string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: msg, Code: code}
}

func conflict(status int, msg, code, field string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: msg, Code: code, Field: field, Err: err}
}

func unauthorized(msg string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: msg, Code: CodeUnauthorized}
}

func internalError(msg string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: msg, Code: CodeInternal, Err: err}
}

// duplicateField turns a unique violation into the 400 the sign-up form expects
func duplicateField(err error) *HTTPError {
	var cv *store.ConstraintViolation
	if !errors.As(err, &cv) || cv.Kind != store.KindUnique {
		return nil
	}
	switch cv.Field {
	case "email":
		return conflict(http.StatusBadRequest, "Email already exists", CodeDuplicate, "email", err)
	case "username":
		return conflict(http.StatusBadRequest, "Username already exists", CodeDuplicate, "username", err)
	case "":
		return conflict(http.StatusBadRequest, "Value already exists", CodeDuplicate, "", err)
	}
	return conflict(http.StatusBadRequest, fmt.Sprintf("%s already exists", cv.Field), CodeDuplicate, cv.Field, err)
}

// respondError writes the JSON failure body and logs server-side failures
func respondError(c *gin.Context, e *HTTPError) {
	if e.Status >= http.StatusInternalServerError {
		fields := logrus.Fields{"path": c.FullPath(), "status": e.Status}
		if e.Err != nil {
			fields["error"] = e.Err.Error()
		}
		logrus.WithFields(fields).Error(e.Message)
	}
	body := gin.H{"message": e.Message}
	if e.Code != "" {
		body["error"] = e.Code
	}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.AbortWithStatusJSON(e.Status, body)
}
