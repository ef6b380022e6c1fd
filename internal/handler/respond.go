package handler

import (
	"net/http"

	"orgmanager/internal/apperr"
	"orgmanager/internal/middleware"
	"orgmanager/internal/model"

	"github.com/gin-gonic/gin"
)

// Error codes reported in the response envelope.
const (
	CodeAuthFailed      = "AUTH_FAILED"
	CodeOrgCreateFailed = "ORG_CREATE_FAILED"
	CodeOrgDeleteFailed = "ORG_DELETE_FAILED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// failure describes how a route reports errors whose code depends on the
// route. Internal errors always carry the generic internalMessage, the cause
// goes to details.error.
type failure struct {
	conflictCode    string
	internalCode    string
	internalMessage string
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, model.NewSuccessResponse(data, middleware.GetRequestID(c)))
}

func fail(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, model.NewErrorResponse(code, message, details, middleware.GetRequestID(c)))
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, CodeValidation, "Invalid request", map[string]interface{}{"error": err.Error()})
}

// respondError maps an apperr code to a status and envelope.
func respondError(c *gin.Context, err error, f failure) {
	msg := apperr.Message(err)

	switch apperr.Code(err) {
	case apperr.EInvalid:
		fail(c, http.StatusBadRequest, CodeValidation, msg, nil)
	case apperr.EConflict:
		code := f.conflictCode
		if code == "" {
			code = CodeValidation
		}
		fail(c, http.StatusBadRequest, code, msg, nil)
	case apperr.ENotFound:
		fail(c, http.StatusNotFound, CodeNotFound, msg, nil)
	case apperr.EUnauthorized:
		fail(c, http.StatusUnauthorized, CodeAuthFailed, msg, nil)
	default:
		_ = c.Error(err)
		code := f.internalCode
		if code == "" {
			code = CodeInternal
		}
		fail(c, http.StatusInternalServerError, code, f.internalMessage, map[string]interface{}{"error": err.Error()})
	}
}
