package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "moneta.backend/internal/domain/errors"
	"moneta.backend/pkg/utils"
)

// Two envelope shapes coexist on purpose. Success and validation failures
// use the status/message/data shape; domain and auth errors use the
// success:false shape with a coded error object. Clients of the original
// API rely on both.

// FieldError is a single per-field validation failure
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Success sends `{status:"success", message, data}`
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

// Paginated sends a success envelope with list data and pagination metadata.
// The list key is caller-supplied so each resource keeps its own name in the
// payload (e.g. `data.wallets`).
func Paginated(c *gin.Context, status int, message, key string, items interface{}, meta utils.PaginationMeta) {
	c.JSON(status, gin.H{
		"status":  "success",
		"message": message,
		"data": gin.H{
			key:          items,
			"pagination": meta,
		},
	})
}

// ValidationFailed sends `{status:"error", message, errors:[{path,message}]}`
func ValidationFailed(c *gin.Context, errs []FieldError) {
	c.JSON(400, gin.H{
		"status":  "error",
		"message": "Validation failed",
		"errors":  errs,
	})
}

// Error sends `{success:false, error:{code,message}, message}` derived from
// an AppError. Anything else is treated as an internal error with the cause
// suppressed.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if e, ok := err.(*domainerrors.AppError); ok {
		appErr = e
	} else {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
		"message": appErr.Message,
	})
}
