package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kay-social/internal/domain"
	"kay-social/internal/storage"
)

var errorStatus = map[string]int{
	"InvalidInput":          http.StatusBadRequest,
	"InvalidImage":          http.StatusBadRequest,
	"DuplicateUsername":     http.StatusConflict,
	"DuplicateEmail":        http.StatusConflict,
	"UserNotFound":          http.StatusNotFound,
	"PostNotFound":          http.StatusNotFound,
	"InvalidCredentials":    http.StatusUnauthorized,
	"TokenMalformed":        http.StatusUnauthorized,
	"TokenExpired":          http.StatusUnauthorized,
	"TokenSignatureInvalid": http.StatusUnauthorized,
	"Forbidden":             http.StatusForbidden,
}

// fail renders err as {"error", "kind"}. Unclassified errors are logged and
// reported without detail.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrImageNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "NotFound"})
		return
	}

	kind := domain.Kind(err)
	status, ok := errorStatus[kind]
	if !ok {
		h.logger.WithField(requestIDKey, c.GetString(requestIDKey)).
			Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "kind": kind})
		return
	}
	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

// badRequest reports an unreadable request body. The decoder's message stays
// in the log.
func (h *Handler) badRequest(c *gin.Context, err error) {
	log := h.logger.WithField(requestIDKey, c.GetString(requestIDKey))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		log.Infof("%s %s: body over %d bytes", c.Request.Method, c.FullPath(), tooLarge.Limit)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large", "kind": "InvalidInput"})
		return
	}
	log.Debugf("%s %s: bind: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body", "kind": "InvalidInput"})
}
