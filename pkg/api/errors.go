package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/tarsy/pkg/router"
)

// writeError maps an internal error to an HTTP status and writes the
// uniform ErrorResponse envelope, mirroring the teacher's mapServiceError
// (pkg/api/errors.go) but for gin rather than echo.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, router.ErrNoRoute):
		status = http.StatusNotFound
	case strings.Contains(err.Error(), "not found"):
		status = http.StatusNotFound
	case strings.Contains(err.Error(), "cannot pause"), strings.Contains(err.Error(), "cannot resume"), strings.Contains(err.Error(), "cannot run"):
		status = http.StatusConflict
	default:
		slog.Error("unexpected api error", "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
