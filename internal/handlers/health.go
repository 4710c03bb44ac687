package handlers

import (
	"net/http"

	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/labstack/echo/v4"
)

// HealthCheck reports liveness and how many posts the directory holds
func HealthCheck(dir *directory.Directory) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": "post-directory",
			"posts":   dir.Len(),
		})
	}
}
