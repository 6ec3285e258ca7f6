package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const FarmerKey = "farmer_id"

// FarmerScope resolves the farmer a request acts for from the :farmer_id
// path parameter, falling back to the X-Farmer-Id header, and stores it
// under FarmerKey. Requests without a usable id get 400.
func FarmerScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param("farmer_id")
			if raw == "" {
				raw = c.Request().Header.Get("X-Farmer-Id")
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || id == 0 {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid farmer id"})
			}
			c.Set(FarmerKey, uint(id))
			return next(c)
		}
	}
}

// Farmer returns the id stored by FarmerScope.
func Farmer(c echo.Context) (uint, bool) {
	id, ok := c.Get(FarmerKey).(uint)
	return id, ok
}
