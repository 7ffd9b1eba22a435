package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// OperatorHeader carries the name of the box-office operator.  It is not
// authenticated; it only labels requests for logs and rate limiting.
const OperatorHeader = "X-Operator"

const operatorKey = "operator"

// Operator copies OperatorHeader into the request context.
func Operator() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if op := strings.TrimSpace(c.Request().Header.Get(OperatorHeader)); op != "" {
				c.Set(operatorKey, op)
			}
			return next(c)
		}
	}
}

// OperatorID returns the operator of the request or "anon".
func OperatorID(c echo.Context) string {
	if s, ok := c.Get(operatorKey).(string); ok && s != "" {
		return s
	}
	return "anon"
}
