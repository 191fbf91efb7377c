// Package ginadapter bridges the net/http WebX403 middleware into Gin.
package ginadapter

import (
	"net/http"

	"github.com/gin-gonic/gin"
	webx403 "github.com/webx403/webx403-go"
	"github.com/webx403/webx403-go/middleware"
)

// AuthMiddleware creates a Gin handler enforcing WebX403 authentication.
// The authenticated user is available through [UserFromContext].
func AuthMiddleware(engine *webx403.Engine) gin.HandlerFunc {
	guard := middleware.Guard(engine)

	return func(c *gin.Context) {
		handler := guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		if c.Writer.Written() {
			c.Abort()
		}
	}
}

// UserFromContext returns the authenticated user for the current Gin
// request.
func UserFromContext(c *gin.Context) (*webx403.User, bool) {
	return middleware.UserFromContext(c.Request.Context())
}
