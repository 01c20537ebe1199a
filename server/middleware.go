package server

import (
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	errs "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/server/response"
)

// Authorize gates admin operations behind the auth collaborator. The
// credential is an opaque bearer token; everything about its strength
// lives in the gate.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		identity, apiErr := s.AuthGate.VerifyCredential(accessToken)
		if apiErr != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		c.Set("identity", identity)
		c.Set("access_token", accessToken)
		c.Next()
	}
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}

// limitRateForSubmit throttles report submission per client IP.
func limitRateForSubmit(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			respondAndAbort(c, "too many submissions, try again in "+time.Until(info.ResetTime).String(), http.StatusTooManyRequests, nil, nil)
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
