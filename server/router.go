package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 10})
	limitSubmit := limitRateForSubmit(store)

	apirouter := router.Group("/api/v1")
	apirouter.POST("/reports", limitSubmit, s.handleSubmitReport())
	apirouter.GET("/rewards", s.handleGetRewardCatalog())
	apirouter.POST("/redeem", s.handleRedeem())
	apirouter.GET("/points/:userID", s.handleGetBalance())
	apirouter.GET("/redemptions/:userID", s.handleGetRedemptions())
	apirouter.GET("/uploads/:ref", s.handleFetchUpload())
	apirouter.POST("/admin/login", s.handleAdminLogin())

	authorized := apirouter.Group("/admin")
	authorized.Use(s.Authorize())
	authorized.GET("/reports", s.handleListReports())
	authorized.POST("/reports/:id/verify", s.handleVerifyReport())
}
