package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wildsighthq/wildsight/models"
	"github.com/wildsighthq/wildsight/server/response"
)

func (s *Server) handleAdminLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AdminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := models.ValidateWhiteSpaces(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		token, apiErr := s.AuthGate.Login(req.Username, req.Password)
		if apiErr != nil {
			response.JSON(c, "", apiErr.Status, nil, apiErr)
			return
		}
		c.JSON(http.StatusOK, models.AdminLoginResponse{Token: token})
	}
}
