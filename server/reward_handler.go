package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wildsighthq/wildsight/models"
	"github.com/wildsighthq/wildsight/server/response"
)

func (s *Server) handleGetRewardCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rewards": s.RewardService.Catalog()})
	}
}

func (s *Server) handleRedeem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RedeemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if err := models.ValidateWhiteSpaces(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}

		redemption, err := s.RewardService.Redeem(req.UserID, req.RewardID)
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "redemption": redemption})
	}
}

func (s *Server) handleGetBalance() gin.HandlerFunc {
	return func(c *gin.Context) {
		balance, err := s.RewardService.Balance(c.Param("userID"))
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}

func (s *Server) handleGetRedemptions() gin.HandlerFunc {
	return func(c *gin.Context) {
		redemptions, err := s.RewardService.GetRedemptionsByUserID(c.Param("userID"))
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"redemptions": redemptions})
	}
}
