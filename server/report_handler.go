package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	errs "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/models"
	"github.com/wildsighthq/wildsight/server/response"
	"github.com/wildsighthq/wildsight/services"
)

// handleSubmitReport accepts either a multipart form with an image file or
// a JSON body carrying an already-stored image ref.
func (s *Server) handleSubmitReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SubmitReportRequest

		contentType := c.GetHeader("Content-Type")
		if strings.HasPrefix(contentType, "application/json") {
			if err := c.ShouldBindJSON(&req); err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
		} else {
			req.UserID = c.PostForm("user_id")
			req.Location = c.PostForm("location")
			req.Description = c.PostForm("description")

			fileHeader, err := c.FormFile("image")
			if err != nil {
				response.JSON(c, "image required", http.StatusBadRequest, nil, err)
				return
			}
			ok, ext := services.CheckSupportedImage(fileHeader.Filename)
			if !ok {
				response.JSON(c, "unsupported image type", http.StatusBadRequest, nil, nil)
				return
			}
			file, err := fileHeader.Open()
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				response.JSON(c, "", http.StatusBadRequest, nil, err)
				return
			}
			ref, err := s.AssetStore.Store(c.Request.Context(), data, ext)
			if err != nil {
				respondWithAPIError(c, err)
				return
			}
			req.ImageRef = ref
		}

		if err := models.ValidateWhiteSpaces(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, err)
			return
		}
		if req.ImageRef == "" {
			response.JSON(c, "image required", http.StatusBadRequest, nil, nil)
			return
		}

		res, err := s.ReportService.SubmitReport(req.UserID, req.Location, req.Description, req.ImageRef)
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		response.JSON(c, "report submitted", http.StatusCreated, res, nil)
	}
}

func (s *Server) handleListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := s.ReportService.GetAllReports()
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"reports": reports}, nil)
	}
}

func (s *Server) handleVerifyReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		res, err := s.ReportService.VerifyReport(id)
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		if res.AlreadyVerified {
			response.JSON(c, "already verified", http.StatusOK, res, nil)
			return
		}
		response.JSON(c, "report verified", http.StatusOK, res, nil)
	}
}

func (s *Server) handleFetchUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := s.AssetStore.Fetch(c.Request.Context(), c.Param("ref"))
		if err != nil {
			respondWithAPIError(c, err)
			return
		}
		c.Data(http.StatusOK, http.DetectContentType(data), data)
	}
}

// respondWithAPIError maps domain sentinels onto their HTTP status and
// hides everything else behind a generic server error.
func respondWithAPIError(c *gin.Context, err error) {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		response.JSON(c, "", apiErr.Status, nil, apiErr)
		return
	}
	response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}
