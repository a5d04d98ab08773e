package handler

import (
	"errors"
	"net/http"

	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/middleware"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serverErrorMessage = "Server Error"

// respondWithError is the single place where failures become responses.
// Only classified errors expose their message.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var parseErr *query.ParseError
	if errors.As(err, &parseErr) {
		utils.ErrorResponse(c, http.StatusBadRequest, parseErr.Error())
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) && appErr.Kind != appErrors.KindUpstream {
		status := appErrors.StatusOf(appErr.Kind)
		if status >= http.StatusInternalServerError {
			logError(c, err)
		}
		utils.ErrorResponse(c, status, appErr.Message)
		return
	}

	logError(c, err)
	utils.ErrorResponse(c, http.StatusInternalServerError, serverErrorMessage)
}

func logError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
}

// bindJSON decodes the body into req. Field validation happens in the
// services, which know the rules.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
