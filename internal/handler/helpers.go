package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/codegen/internal/ai"
	"github.com/xxxsen/codegen/internal/middleware"
	"github.com/xxxsen/codegen/internal/pkg/errcode"
	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
	"github.com/xxxsen/codegen/internal/pkg/listutil"
	"github.com/xxxsen/codegen/internal/pkg/response"
)

const messageSep = "; "

func parseNumber(c *gin.Context) (int, error) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return 0, appErr.ErrInvalid
	}
	return number, nil
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	msg := listutil.JoinMessages(err, messageSep)
	switch {
	case errors.Is(err, appErr.ErrInvalidInputNumber):
		response.Error(c, errcode.ErrInvalidInputNumber, msg)
	case errors.Is(err, appErr.ErrMissingDocumentVector):
		response.Error(c, errcode.ErrMissingDocumentVector, msg)
	case errors.Is(err, appErr.ErrSampleNotFound):
		response.Error(c, errcode.ErrSampleNotFound, msg)
	case errors.Is(err, ai.ErrUnavailable):
		response.Error(c, errcode.ErrAIUnavailable, "ai not configured")
	case errors.Is(err, appErr.ErrAPI):
		response.Error(c, errcode.ErrAPI, msg)
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, "unauthorized")
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, "not found")
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}
