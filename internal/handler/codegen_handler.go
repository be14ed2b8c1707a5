package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/codegen/internal/model"
	"github.com/xxxsen/codegen/internal/pkg/codeblock"
	appErr "github.com/xxxsen/codegen/internal/pkg/errors"
	"github.com/xxxsen/codegen/internal/pkg/response"
	"github.com/xxxsen/codegen/internal/service"
	"github.com/xxxsen/codegen/internal/similarity"
)

type CodeGenHandler struct {
	codegen *service.CodeGenService
	corpus  *service.CorpusService
}

func NewCodeGenHandler(codegen *service.CodeGenService, corpus *service.CorpusService) *CodeGenHandler {
	return &CodeGenHandler{codegen: codegen, corpus: corpus}
}

type generateResponse struct {
	Model    string            `json:"model,omitempty"`
	Choices  []model.Choice    `json:"choices"`
	Code     []model.CodeBlock `json:"code"`
	Examples int               `json:"examples"`
	Cached   bool              `json:"cached"`
}

type similarResponse struct {
	Number   int                     `json:"number"`
	Examples []similarity.ScoredPair `json:"examples"`
}

func (h *CodeGenHandler) Generate(c *gin.Context) {
	number, err := parseNumber(c)
	if err != nil {
		handleError(c, err)
		return
	}
	useAll := false
	if raw := c.Query("use-all-examples"); raw != "" {
		useAll, err = strconv.ParseBool(raw)
		if err != nil {
			handleError(c, appErr.ErrInvalid)
			return
		}
	}
	result, err := h.codegen.Generate(c.Request.Context(), number, useAll)
	if err != nil {
		handleError(c, err)
		return
	}
	blocks := codeblock.Extract(result.Response.FirstContent())
	if blocks == nil {
		blocks = []model.CodeBlock{}
	}
	response.Success(c, generateResponse{
		Model:    result.Response.Model,
		Choices:  result.Response.Choices,
		Code:     blocks,
		Examples: result.Examples,
		Cached:   result.Cached,
	})
}

func (h *CodeGenHandler) Similar(c *gin.Context) {
	number, err := parseNumber(c)
	if err != nil {
		handleError(c, err)
		return
	}
	scored, err := h.codegen.SimilarExamples(c.Request.Context(), number)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, similarResponse{Number: number, Examples: scored})
}

func (h *CodeGenHandler) Health(c *gin.Context) {
	stats, err := h.corpus.Stats()
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}
