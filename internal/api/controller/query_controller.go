package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/api/response"
	"github.com/spendwise/spendwise/internal/service"
)

// QueryController forwards natural-language questions to the query advisor.
type QueryController struct {
	advisor *service.QueryAdvisor
}

func NewQueryController(advisor *service.QueryAdvisor) *QueryController {
	return &QueryController{advisor: advisor}
}

type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

type QueryResponse struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// Query answers a free-text question about the caller's expense history.
// An empty query is rejected before the advisor is ever invoked; an advisor
// failure is a server error, not a success payload.
// @Summary      Query expenses in natural language
// @Tags         Query
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body QueryRequest true "free-text question"
// @Success      200 {object} response.Response{data=QueryResponse}
// @Failure      400 {object} response.Response
// @Failure      500 {object} response.Response
// @Router       /query [post]
func (ctrl *QueryController) Query(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := ctrl.advisor.Answer(c.Request.Context(), userID, req.Query)
	if err != nil {
		slog.Error("expense query failed", "user_id", userID, "error", err)
		response.Error(c, http.StatusInternalServerError, "query failed: "+err.Error())
		return
	}

	response.Success(c, QueryResponse{Query: req.Query, Response: answer})
}
