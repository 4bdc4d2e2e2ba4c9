package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api/middleware"
	"github.com/spendwise/spendwise/internal/api/response"
	"github.com/spendwise/spendwise/internal/model"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/service"
)

// ExpenseController exposes caller-scoped expense CRUD. The user ID always
// comes from the JWT middleware, never from the payload.
type ExpenseController struct {
	service *service.ExpenseService
}

func NewExpenseController(s *service.ExpenseService) *ExpenseController {
	return &ExpenseController{service: s}
}

type ExpenseCreateRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	CategoryID  *uint   `json:"category_id"`
	Description string  `json:"description" binding:"required,max=255"`
	Notes       string  `json:"notes"`
	Date        string  `json:"date" binding:"required"` // YYYY-MM-DD
}

type ExpenseUpdateRequest struct {
	Amount      *float64 `json:"amount"`
	CategoryID  *uint    `json:"category_id"` // 0 detaches the category
	Description *string  `json:"description"`
	Notes       *string  `json:"notes"`
	Date        *string  `json:"date"`
}

// ExpenseDetail is the full single-record shape, AI fields included.
type ExpenseDetail struct {
	ID                      uint      `json:"id"`
	Amount                  float64   `json:"amount"`
	CategoryID              *uint     `json:"category_id"`
	CategoryName            *string   `json:"category_name"`
	Description             string    `json:"description"`
	Notes                   string    `json:"notes"`
	Date                    string    `json:"date"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
	AISuggestedCategoryID   *uint     `json:"ai_suggested_category_id"`
	AISuggestedCategoryName *string   `json:"ai_suggested_category_name"`
	AIConfidence            *float64  `json:"ai_confidence"`
}

// ExpenseListItem is the abbreviated shape used for list responses.
type ExpenseListItem struct {
	ID           uint    `json:"id"`
	Amount       float64 `json:"amount"`
	CategoryName *string `json:"category_name"`
	Description  string  `json:"description"`
	Date         string  `json:"date"`
}

type ExpenseListResponse struct {
	List  []ExpenseListItem `json:"list"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
}

type ExpenseListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Category *uint  `form:"category"`
	Date     string `form:"date"` // YYYY-MM-DD
	Search   string `form:"search"`
	Ordering string `form:"ordering"` // date, amount, created_at, or -prefixed
}

// Create records a new expense. Without an explicit category the AI advisor
// suggests one; above the confidence threshold it is auto-assigned.
// @Summary      Create expense
// @Tags         Expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ExpenseCreateRequest true "expense"
// @Success      201 {object} response.Response{data=ExpenseDetail}
// @Failure      400 {object} response.Response
// @Router       /expenses [post]
func (ctrl *ExpenseController) Create(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req ExpenseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	date, err := time.Parse(model.DateOnly, req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	expense, err := ctrl.service.Create(c.Request.Context(), userID, service.ExpenseInput{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Notes:       req.Notes,
		Date:        date,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toDetail(expense))
}

// List returns the caller's expenses in the abbreviated shape.
// @Summary      List expenses
// @Tags         Expenses
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int    false "page number"
// @Param        page_size query int    false "page size"
// @Param        category  query int    false "filter by category id"
// @Param        date      query string false "filter by exact date YYYY-MM-DD"
// @Param        search    query string false "substring match on description or notes"
// @Param        ordering  query string false "date, amount, created_at or -prefixed"
// @Success      200 {object} response.Response{data=ExpenseListResponse}
// @Router       /expenses [get]
func (ctrl *ExpenseController) List(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query: "+err.Error())
		return
	}

	filter := repository.ExpenseFilter{
		UserID:     userID,
		CategoryID: req.Category,
		Search:     req.Search,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.Date != "" {
		d, err := time.Parse(model.DateOnly, req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		filter.Date = &d
	}
	if req.Ordering != "" {
		filter.Desc = strings.HasPrefix(req.Ordering, "-")
		filter.OrderBy = strings.TrimPrefix(req.Ordering, "-")
	}

	expenses, total, err := ctrl.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	items := make([]ExpenseListItem, 0, len(expenses))
	for i := range expenses {
		e := &expenses[i]
		item := ExpenseListItem{
			ID:          e.ID,
			Amount:      e.Amount,
			Description: e.Description,
			Date:        e.Date.Format(model.DateOnly),
		}
		if e.Category != nil {
			item.CategoryName = &e.Category.Name
		}
		items = append(items, item)
	}
	response.Success(c, ExpenseListResponse{List: items, Total: total, Page: req.Page})
}

// Get returns one owned expense in the full shape.
// @Summary      Get expense
// @Tags         Expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "expense id"
// @Success      200 {object} response.Response{data=ExpenseDetail}
// @Failure      404 {object} response.Response
// @Router       /expenses/{id} [get]
func (ctrl *ExpenseController) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := ctrl.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toDetail(expense))
}

// Update applies a partial update to an owned expense. Bound to both PUT
// and PATCH. AI fields cannot be changed through this endpoint.
// @Summary      Update expense
// @Tags         Expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "expense id"
// @Param        request body ExpenseUpdateRequest true "fields to change"
// @Success      200 {object} response.Response{data=ExpenseDetail}
// @Failure      404 {object} response.Response
// @Router       /expenses/{id} [put]
func (ctrl *ExpenseController) Update(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ExpenseUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	update := service.ExpenseUpdate{
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.Date != nil {
		d, err := time.Parse(model.DateOnly, *req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		update.Date = &d
	}

	expense, err := ctrl.service.Update(c.Request.Context(), userID, id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toDetail(expense))
}

// Delete removes one owned expense.
// @Summary      Delete expense
// @Tags         Expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "expense id"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /expenses/{id} [delete]
func (ctrl *ExpenseController) Delete(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

func toDetail(e *model.Expense) ExpenseDetail {
	detail := ExpenseDetail{
		ID:                    e.ID,
		Amount:                e.Amount,
		CategoryID:            e.CategoryID,
		Description:           e.Description,
		Notes:                 e.Notes,
		Date:                  e.Date.Format(model.DateOnly),
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
		AISuggestedCategoryID: e.AISuggestedCategoryID,
		AIConfidence:          e.AIConfidence,
	}
	if e.Category != nil {
		detail.CategoryName = &e.Category.Name
	}
	if e.AISuggestedCategory != nil {
		detail.AISuggestedCategoryName = &e.AISuggestedCategory.Name
	}
	return detail
}
