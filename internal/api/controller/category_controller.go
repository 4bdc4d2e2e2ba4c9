package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/spendwise/internal/api/response"
	"github.com/spendwise/spendwise/internal/repository"
	"github.com/spendwise/spendwise/internal/service"
)

// CategoryController exposes CRUD over the shared category set.
type CategoryController struct {
	service *service.CategoryService
}

func NewCategoryController(s *service.CategoryService) *CategoryController {
	return &CategoryController{service: s}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List returns categories, optionally filtered and ordered.
// @Summary      List categories
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        search   query string false "substring match on name or description"
// @Param        ordering query string false "name, created_at, -name or -created_at"
// @Success      200 {object} response.Response{data=[]model.Category}
// @Router       /categories [get]
func (ctrl *CategoryController) List(c *gin.Context) {
	opts := repository.CategoryListOptions{
		Search: c.Query("search"),
	}
	if ordering := c.Query("ordering"); ordering != "" {
		opts.Desc = strings.HasPrefix(ordering, "-")
		opts.OrderBy = strings.TrimPrefix(ordering, "-")
	}

	categories, err := ctrl.service.List(c.Request.Context(), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, categories)
}

// Create adds a new category; names are unique.
// @Summary      Create category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CategoryRequest true "category"
// @Success      201 {object} response.Response{data=model.Category}
// @Failure      409 {object} response.Response
// @Router       /categories [post]
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	category, err := ctrl.service.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, category)
}

// Get returns one category.
// @Summary      Get category
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "category id"
// @Success      200 {object} response.Response{data=model.Category}
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [get]
func (ctrl *CategoryController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	category, err := ctrl.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, category)
}

// Update changes a category's name and/or description. Bound to both PUT
// and PATCH; absent fields are left unchanged either way.
// @Summary      Update category
// @Tags         Categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "category id"
// @Param        request body CategoryUpdateRequest true "fields to change"
// @Success      200 {object} response.Response{data=model.Category}
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [put]
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	category, err := ctrl.service.Update(c.Request.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, category)
}

// Delete removes a category. Expenses referencing it are kept; their
// category references become null.
// @Summary      Delete category
// @Tags         Categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "category id"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /categories/{id} [delete]
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// pathID parses the :id path segment; on failure it writes the 400 itself.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
