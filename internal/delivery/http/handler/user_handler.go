package handler

import (
	"net/http"

	userUC "bootcamp-directory/internal/usecase/user"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

// UserHandler is the admin-only user management surface.
type UserHandler struct {
	service *userUC.Service
}

func NewUserHandler(service *userUC.Service) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.List)
		users.POST("", h.Create)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.DELETE("/:id", h.Delete)
	}
}

func (h *UserHandler) List(c *gin.Context) {
	q, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondList(c, q, result.Total, len(result.Users), result.Users)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userUC.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req userUC.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, struct{}{})
}
