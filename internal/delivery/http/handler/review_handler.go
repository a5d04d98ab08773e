package handler

import (
	"net/http"

	"bootcamp-directory/internal/middleware"
	reviewUC "bootcamp-directory/internal/usecase/review"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service *reviewUC.Service
}

func NewReviewHandler(service *reviewUC.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes mounts /reviews and the nested /bootcamps/:id/reviews. The
// bootcamp id shares the :id wildcard with the bootcamp routes.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reviews", h.List)
	router.GET("/reviews/:id", h.Get)
	router.GET("/bootcamps/:id/reviews", h.ListForBootcamp)
}

func (h *ReviewHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/bootcamps/:id/reviews", h.Create)
	router.PUT("/reviews/:id", h.Update)
	router.DELETE("/reviews/:id", h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
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

	respondList(c, q, result.Total, len(result.Reviews), result.Reviews)
}

func (h *ReviewHandler) ListForBootcamp(c *gin.Context) {
	q, err := query.Parse(c.Request.URL.Query())
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.service.ListForBootcamp(c.Request.Context(), c.Param("id"), q)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondList(c, q, result.Total, len(result.Reviews), result.Reviews)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	review, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, review)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewUC.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	var req reviewUC.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, struct{}{})
}
