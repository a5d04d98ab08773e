package handler

import (
	"net/http"

	"bootcamp-directory/internal/middleware"
	courseUC "bootcamp-directory/internal/usecase/course"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	service *courseUC.Service
}

func NewCourseHandler(service *courseUC.Service) *CourseHandler {
	return &CourseHandler{service: service}
}

// RegisterRoutes mounts /courses and the nested /bootcamps/:id/courses. The
// bootcamp id shares the :id wildcard with the bootcamp routes.
func (h *CourseHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/courses", h.List)
	router.GET("/courses/:id", h.Get)
	router.GET("/bootcamps/:id/courses", h.ListForBootcamp)
}

func (h *CourseHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.POST("/bootcamps/:id/courses", h.Create)
	router.PUT("/courses/:id", h.Update)
	router.DELETE("/courses/:id", h.Delete)
}

func (h *CourseHandler) List(c *gin.Context) {
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

	respondList(c, q, result.Total, len(result.Courses), result.Courses)
}

func (h *CourseHandler) ListForBootcamp(c *gin.Context) {
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

	respondList(c, q, result.Total, len(result.Courses), result.Courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseUC.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req courseUC.UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}

	course, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, struct{}{})
}
