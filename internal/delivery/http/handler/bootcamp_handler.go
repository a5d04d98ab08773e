package handler

import (
	"net/http"

	"bootcamp-directory/internal/middleware"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/gin-gonic/gin"
)

const photoFormField = "file"

type BootcampHandler struct {
	service *bootcampUC.Service
}

func NewBootcampHandler(service *bootcampUC.Service) *BootcampHandler {
	return &BootcampHandler{service: service}
}

func (h *BootcampHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/bootcamps")
	{
		group.GET("", h.List)
		group.GET("/radius/:zipcode/:distance", h.WithinRadius)
		group.GET("/:id", h.Get)
	}
}

// RegisterProtectedRoutes expects a group that already runs Protect.
func (h *BootcampHandler) RegisterProtectedRoutes(router *gin.RouterGroup) {
	group := router.Group("/bootcamps")
	{
		group.POST("", h.Create)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.PUT("/:id/photo", h.UploadPhoto)
	}
}

func (h *BootcampHandler) List(c *gin.Context) {
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

	respondList(c, q, result.Total, len(result.Bootcamps), result.Bootcamps)
}

func (h *BootcampHandler) Get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, b)
}

func (h *BootcampHandler) WithinRadius(c *gin.Context) {
	bootcamps, err := h.service.WithinRadius(c.Request.Context(), c.Param("zipcode"), c.Param("distance"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.ListResponse(c, http.StatusOK, len(bootcamps), nil, bootcamps)
}

func (h *BootcampHandler) Create(c *gin.Context) {
	var req bootcampUC.CreateBootcampRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, b)
}

func (h *BootcampHandler) Update(c *gin.Context) {
	var req bootcampUC.UpdateBootcampRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.service.Update(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, b)
}

func (h *BootcampHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentActor(c), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, struct{}{})
}

func (h *BootcampHandler) UploadPhoto(c *gin.Context) {
	header, err := c.FormFile(photoFormField)
	if err != nil {
		respondWithError(c, appErrors.Validation("Please upload a file", nil))
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer file.Close()

	name, err := h.service.UploadPhoto(c.Request.Context(), middleware.CurrentActor(c), c.Param("id"), &bootcampUC.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, name)
}
