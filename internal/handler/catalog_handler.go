package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
	"github.com/noah-isme/academia-api/pkg/response"
)

// CatalogHandler exposes cycles, courses, packages and their offerings.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func respond(c *gin.Context, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, data)
}

func respondCreated(c *gin.Context, data interface{}, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, data)
}

func respondDeleted(c *gin.Context, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListCycles godoc
// @Summary List cycles
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cycles [get]
func (h *CatalogHandler) ListCycles(c *gin.Context) {
	cycles, err := h.catalog.ListCycles(c.Request.Context())
	respond(c, cycles, err)
}

// GetCycle godoc
// @Summary Get cycle
// @Tags Catalog
// @Produce json
// @Param id path string true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /cycles/{id} [get]
func (h *CatalogHandler) GetCycle(c *gin.Context) {
	cycle, err := h.catalog.GetCycle(c.Request.Context(), c.Param("id"))
	respond(c, cycle, err)
}

// CreateCycle godoc
// @Summary Create cycle
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCycleRequest true "Cycle payload"
// @Success 201 {object} response.Envelope
// @Router /cycles [post]
func (h *CatalogHandler) CreateCycle(c *gin.Context) {
	var req service.CreateCycleRequest
	if !bindJSON(c, &req) {
		return
	}
	cycle, err := h.catalog.CreateCycle(c.Request.Context(), req)
	respondCreated(c, cycle, err)
}

// UpdateCycle godoc
// @Summary Update cycle
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Cycle ID"
// @Param payload body models.CycleUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /cycles/{id} [patch]
func (h *CatalogHandler) UpdateCycle(c *gin.Context) {
	var upd models.CycleUpdate
	if !bindJSON(c, &upd) {
		return
	}
	cycle, err := h.catalog.UpdateCycle(c.Request.Context(), c.Param("id"), upd)
	respond(c, cycle, err)
}

// DeleteCycle godoc
// @Summary Delete cycle
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Cycle ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /cycles/{id} [delete]
func (h *CatalogHandler) DeleteCycle(c *gin.Context) {
	respondDeleted(c, h.catalog.DeleteCycle(c.Request.Context(), c.Param("id")))
}

// ListCourses godoc
// @Summary List courses
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	respond(c, courses, err)
}

// GetCourse godoc
// @Summary Get course
// @Tags Catalog
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	course, err := h.catalog.GetCourse(c.Request.Context(), c.Param("id"))
	respond(c, course, err)
}

// CreateCourse godoc
// @Summary Create course
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	respondCreated(c, course, err)
}

// UpdateCourse godoc
// @Summary Update course
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param payload body models.CourseUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [patch]
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var upd models.CourseUpdate
	if !bindJSON(c, &upd) {
		return
	}
	course, err := h.catalog.UpdateCourse(c.Request.Context(), c.Param("id"), upd)
	respond(c, course, err)
}

// DeleteCourse godoc
// @Summary Delete course
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	respondDeleted(c, h.catalog.DeleteCourse(c.Request.Context(), c.Param("id")))
}

// ListPackages godoc
// @Summary List packages
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	packages, err := h.catalog.ListPackages(c.Request.Context())
	respond(c, packages, err)
}

// GetPackage godoc
// @Summary Get package with its courses
// @Tags Catalog
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [get]
func (h *CatalogHandler) GetPackage(c *gin.Context) {
	pkg, err := h.catalog.GetPackage(c.Request.Context(), c.Param("id"))
	respond(c, pkg, err)
}

// CreatePackage godoc
// @Summary Create package
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePackageRequest true "Package payload"
// @Success 201 {object} response.Envelope
// @Router /packages [post]
func (h *CatalogHandler) CreatePackage(c *gin.Context) {
	var req service.CreatePackageRequest
	if !bindJSON(c, &req) {
		return
	}
	pkg, err := h.catalog.CreatePackage(c.Request.Context(), req)
	respondCreated(c, pkg, err)
}

// UpdatePackage godoc
// @Summary Update package
// @Description A course_ids field replaces the package course list
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param payload body models.PackageUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [patch]
func (h *CatalogHandler) UpdatePackage(c *gin.Context) {
	var upd models.PackageUpdate
	if !bindJSON(c, &upd) {
		return
	}
	pkg, err := h.catalog.UpdatePackage(c.Request.Context(), c.Param("id"), upd)
	respond(c, pkg, err)
}

// DeletePackage godoc
// @Summary Delete package
// @Tags Catalog
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 204
// @Router /packages/{id} [delete]
func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	respondDeleted(c, h.catalog.DeletePackage(c.Request.Context(), c.Param("id")))
}

// ListCourseOfferings godoc
// @Summary List course offerings
// @Tags Offerings
// @Produce json
// @Param cycle_id query string false "Filter by cycle"
// @Success 200 {object} response.Envelope
// @Router /course-offerings [get]
func (h *CatalogHandler) ListCourseOfferings(c *gin.Context) {
	offerings, err := h.catalog.ListCourseOfferings(c.Request.Context(), c.Query("cycle_id"))
	respond(c, offerings, err)
}

// GetCourseOffering godoc
// @Summary Get course offering
// @Tags Offerings
// @Produce json
// @Param id path string true "Course offering ID"
// @Success 200 {object} response.Envelope
// @Router /course-offerings/{id} [get]
func (h *CatalogHandler) GetCourseOffering(c *gin.Context) {
	offering, err := h.catalog.GetCourseOffering(c.Request.Context(), c.Param("id"))
	respond(c, offering, err)
}

// CreateCourseOffering godoc
// @Summary Create course offering
// @Tags Offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCourseOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /course-offerings [post]
func (h *CatalogHandler) CreateCourseOffering(c *gin.Context) {
	var req service.CreateCourseOfferingRequest
	if !bindJSON(c, &req) {
		return
	}
	offering, err := h.catalog.CreateCourseOffering(c.Request.Context(), req)
	respondCreated(c, offering, err)
}

// UpdateCourseOffering godoc
// @Summary Update course offering
// @Tags Offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course offering ID"
// @Param payload body models.CourseOfferingUpdate true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /course-offerings/{id} [patch]
func (h *CatalogHandler) UpdateCourseOffering(c *gin.Context) {
	var upd models.CourseOfferingUpdate
	if !bindJSON(c, &upd) {
		return
	}
	offering, err := h.catalog.UpdateCourseOffering(c.Request.Context(), c.Param("id"), upd)
	respond(c, offering, err)
}

// DeleteCourseOffering godoc
// @Summary Delete course offering
// @Tags Offerings
// @Security BearerAuth
// @Param id path string true "Course offering ID"
// @Success 204
// @Router /course-offerings/{id} [delete]
func (h *CatalogHandler) DeleteCourseOffering(c *gin.Context) {
	respondDeleted(c, h.catalog.DeleteCourseOffering(c.Request.Context(), c.Param("id")))
}

// ListPackageOfferings godoc
// @Summary List package offerings
// @Tags Offerings
// @Produce json
// @Param cycle_id query string false "Filter by cycle"
// @Success 200 {object} response.Envelope
// @Router /package-offerings [get]
func (h *CatalogHandler) ListPackageOfferings(c *gin.Context) {
	offerings, err := h.catalog.ListPackageOfferings(c.Request.Context(), c.Query("cycle_id"))
	respond(c, offerings, err)
}

// GetPackageOffering godoc
// @Summary Get package offering
// @Tags Offerings
// @Produce json
// @Param id path string true "Package offering ID"
// @Success 200 {object} response.Envelope
// @Router /package-offerings/{id} [get]
func (h *CatalogHandler) GetPackageOffering(c *gin.Context) {
	offering, err := h.catalog.GetPackageOffering(c.Request.Context(), c.Param("id"))
	respond(c, offering, err)
}

// CreatePackageOffering godoc
// @Summary Create package offering
// @Tags Offerings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePackageOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /package-offerings [post]
func (h *CatalogHandler) CreatePackageOffering(c *gin.Context) {
	var req service.CreatePackageOfferingRequest
	if !bindJSON(c, &req) {
		return
	}
	offering, err := h.catalog.CreatePackageOffering(c.Request.Context(), req)
	respondCreated(c, offering, err)
}

// DeletePackageOffering godoc
// @Summary Delete package offering
// @Tags Offerings
// @Security BearerAuth
// @Param id path string true "Package offering ID"
// @Success 204
// @Router /package-offerings/{id} [delete]
func (h *CatalogHandler) DeletePackageOffering(c *gin.Context) {
	respondDeleted(c, h.catalog.DeletePackageOffering(c.Request.Context(), c.Param("id")))
}
