package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

const catalogCachePattern = "catalog:*"

type cycleRepository interface {
	List(ctx context.Context) ([]models.Cycle, error)
	FindByID(ctx context.Context, id string) (*models.Cycle, error)
	Create(ctx context.Context, cycle *models.Cycle) error
	Update(ctx context.Context, id string, upd models.CycleUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id string, upd models.CourseUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type packageRepository interface {
	List(ctx context.Context) ([]models.Package, error)
	FindByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, id string, upd models.PackageUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type offeringRepository interface {
	ListCourseOfferings(ctx context.Context, cycleID string) ([]models.CourseOfferingDetail, error)
	FindCourseOffering(ctx context.Context, id string) (*models.CourseOfferingDetail, error)
	CreateCourseOffering(ctx context.Context, offering *models.CourseOffering) error
	UpdateCourseOffering(ctx context.Context, id string, upd models.CourseOfferingUpdate) (bool, error)
	DeleteCourseOffering(ctx context.Context, id string) (bool, error)
	ListPackageOfferings(ctx context.Context, cycleID string) ([]models.PackageOfferingDetail, error)
	FindPackageOffering(ctx context.Context, id string) (*models.PackageOfferingDetail, error)
	CreatePackageOffering(ctx context.Context, offering *models.PackageOffering) error
	DeletePackageOffering(ctx context.Context, id string) (bool, error)
}

// CreateCycleRequest is the payload for a new cycle.
type CreateCycleRequest struct {
	Name           string             `json:"name" validate:"required,max=100"`
	StartDate      time.Time          `json:"start_date" validate:"required"`
	EndDate        time.Time          `json:"end_date" validate:"required,gtfield=StartDate"`
	DurationMonths int                `json:"duration_months" validate:"min=0"`
	Status         models.CycleStatus `json:"status" validate:"omitempty,oneof=planned active closed"`
}

// CreateCourseRequest is the payload for a new course.
type CreateCourseRequest struct {
	Name        string  `json:"name" validate:"required,max=150"`
	Description *string `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"gte=0"`
}

// CreatePackageRequest is the payload for a new package.
type CreatePackageRequest struct {
	Name        string   `json:"name" validate:"required,max=150"`
	Description *string  `json:"description"`
	BasePrice   float64  `json:"base_price" validate:"gte=0"`
	CourseIDs   []string `json:"course_ids" validate:"dive,uuid"`
}

// CreateCourseOfferingRequest is the payload for a new course offering.
type CreateCourseOfferingRequest struct {
	CourseID      string   `json:"course_id" validate:"required,uuid"`
	CycleID       string   `json:"cycle_id" validate:"required,uuid"`
	GroupLabel    string   `json:"group_label" validate:"required,max=20"`
	TeacherID     *string  `json:"teacher_id" validate:"omitempty,uuid"`
	PriceOverride *float64 `json:"price_override" validate:"omitempty,gte=0"`
	Capacity      *int     `json:"capacity" validate:"omitempty,gt=0"`
}

// CreatePackageOfferingRequest is the payload for a new package offering.
type CreatePackageOfferingRequest struct {
	PackageID         string   `json:"package_id" validate:"required,uuid"`
	CycleID           string   `json:"cycle_id" validate:"required,uuid"`
	GroupLabel        string   `json:"group_label" validate:"required,max=20"`
	PriceOverride     *float64 `json:"price_override" validate:"omitempty,gte=0"`
	Capacity          *int     `json:"capacity" validate:"omitempty,gt=0"`
	CourseOfferingIDs []string `json:"course_offering_ids" validate:"dive,uuid"`
}

// CatalogService manages cycles, courses, packages and offerings behind a read-through cache.
type CatalogService struct {
	cycles    cycleRepository
	courses   courseRepository
	packages  packageRepository
	offerings offeringRepository
	cache     *CacheService
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService. A nil cache disables caching.
func NewCatalogService(cycles cycleRepository, courses courseRepository, packages packageRepository, offerings offeringRepository,
	cache *CacheService, ttl time.Duration, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{cycles: cycles, courses: courses, packages: packages, offerings: offerings,
		cache: cache, ttl: ttl, validator: validate, logger: logger}
}

// cachedList serves key from the cache or loads and stores it.
func cachedList[T any](ctx context.Context, cache *CacheService, ttl time.Duration, key string, load func() ([]T, error)) ([]T, error) {
	var items []T
	if cache.Get(ctx, key, &items) {
		return items, nil
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	cache.Set(ctx, key, items, ttl)
	return items, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, catalogCachePattern)
}

func (s *CatalogService) validate(payload interface{}, message string) error {
	if err := s.validator.Struct(payload); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) || repository.IsInvalidID(err) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError maps store failures of create and update calls.
func writeError(err error, entity string) error {
	switch {
	case repository.IsInvalidID(err):
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	case errors.Is(err, repository.ErrForeignKey):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, entity+" references a missing record")
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Clone(appErrors.ErrConflict, entity+" already exists")
	}
	return appErrors.Internal(err, "failed to save "+entity)
}

// deleteError maps store failures of delete calls.
func deleteError(err error, entity string) error {
	if errors.Is(err, repository.ErrForeignKey) {
		return appErrors.Clone(appErrors.ErrConflict, entity+" is still referenced")
	}
	return storeError(err, entity, "failed to delete "+entity)
}

// storeError maps failures of calls keyed by an id. A malformed id names no record.
func storeError(err error, entity, message string) error {
	if repository.IsInvalidID(err) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Internal(err, message)
}

func notFoundUnless(found bool, entity string) error {
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return nil
}

// ListCycles returns all cycles.
func (s *CatalogService) ListCycles(ctx context.Context) ([]models.Cycle, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:cycles", func() ([]models.Cycle, error) {
		cycles, err := s.cycles.List(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list cycles")
		}
		return cycles, nil
	})
}

// GetCycle returns one cycle.
func (s *CatalogService) GetCycle(ctx context.Context, id string) (*models.Cycle, error) {
	cycle, err := s.cycles.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "cycle")
	}
	return cycle, nil
}

// CreateCycle stores a new cycle.
func (s *CatalogService) CreateCycle(ctx context.Context, req CreateCycleRequest) (*models.Cycle, error) {
	if err := s.validate(req, "invalid cycle payload"); err != nil {
		return nil, err
	}
	cycle := &models.Cycle{Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate, DurationMonths: req.DurationMonths, Status: req.Status}
	if cycle.Status == "" {
		cycle.Status = models.CycleStatusPlanned
	}
	if err := s.cycles.Create(ctx, cycle); err != nil {
		return nil, writeError(err, "cycle")
	}
	s.invalidate(ctx)
	return cycle, nil
}

// UpdateCycle applies a partial update.
func (s *CatalogService) UpdateCycle(ctx context.Context, id string, upd models.CycleUpdate) (*models.Cycle, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate(upd, "invalid cycle payload"); err != nil {
		return nil, err
	}
	found, err := s.cycles.Update(ctx, id, upd)
	if err != nil {
		return nil, writeError(err, "cycle")
	}
	if err := notFoundUnless(found, "cycle"); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetCycle(ctx, id)
}

// DeleteCycle removes a cycle that has no offerings.
func (s *CatalogService) DeleteCycle(ctx context.Context, id string) error {
	found, err := s.cycles.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "cycle")
	}
	if err := notFoundUnless(found, "cycle"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListCourses returns all courses.
func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:courses", func() ([]models.Course, error) {
		courses, err := s.courses.List(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list courses")
		}
		return courses, nil
	})
}

// GetCourse returns one course.
func (s *CatalogService) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course")
	}
	return course, nil
}

// CreateCourse stores a new course.
func (s *CatalogService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validate(req, "invalid course payload"); err != nil {
		return nil, err
	}
	course := &models.Course{Name: req.Name, Description: req.Description, BasePrice: roundCents(req.BasePrice)}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, writeError(err, "course")
	}
	s.invalidate(ctx)
	return course, nil
}

// UpdateCourse applies a partial update.
func (s *CatalogService) UpdateCourse(ctx context.Context, id string, upd models.CourseUpdate) (*models.Course, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate(upd, "invalid course payload"); err != nil {
		return nil, err
	}
	found, err := s.courses.Update(ctx, id, upd)
	if err != nil {
		return nil, writeError(err, "course")
	}
	if err := notFoundUnless(found, "course"); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetCourse(ctx, id)
}

// DeleteCourse removes a course that is not offered.
func (s *CatalogService) DeleteCourse(ctx context.Context, id string) error {
	found, err := s.courses.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "course")
	}
	if err := notFoundUnless(found, "course"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListPackages returns all packages with their courses.
func (s *CatalogService) ListPackages(ctx context.Context) ([]models.Package, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:packages", func() ([]models.Package, error) {
		packages, err := s.packages.List(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list packages")
		}
		return packages, nil
	})
}

// GetPackage returns one package.
func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.packages.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "package")
	}
	return pkg, nil
}

// CreatePackage stores a package and its course list.
func (s *CatalogService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*models.Package, error) {
	if err := s.validate(req, "invalid package payload"); err != nil {
		return nil, err
	}
	pkg := &models.Package{Name: req.Name, Description: req.Description, BasePrice: roundCents(req.BasePrice), CourseIDs: req.CourseIDs}
	if pkg.CourseIDs == nil {
		pkg.CourseIDs = []string{}
	}
	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, writeError(err, "package")
	}
	s.invalidate(ctx)
	return pkg, nil
}

// UpdatePackage applies a partial update, replacing the course list when given.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, upd models.PackageUpdate) (*models.Package, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate(upd, "invalid package payload"); err != nil {
		return nil, err
	}
	found, err := s.packages.Update(ctx, id, upd)
	if err != nil {
		return nil, writeError(err, "package")
	}
	if err := notFoundUnless(found, "package"); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetPackage(ctx, id)
}

// DeletePackage removes a package that is not offered.
func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	found, err := s.packages.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "package")
	}
	if err := notFoundUnless(found, "package"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListCourseOfferings returns course offerings, optionally of one cycle.
func (s *CatalogService) ListCourseOfferings(ctx context.Context, cycleID string) ([]models.CourseOfferingDetail, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:course_offerings:"+cycleID, func() ([]models.CourseOfferingDetail, error) {
		offerings, err := s.offerings.ListCourseOfferings(ctx, cycleID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list course offerings")
		}
		return offerings, nil
	})
}

// GetCourseOffering returns one course offering.
func (s *CatalogService) GetCourseOffering(ctx context.Context, id string) (*models.CourseOfferingDetail, error) {
	offering, err := s.offerings.FindCourseOffering(ctx, id)
	if err != nil {
		return nil, lookupError(err, "course offering")
	}
	return offering, nil
}

// CreateCourseOffering stores a course offering.
func (s *CatalogService) CreateCourseOffering(ctx context.Context, req CreateCourseOfferingRequest) (*models.CourseOfferingDetail, error) {
	if err := s.validate(req, "invalid course offering payload"); err != nil {
		return nil, err
	}
	offering := &models.CourseOffering{
		CourseID:      req.CourseID,
		CycleID:       req.CycleID,
		GroupLabel:    req.GroupLabel,
		TeacherID:     req.TeacherID,
		PriceOverride: roundCentsPtr(req.PriceOverride),
		Capacity:      req.Capacity,
	}
	if err := s.offerings.CreateCourseOffering(ctx, offering); err != nil {
		return nil, writeError(err, "course offering")
	}
	s.invalidate(ctx)
	return s.GetCourseOffering(ctx, offering.ID)
}

// UpdateCourseOffering applies a partial update.
func (s *CatalogService) UpdateCourseOffering(ctx context.Context, id string, upd models.CourseOfferingUpdate) (*models.CourseOfferingDetail, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validate(upd, "invalid course offering payload"); err != nil {
		return nil, err
	}
	upd.PriceOverride = roundCentsPtr(upd.PriceOverride)
	found, err := s.offerings.UpdateCourseOffering(ctx, id, upd)
	if err != nil {
		return nil, writeError(err, "course offering")
	}
	if err := notFoundUnless(found, "course offering"); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetCourseOffering(ctx, id)
}

// DeleteCourseOffering removes a course offering without enrollments.
func (s *CatalogService) DeleteCourseOffering(ctx context.Context, id string) error {
	found, err := s.offerings.DeleteCourseOffering(ctx, id)
	if err != nil {
		return deleteError(err, "course offering")
	}
	if err := notFoundUnless(found, "course offering"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListPackageOfferings returns package offerings, optionally of one cycle.
func (s *CatalogService) ListPackageOfferings(ctx context.Context, cycleID string) ([]models.PackageOfferingDetail, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:package_offerings:"+cycleID, func() ([]models.PackageOfferingDetail, error) {
		offerings, err := s.offerings.ListPackageOfferings(ctx, cycleID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list package offerings")
		}
		return offerings, nil
	})
}

// GetPackageOffering returns one package offering.
func (s *CatalogService) GetPackageOffering(ctx context.Context, id string) (*models.PackageOfferingDetail, error) {
	offering, err := s.offerings.FindPackageOffering(ctx, id)
	if err != nil {
		return nil, lookupError(err, "package offering")
	}
	return offering, nil
}

// CreatePackageOffering stores a package offering and its course offering mapping.
func (s *CatalogService) CreatePackageOffering(ctx context.Context, req CreatePackageOfferingRequest) (*models.PackageOfferingDetail, error) {
	if err := s.validate(req, "invalid package offering payload"); err != nil {
		return nil, err
	}
	offering := &models.PackageOffering{
		PackageID:         req.PackageID,
		CycleID:           req.CycleID,
		GroupLabel:        req.GroupLabel,
		PriceOverride:     roundCentsPtr(req.PriceOverride),
		Capacity:          req.Capacity,
		CourseOfferingIDs: req.CourseOfferingIDs,
	}
	if err := s.offerings.CreatePackageOffering(ctx, offering); err != nil {
		return nil, writeError(err, "package offering")
	}
	s.invalidate(ctx)
	return s.GetPackageOffering(ctx, offering.ID)
}

// DeletePackageOffering removes a package offering without enrollments.
func (s *CatalogService) DeletePackageOffering(ctx context.Context, id string) error {
	found, err := s.offerings.DeletePackageOffering(ctx, id)
	if err != nil {
		return deleteError(err, "package offering")
	}
	if err := notFoundUnless(found, "package offering"); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
