package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/export"
	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/pdf"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
	"github.com/tetianalytvynovska/tax-system/internal/service"
	"github.com/tetianalytvynovska/tax-system/pkg/pagination"
	"github.com/tetianalytvynovska/tax-system/pkg/response"
)

type AdminHandler struct {
	defService     service.TaxDefinitionService
	summaryService service.SummaryService
	auditService   service.AuditService
	users          repository.UserRepository
	db             *gorm.DB
	logger         *zap.Logger
}

func NewAdminHandler(
	defService service.TaxDefinitionService,
	summaryService service.SummaryService,
	auditService service.AuditService,
	users repository.UserRepository,
	db *gorm.DB,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		defService:     defService,
		summaryService: summaryService,
		auditService:   auditService,
		users:          users,
		db:             db,
		logger:         logger,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAuth(h.db), middleware.RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/audit", h.ListAudit)
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/tax-summary", h.TaxSummary)

		admin.GET("/taxes", h.ListTaxes)
		admin.POST("/taxes", h.CreateTax)
		admin.PUT("/taxes/:id", h.UpdateTax)
		admin.DELETE("/taxes/:id", h.DeleteTax)

		admin.GET("/reports/export/csv", h.ExportCSV)
		admin.GET("/reports/export/pdf", h.ExportPDF)
	}
}

// ListUsers returns all registered users
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.User
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ListAudit returns a page of the audit trail, newest first
// @Summary      List audit entries
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "Page size (max 200)"
// @Param        offset  query  int  false  "Page offset"
// @Success      200  {object}  service.AuditPage
// @Router       /api/admin/audit [get]
func (h *AdminHandler) ListAudit(c *gin.Context) {
	p := pagination.Parse(c, 50)
	page, err := h.auditService.List(c.Request.Context(), p.Limit, p.Offset)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Dashboard returns platform-wide counters and latest records
// @Summary      Admin dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.DashboardResponse
// @Router       /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dash, err := h.summaryService.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// TaxSummary returns aggregated totals per tax type
// @Summary      Aggregated tax summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        taxDefinitionId  query  int     false  "Filter by tax definition"
// @Param        fromDate         query  string  false  "Inclusive lower creation date (YYYY-MM-DD)"
// @Param        toDate           query  string  false  "Inclusive upper creation date (YYYY-MM-DD)"
// @Success      200  {array}   model.TaxSummaryRow
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/admin/tax-summary [get]
func (h *AdminHandler) TaxSummary(c *gin.Context) {
	rows, err := h.summaryService.TaxSummary(c.Request.Context(), adminFilter(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListTaxes returns the dictionary for the admin settings screen
// @Summary      List tax definitions (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.TaxDefinition
// @Router       /api/admin/taxes [get]
func (h *AdminHandler) ListTaxes(c *gin.Context) {
	defs, err := h.defService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, defs)
}

// CreateTax adds a definition to the dictionary
// @Summary      Create a tax definition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TaxDefinitionRequest  true  "Definition payload"
// @Success      201      {object}  model.TaxDefinition
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/admin/taxes [post]
func (h *AdminHandler) CreateTax(c *gin.Context) {
	var req service.TaxDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Заповніть назву, код і ставку податку"))
		return
	}

	def, err := h.defService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

// UpdateTax edits a definition
// @Summary      Update a tax definition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                           true  "Definition id"
// @Param        payload  body      service.TaxDefinitionRequest  true  "Definition payload"
// @Success      200      {object}  model.TaxDefinition
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/admin/taxes/{id} [put]
func (h *AdminHandler) UpdateTax(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.TaxDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Заповніть назву, код і ставку податку"))
		return
	}

	def, err := h.defService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

// DeleteTax removes a definition; existing reports keep their snapshot
// @Summary      Delete a tax definition
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Definition id"
// @Success      200  {object}  response.Message
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/admin/taxes/{id} [delete]
func (h *AdminHandler) DeleteTax(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.defService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Податок видалено"))
}

// ExportCSV streams the filtered report export
// @Summary      Export reports as CSV
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Param        taxDefinitionId  query  int     false  "Filter by tax definition"
// @Param        fromDate         query  string  false  "Inclusive lower creation date (YYYY-MM-DD)"
// @Param        toDate           query  string  false  "Inclusive upper creation date (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/admin/reports/export/csv [get]
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	rows, err := h.summaryService.AdminReports(c.Request.Context(), adminFilter(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFilename+`"`)
	if err := export.WriteReportsCSV(c.Writer, rows); err != nil {
		h.logger.Error("csv export write failed", zap.Error(err))
	}
}

// ExportPDF streams the official aggregated report
// @Summary      Export reports as PDF
// @Tags         admin
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        taxDefinitionId  query  int     false  "Filter by tax definition"
// @Param        fromDate         query  string  false  "Inclusive lower creation date (YYYY-MM-DD)"
// @Param        toDate           query  string  false  "Inclusive upper creation date (YYYY-MM-DD)"
// @Success      200
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/admin/reports/export/pdf [get]
func (h *AdminHandler) ExportPDF(c *gin.Context) {
	f := adminFilter(c)

	rows, err := h.summaryService.AdminReports(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	summary, err := h.summaryService.TaxSummary(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	doc, err := pdf.GenerateSummary(summary, rows, pdf.SummaryFilters{
		TaxDefinitionID: f.TaxDefinitionID,
		FromDate:        f.FromDate,
		ToDate:          f.ToDate,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.SummaryFilename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func adminFilter(c *gin.Context) repository.ReportFilter {
	f := repository.ReportFilter{
		FromDate:  c.Query("fromDate"),
		ToDate:    c.Query("toDate"),
		AdminView: true,
	}
	if raw := c.Query("taxDefinitionId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			f.TaxDefinitionID = uint(v)
		}
	}
	return f
}
