package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/middleware"
	"github.com/tetianalytvynovska/tax-system/internal/pdf"
	"github.com/tetianalytvynovska/tax-system/internal/service"
	"github.com/tetianalytvynovska/tax-system/pkg/response"
)

type ReportHandler struct {
	reportService service.ReportService
	defService    service.TaxDefinitionService
	db            *gorm.DB
	logger        *zap.Logger
}

func NewReportHandler(
	reportService service.ReportService,
	defService service.TaxDefinitionService,
	db *gorm.DB,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		defService:    defService,
		db:            db,
		logger:        logger,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.RequireAuth(h.db)

	router.GET("/taxes", auth, h.ListTaxes)

	reports := router.Group("/tax/reports")
	reports.Use(auth)
	{
		reports.GET("", h.List)
		reports.POST("", h.Create)
		reports.GET("/risk", h.Risk)
		reports.GET("/:id", h.Get)
		reports.PATCH("/:id", h.Update)
		reports.DELETE("/:id", h.Delete)
		reports.POST("/:id/sign-send", h.SignAndSubmit)
		reports.GET("/:id/pdf", h.DeclarationPDF)
	}
}

// ListTaxes returns the tax dictionary for the report form
// @Summary      List tax definitions
// @Tags         taxes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  model.TaxDefinition
// @Router       /api/taxes [get]
func (h *ReportHandler) ListTaxes(c *gin.Context) {
	defs, err := h.defService.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, defs)
}

// List returns the caller's reports, optionally filtered
// @Summary      List own tax reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        taxDefinitionId  query  int     false  "Filter by tax definition"
// @Param        fromDate         query  string  false  "Inclusive lower creation date (YYYY-MM-DD)"
// @Param        toDate           query  string  false  "Inclusive upper creation date (YYYY-MM-DD)"
// @Success      200  {array}   repository.ReportRow
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/tax/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	rows, err := h.reportService.List(c.Request.Context(), middleware.CurrentUser(c), listQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Create files a new planned report
// @Summary      Create a tax report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateReportRequest  true  "Report payload"
// @Success      201      {object}  service.CreateReportResponse
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/tax/reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Оберіть податок і введіть базову суму"))
		return
	}

	res, err := h.reportService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Get returns one report with its owner
// @Summary      Get a tax report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Report id"
// @Success      200  {object}  model.TaxReport
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/tax/reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.reportService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail.Report)
}

// Update edits a planned report
// @Summary      Update a tax report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                          true  "Report id"
// @Param        payload  body      service.UpdateReportRequest  true  "Report payload"
// @Success      200      {object}  response.Message
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/tax/reports/{id} [patch]
func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Оберіть податок і введіть базову суму"))
		return
	}

	if err := h.reportService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Звіт оновлено"))
}

// Delete removes a planned report
// @Summary      Delete a tax report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Report id"
// @Success      200  {object}  response.Message
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/tax/reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK("Звіт видалено"))
}

// SignReportRequest carries the test signing key.
type SignReportRequest struct {
	Key string `json:"key"`
}

// SignAndSubmit performs the mocked signing flow
// @Summary      Sign and submit a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int  true  "Report id"
// @Param        payload  body      handler.SignReportRequest  true  "Test signing key, at least 6 characters"
// @Success      200      {object}  service.SignReportResponse
// @Failure      400      {object}  response.ErrorBody
// @Router       /api/tax/reports/{id}/sign-send [post]
func (h *ReportHandler) SignAndSubmit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SignReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Введіть тестовий ключ (мінімум 6 символів)"))
		return
	}

	res, err := h.reportService.SignAndSubmit(c.Request.Context(), middleware.CurrentUser(c), id, req.Key)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeclarationPDF streams the official declaration document
// @Summary      Download the declaration PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Report id"
// @Success      200
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/tax/reports/{id}/pdf [get]
func (h *ReportHandler) DeclarationPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.reportService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	doc, err := pdf.GenerateDeclaration(&detail.Report, &detail.Owner)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+pdf.DeclarationFilename(detail.Report.ID)+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

// Risk scores the caller's reports with the supplied weights
// @Summary      Risk index over own reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        alpha  query  number  false  "Data completeness weight"
// @Param        beta   query  number  false  "Arithmetic consistency weight"
// @Param        gamma  query  number  false  "Value plausibility weight"
// @Param        delta  query  number  false  "Regulatory timeliness weight"
// @Success      200  {array}   service.RiskScore
// @Failure      400  {object}  response.ErrorBody
// @Router       /api/tax/reports/risk [get]
func (h *ReportHandler) Risk(c *gin.Context) {
	rows, err := h.reportService.List(c.Request.Context(), middleware.CurrentUser(c), listQuery(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	weights := riskWeights(c)
	now := time.Now()
	scores := make([]service.RiskScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, service.ComputeRisk(row, weights, now))
	}
	c.JSON(http.StatusOK, scores)
}

func listQuery(c *gin.Context) service.ListReportsQuery {
	q := service.ListReportsQuery{
		FromDate: c.Query("fromDate"),
		ToDate:   c.Query("toDate"),
	}
	if raw := c.Query("taxDefinitionId"); raw != "" {
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			q.TaxDefinitionID = uint(v)
		}
	}
	return q
}

func riskWeights(c *gin.Context) service.RiskWeights {
	w := service.DefaultRiskWeights()
	read := func(name string, dst *float64) {
		if raw := c.Query(name); raw != "" {
			if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
				*dst = v
			}
		}
	}
	read("alpha", &w.Alpha)
	read("beta", &w.Beta)
	read("gamma", &w.Gamma)
	read("delta", &w.Delta)
	return w
}

// pathID parses the :id parameter, answering 400 itself on garbage input.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error("Некоректний ідентифікатор"))
		return 0, false
	}
	return uint(v), true
}
