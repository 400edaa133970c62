package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateReportRequest struct {
	Title           string   `json:"title"`
	TaxDefinitionID uint     `json:"taxDefinitionId" binding:"required"`
	BaseAmount      *float64 `json:"baseAmount" binding:"required"`
	Address         *string  `json:"address"`
}

type UpdateReportRequest struct {
	Title           string   `json:"title"`
	TaxDefinitionID uint     `json:"taxDefinitionId" binding:"required"`
	BaseAmount      *float64 `json:"baseAmount" binding:"required"`
	Address         *string  `json:"address"`
}

type CreateReportResponse struct {
	ID                uint   `json:"id"`
	DeclarationNumber string `json:"declaration_number"`
}

type SignReportResponse struct {
	ID                uint   `json:"id"`
	DeclarationNumber string `json:"declaration_number"`
	Status            string `json:"status"`
	SignatureHash     string `json:"signatureHash"`
}

// ReportDetail is a single report together with its owner, as needed by the
// detail view and the declaration PDF.
type ReportDetail struct {
	Report model.TaxReport
	Owner  model.User
}

type ListReportsQuery struct {
	TaxDefinitionID uint
	FromDate        string
	ToDate          string
}

// --- Interface ---

// EventPublisher pushes report lifecycle events to the admin live feed.
// Implementations must be safe for concurrent use.
type EventPublisher interface {
	PublishReportEvent(eventType string, report *model.TaxReport)
}

// ReportService implements the report lifecycle: create and edit with a
// consistent rate/amount snapshot, delete, and the mocked sign-and-submit
// transition. Submitted reports are immutable.
type ReportService interface {
	Create(ctx context.Context, actor *model.User, req CreateReportRequest) (*CreateReportResponse, error)
	List(ctx context.Context, actor *model.User, q ListReportsQuery) ([]repository.ReportRow, error)
	Get(ctx context.Context, actor *model.User, id uint) (*ReportDetail, error)
	Update(ctx context.Context, actor *model.User, id uint, req UpdateReportRequest) error
	Delete(ctx context.Context, actor *model.User, id uint) error
	SignAndSubmit(ctx context.Context, actor *model.User, id uint, key string) (*SignReportResponse, error)
}

type reportService struct {
	reports repository.ReportRepository
	defs    repository.TaxDefinitionRepository
	users   repository.UserRepository
	txm     repository.TransactionManager
	audit   *auditRecorder
	feed    EventPublisher
	logger  *zap.Logger
}

func NewReportService(
	reports repository.ReportRepository,
	defs repository.TaxDefinitionRepository,
	users repository.UserRepository,
	txm repository.TransactionManager,
	auditRepo repository.AuditRepository,
	feed EventPublisher,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		reports: reports,
		defs:    defs,
		users:   users,
		txm:     txm,
		audit:   newAuditRecorder(auditRepo, logger),
		feed:    feed,
		logger:  logger,
	}
}

// --- Implementation ---

func (s *reportService) Create(ctx context.Context, actor *model.User, req CreateReportRequest) (*CreateReportResponse, error) {
	base, err := validateBaseAmount(req.BaseAmount)
	if err != nil {
		return nil, err
	}

	def, err := s.defs.GetByID(ctx, req.TaxDefinitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindNotFound, "обраний податок не знайдено")
		}
		return nil, wrapInternal("fetch tax definition", err)
	}

	tax, total := computeAmounts(base, def.Rate)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = def.Name
	}

	report := model.TaxReport{
		UserID:          actor.ID,
		Title:           title,
		TaxType:         def.Name,
		TaxDefinitionID: &def.ID,
		BaseAmount:      base,
		TaxRate:         def.Rate,
		TaxAmount:       tax,
		TotalAmount:     total,
		DueDate:         dueDateFrom(def, time.Now()),
		Status:          model.StatusPlanned,
		Address:         req.Address,
	}

	// Year count and insert commit together so concurrent creations cannot
	// be issued the same declaration number.
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		year := time.Now().Year()
		count, err := s.reports.CountCreatedInYear(txCtx, year)
		if err != nil {
			return err
		}
		number := fmt.Sprintf("%d/%04d", year, count+1)
		report.DeclarationNumber = &number
		return s.reports.Create(txCtx, &report)
	})
	if err != nil {
		return nil, wrapInternal("create tax report", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionReportCreate, map[string]any{
		"reportId":        report.ID,
		"taxDefinitionId": def.ID,
	})
	s.publish("report.created", &report)

	return &CreateReportResponse{ID: report.ID, DeclarationNumber: *report.DeclarationNumber}, nil
}

func (s *reportService) List(ctx context.Context, actor *model.User, q ListReportsQuery) ([]repository.ReportRow, error) {
	if err := validateDateRange(q.FromDate, q.ToDate); err != nil {
		return nil, err
	}

	rows, err := s.reports.List(ctx, repository.ReportFilter{
		UserID:          actor.ID,
		TaxDefinitionID: q.TaxDefinitionID,
		FromDate:        q.FromDate,
		ToDate:          q.ToDate,
	})
	if err != nil {
		return nil, wrapInternal("list tax reports", err)
	}
	return rows, nil
}

func (s *reportService) Get(ctx context.Context, actor *model.User, id uint) (*ReportDetail, error) {
	report, err := s.loadGuarded(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, report.UserID)
	if err != nil {
		return nil, wrapInternal("fetch report owner", err)
	}

	return &ReportDetail{Report: *report, Owner: *owner}, nil
}

func (s *reportService) Update(ctx context.Context, actor *model.User, id uint, req UpdateReportRequest) error {
	report, err := s.loadGuarded(ctx, actor, id)
	if err != nil {
		return err
	}
	if !report.IsPlanned() {
		return Errorf(KindInvalidState, "подану декларацію не можна змінити")
	}

	base, err := validateBaseAmount(req.BaseAmount)
	if err != nil {
		return err
	}

	def, err := s.defs.GetByID(ctx, req.TaxDefinitionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errorf(KindNotFound, "обраний податок не знайдено")
		}
		return wrapInternal("fetch tax definition", err)
	}

	// Recompute the snapshot against the (possibly different) definition.
	tax, total := computeAmounts(base, def.Rate)

	if title := strings.TrimSpace(req.Title); title != "" {
		report.Title = title
	} else {
		report.Title = def.Name
	}
	report.TaxType = def.Name
	report.TaxDefinitionID = &def.ID
	report.BaseAmount = base
	report.TaxRate = def.Rate
	report.TaxAmount = tax
	report.TotalAmount = total
	report.DueDate = dueDateFrom(def, time.Now())
	report.Address = req.Address

	if err := s.reports.Update(ctx, report); err != nil {
		return wrapInternal("update tax report", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionReportUpdate, map[string]any{
		"reportId":        report.ID,
		"taxDefinitionId": def.ID,
	})
	return nil
}

func (s *reportService) Delete(ctx context.Context, actor *model.User, id uint) error {
	report, err := s.loadGuarded(ctx, actor, id)
	if err != nil {
		return err
	}
	if !report.IsPlanned() {
		return Errorf(KindInvalidState, "подану декларацію не можна видалити")
	}

	if err := s.reports.Delete(ctx, report.ID); err != nil {
		return wrapInternal("delete tax report", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionReportDelete, map[string]any{
		"reportId": report.ID,
	})
	return nil
}

func (s *reportService) SignAndSubmit(ctx context.Context, actor *model.User, id uint, key string) (*SignReportResponse, error) {
	report, err := s.loadGuarded(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !report.IsPlanned() {
		return nil, Errorf(KindInvalidState, "декларацію вже подано")
	}

	// The key is taken verbatim, whitespace included.
	if len([]rune(key)) < 6 {
		return nil, Errorf(KindValidation, "введіть тестовий ключ (мінімум 6 символів)")
	}

	// The signature is explicitly mocked: the digest is shown to the user
	// and carries no cryptographic meaning.
	digest := sha256.Sum256([]byte(key))
	signatureHash := hex.EncodeToString(digest[:])

	if report.DeclarationNumber == nil || *report.DeclarationNumber == "" {
		fallback := fmt.Sprintf("TA-%s-%d", time.Now().Format("20060102"), report.ID)
		report.DeclarationNumber = &fallback
	}
	report.Status = model.StatusSubmitted

	if err := s.reports.Update(ctx, report); err != nil {
		return nil, wrapInternal("submit tax report", err)
	}

	s.audit.record(ctx, actor.ID, model.ActionReportSignSend, map[string]any{
		"reportId":          report.ID,
		"declarationNumber": *report.DeclarationNumber,
	})
	s.publish("report.submitted", report)

	return &SignReportResponse{
		ID:                report.ID,
		DeclarationNumber: *report.DeclarationNumber,
		Status:            report.Status,
		SignatureHash:     signatureHash,
	}, nil
}

// --- Helpers ---

// loadGuarded fetches a report and enforces the ownership rule shared by all
// single-report operations: the owner and the administrator may pass.
func (s *reportService) loadGuarded(ctx context.Context, actor *model.User, id uint) (*model.TaxReport, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindNotFound, "звіт не знайдено")
		}
		return nil, wrapInternal("fetch tax report", err)
	}
	if report.UserID != actor.ID && !actor.IsAdmin() {
		return nil, Errorf(KindForbidden, "доступ заборонено")
	}
	return report, nil
}

func (s *reportService) publish(eventType string, report *model.TaxReport) {
	if s.feed != nil {
		s.feed.PublishReportEvent(eventType, report)
	}
}

func validateBaseAmount(v *float64) (float64, error) {
	if v == nil {
		return 0, Errorf(KindValidation, "оберіть податок і введіть базову суму")
	}
	base := *v
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
		return 0, Errorf(KindValidation, "базова сума має бути додатним числом")
	}
	return base, nil
}

// validateDateRange rejects inverted ranges before any query runs.
func validateDateRange(from, to string) error {
	if from != "" && to != "" && from > to {
		return Errorf(KindValidation, `дата "до" не може бути раніше, ніж дата "з"`)
	}
	return nil
}

func dueDateFrom(def *model.TaxDefinition, now time.Time) *string {
	if def.DueDays == nil {
		return nil
	}
	d := now.AddDate(0, 0, *def.DueDays).Format("2006-01-02")
	return &d
}
