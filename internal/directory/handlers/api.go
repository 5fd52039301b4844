package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gartstein/partners/internal/directory/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
)

// CompanyController defines the company operations the HTTP handlers invoke.
type CompanyController interface {
	CreateCompany(ctx context.Context, in *models.NewCompany) (*models.Company, error)
	ListCompanies(ctx context.Context, filter models.CompanyFilter) (*models.Paginated[models.PublicCompany], error)
	ListPendingCompanies(ctx context.Context, page models.Page, secret string) (*models.Paginated[models.PublicCompany], error)
	ListAllCompanies(ctx context.Context, filter models.CompanyFilter, secret string) (*models.Paginated[*models.Company], error)
	GetCompany(ctx context.Context, id int64) (*models.PublicCompany, error)
	GetCompanyPrivate(ctx context.Context, id int64, secret string) (*models.Company, error)
	VerifyCompanySecret(ctx context.Context, id int64, secret string) (bool, error)
	UpdateCompany(ctx context.Context, id int64, update *models.CompanyUpdate, secret string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id int64, secret string) error
	UpdateApprovalStatus(ctx context.Context, id int64, status models.ApprovalStatus, secret string) (*models.Company, error)
	RejectAndDelete(ctx context.Context, id int64, secret string) error
}

type BannerController interface {
	ListActiveBanners(ctx context.Context) ([]*models.Banner, error)
	ListAllBanners(ctx context.Context, secret string) ([]*models.Banner, error)
	CreateBanner(ctx context.Context, in *models.NewBanner, secret string) (*models.Banner, error)
	UpdateBanner(ctx context.Context, id int64, update *models.BannerUpdate, secret string) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id int64, secret string) error
}

type ContentController interface {
	ListContents(ctx context.Context, page models.Page) (*models.Paginated[models.ContentSummary], error)
	GetContent(ctx context.Context, id int64) (*models.Content, error)
	CreateContent(ctx context.Context, in *models.NewContent, secret string) (*models.Content, error)
	UpdateContent(ctx context.Context, id int64, update *models.ContentUpdate, secret string) (*models.Content, error)
	DeleteContent(ctx context.Context, id int64, secret string) error
}

type InquiryController interface {
	CreateInquiry(ctx context.Context, in *models.NewInquiry, client models.ClientInfo) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, filter models.InquiryFilter) (*models.Paginated[models.InquirySummary], error)
	ListInquiriesAdmin(ctx context.Context, filter models.InquiryFilter, secret string) (*models.Paginated[*models.Inquiry], error)
	GetInquiry(ctx context.Context, id int64, secret string) (*models.Inquiry, error)
	UpdateInquiry(ctx context.Context, id int64, update *models.InquiryUpdate, secret string) (*models.Inquiry, error)
	DeleteInquiry(ctx context.Context, id int64, secret string) error
	UpdateAnsweredStatus(ctx context.Context, id int64, answered bool, secret string) (*models.Inquiry, error)
	CountUnanswered(ctx context.Context) (int64, error)
}

type UploadController interface {
	Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
}

type AccessController interface {
	VerifyMasterSecret(secret string) error
}

// Services bundles the controllers served over HTTP.
type Services struct {
	Access    AccessController
	Companies CompanyController
	Banners   BannerController
	Contents  ContentController
	Inquiries InquiryController
	Uploads   UploadController
}

// API exposes the directory services as JSON over HTTP.
type API struct {
	Services
	logger *zap.Logger
}

func NewAPI(services Services, logger *zap.Logger) *API {
	return &API{
		Services: services,
		logger:   logger.Named("http_handler"),
	}
}

type route struct {
	method  string
	pattern string
	handler runtime.HandlerFunc
}

// routes lists the API. The mux tries the most recently registered pattern first,
// so literal paths are listed after the {id} patterns they would otherwise collide with.
func (a *API) routes() []route {
	return []route{
		{http.MethodPost, "/api/verify-master-password", a.verifyMasterPassword},

		{http.MethodGet, "/api/companies/{id}", a.getCompany},
		{http.MethodPatch, "/api/companies/{id}", a.updateCompany},
		{http.MethodDelete, "/api/companies/{id}", a.deleteCompany},
		{http.MethodGet, "/api/companies", a.listCompanies},
		{http.MethodPost, "/api/companies", a.createCompany},
		{http.MethodGet, "/api/companies/pending", a.listPendingCompanies},
		{http.MethodGet, "/api/admin/companies", a.listAllCompanies},
		{http.MethodPost, "/api/companies/{id}/private", a.getCompanyPrivate},
		{http.MethodPost, "/api/companies/{id}/verify-password", a.verifyCompanyPassword},
		{http.MethodPatch, "/api/companies/{id}/approval", a.updateApprovalStatus},
		{http.MethodPost, "/api/companies/{id}/reject-and-delete", a.rejectAndDelete},

		{http.MethodGet, "/api/banners", a.listActiveBanners},
		{http.MethodPost, "/api/banners", a.createBanner},
		{http.MethodGet, "/api/admin/banners", a.listAllBanners},
		{http.MethodPatch, "/api/banners/{id}", a.updateBanner},
		{http.MethodDelete, "/api/banners/{id}", a.deleteBanner},

		{http.MethodGet, "/api/contents", a.listContents},
		{http.MethodPost, "/api/contents", a.createContent},
		{http.MethodGet, "/api/contents/{id}", a.getContent},
		{http.MethodPatch, "/api/contents/{id}", a.updateContent},
		{http.MethodDelete, "/api/contents/{id}", a.deleteContent},

		{http.MethodPatch, "/api/inquiries/{id}", a.updateInquiry},
		{http.MethodDelete, "/api/inquiries/{id}", a.deleteInquiry},
		{http.MethodGet, "/api/inquiries", a.listInquiries},
		{http.MethodPost, "/api/inquiries", a.createInquiry},
		{http.MethodGet, "/api/admin/inquiries", a.listInquiriesAdmin},
		{http.MethodGet, "/api/inquiries/unanswered-count", a.countUnanswered},
		{http.MethodPost, "/api/inquiries/{id}/view", a.getInquiry},
		{http.MethodPatch, "/api/inquiries/{id}/answered", a.updateAnsweredStatus},

		{http.MethodPost, "/api/uploads", a.upload},
	}
}

// Register adds every API route to mux.
func (a *API) Register(mux *runtime.ServeMux) error {
	for _, r := range a.routes() {
		if err := mux.HandlePath(r.method, r.pattern, r.handler); err != nil {
			return err
		}
	}
	return nil
}
