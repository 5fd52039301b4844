package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gartstein/partners/internal/directory/auth"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockAccessController struct {
	verifyFunc func(secret string) error
}

func (m *mockAccessController) VerifyMasterSecret(secret string) error {
	return m.verifyFunc(secret)
}

type mockCompanyController struct {
	createFunc         func(ctx context.Context, in *models.NewCompany) (*models.Company, error)
	listFunc           func(ctx context.Context, filter models.CompanyFilter) (*models.Paginated[models.PublicCompany], error)
	listPendingFunc    func(ctx context.Context, page models.Page, secret string) (*models.Paginated[models.PublicCompany], error)
	listAllFunc        func(ctx context.Context, filter models.CompanyFilter, secret string) (*models.Paginated[*models.Company], error)
	getFunc            func(ctx context.Context, id int64) (*models.PublicCompany, error)
	getPrivateFunc     func(ctx context.Context, id int64, secret string) (*models.Company, error)
	verifySecretFunc   func(ctx context.Context, id int64, secret string) (bool, error)
	updateFunc         func(ctx context.Context, id int64, update *models.CompanyUpdate, secret string) (*models.Company, error)
	deleteFunc         func(ctx context.Context, id int64, secret string) error
	updateApprovalFunc func(ctx context.Context, id int64, status models.ApprovalStatus, secret string) (*models.Company, error)
	rejectDeleteFunc   func(ctx context.Context, id int64, secret string) error
}

func (m *mockCompanyController) CreateCompany(ctx context.Context, in *models.NewCompany) (*models.Company, error) {
	return m.createFunc(ctx, in)
}

func (m *mockCompanyController) ListCompanies(ctx context.Context, filter models.CompanyFilter) (*models.Paginated[models.PublicCompany], error) {
	return m.listFunc(ctx, filter)
}

func (m *mockCompanyController) ListPendingCompanies(ctx context.Context, page models.Page, secret string) (*models.Paginated[models.PublicCompany], error) {
	return m.listPendingFunc(ctx, page, secret)
}

func (m *mockCompanyController) ListAllCompanies(ctx context.Context, filter models.CompanyFilter, secret string) (*models.Paginated[*models.Company], error) {
	return m.listAllFunc(ctx, filter, secret)
}

func (m *mockCompanyController) GetCompany(ctx context.Context, id int64) (*models.PublicCompany, error) {
	return m.getFunc(ctx, id)
}

func (m *mockCompanyController) GetCompanyPrivate(ctx context.Context, id int64, secret string) (*models.Company, error) {
	return m.getPrivateFunc(ctx, id, secret)
}

func (m *mockCompanyController) VerifyCompanySecret(ctx context.Context, id int64, secret string) (bool, error) {
	return m.verifySecretFunc(ctx, id, secret)
}

func (m *mockCompanyController) UpdateCompany(ctx context.Context, id int64, update *models.CompanyUpdate, secret string) (*models.Company, error) {
	return m.updateFunc(ctx, id, update, secret)
}

func (m *mockCompanyController) DeleteCompany(ctx context.Context, id int64, secret string) error {
	return m.deleteFunc(ctx, id, secret)
}

func (m *mockCompanyController) UpdateApprovalStatus(ctx context.Context, id int64, status models.ApprovalStatus, secret string) (*models.Company, error) {
	return m.updateApprovalFunc(ctx, id, status, secret)
}

func (m *mockCompanyController) RejectAndDelete(ctx context.Context, id int64, secret string) error {
	return m.rejectDeleteFunc(ctx, id, secret)
}

type mockBannerController struct {
	listActiveFunc func(ctx context.Context) ([]*models.Banner, error)
	listAllFunc    func(ctx context.Context, secret string) ([]*models.Banner, error)
	createFunc     func(ctx context.Context, in *models.NewBanner, secret string) (*models.Banner, error)
	updateFunc     func(ctx context.Context, id int64, update *models.BannerUpdate, secret string) (*models.Banner, error)
	deleteFunc     func(ctx context.Context, id int64, secret string) error
}

func (m *mockBannerController) ListActiveBanners(ctx context.Context) ([]*models.Banner, error) {
	return m.listActiveFunc(ctx)
}

func (m *mockBannerController) ListAllBanners(ctx context.Context, secret string) ([]*models.Banner, error) {
	return m.listAllFunc(ctx, secret)
}

func (m *mockBannerController) CreateBanner(ctx context.Context, in *models.NewBanner, secret string) (*models.Banner, error) {
	return m.createFunc(ctx, in, secret)
}

func (m *mockBannerController) UpdateBanner(ctx context.Context, id int64, update *models.BannerUpdate, secret string) (*models.Banner, error) {
	return m.updateFunc(ctx, id, update, secret)
}

func (m *mockBannerController) DeleteBanner(ctx context.Context, id int64, secret string) error {
	return m.deleteFunc(ctx, id, secret)
}

type mockContentController struct {
	listFunc   func(ctx context.Context, page models.Page) (*models.Paginated[models.ContentSummary], error)
	getFunc    func(ctx context.Context, id int64) (*models.Content, error)
	createFunc func(ctx context.Context, in *models.NewContent, secret string) (*models.Content, error)
	updateFunc func(ctx context.Context, id int64, update *models.ContentUpdate, secret string) (*models.Content, error)
	deleteFunc func(ctx context.Context, id int64, secret string) error
}

func (m *mockContentController) ListContents(ctx context.Context, page models.Page) (*models.Paginated[models.ContentSummary], error) {
	return m.listFunc(ctx, page)
}

func (m *mockContentController) GetContent(ctx context.Context, id int64) (*models.Content, error) {
	return m.getFunc(ctx, id)
}

func (m *mockContentController) CreateContent(ctx context.Context, in *models.NewContent, secret string) (*models.Content, error) {
	return m.createFunc(ctx, in, secret)
}

func (m *mockContentController) UpdateContent(ctx context.Context, id int64, update *models.ContentUpdate, secret string) (*models.Content, error) {
	return m.updateFunc(ctx, id, update, secret)
}

func (m *mockContentController) DeleteContent(ctx context.Context, id int64, secret string) error {
	return m.deleteFunc(ctx, id, secret)
}

type mockInquiryController struct {
	createFunc         func(ctx context.Context, in *models.NewInquiry, client models.ClientInfo) (*models.Inquiry, error)
	listFunc           func(ctx context.Context, filter models.InquiryFilter) (*models.Paginated[models.InquirySummary], error)
	listAdminFunc      func(ctx context.Context, filter models.InquiryFilter, secret string) (*models.Paginated[*models.Inquiry], error)
	getFunc            func(ctx context.Context, id int64, secret string) (*models.Inquiry, error)
	updateFunc         func(ctx context.Context, id int64, update *models.InquiryUpdate, secret string) (*models.Inquiry, error)
	deleteFunc         func(ctx context.Context, id int64, secret string) error
	updateAnsweredFunc func(ctx context.Context, id int64, answered bool, secret string) (*models.Inquiry, error)
	countFunc          func(ctx context.Context) (int64, error)
}

func (m *mockInquiryController) CreateInquiry(ctx context.Context, in *models.NewInquiry, client models.ClientInfo) (*models.Inquiry, error) {
	return m.createFunc(ctx, in, client)
}

func (m *mockInquiryController) ListInquiries(ctx context.Context, filter models.InquiryFilter) (*models.Paginated[models.InquirySummary], error) {
	return m.listFunc(ctx, filter)
}

func (m *mockInquiryController) ListInquiriesAdmin(ctx context.Context, filter models.InquiryFilter, secret string) (*models.Paginated[*models.Inquiry], error) {
	return m.listAdminFunc(ctx, filter, secret)
}

func (m *mockInquiryController) GetInquiry(ctx context.Context, id int64, secret string) (*models.Inquiry, error) {
	return m.getFunc(ctx, id, secret)
}

func (m *mockInquiryController) UpdateInquiry(ctx context.Context, id int64, update *models.InquiryUpdate, secret string) (*models.Inquiry, error) {
	return m.updateFunc(ctx, id, update, secret)
}

func (m *mockInquiryController) DeleteInquiry(ctx context.Context, id int64, secret string) error {
	return m.deleteFunc(ctx, id, secret)
}

func (m *mockInquiryController) UpdateAnsweredStatus(ctx context.Context, id int64, answered bool, secret string) (*models.Inquiry, error) {
	return m.updateAnsweredFunc(ctx, id, answered, secret)
}

func (m *mockInquiryController) CountUnanswered(ctx context.Context) (int64, error) {
	return m.countFunc(ctx)
}

type mockUploadController struct {
	uploadFunc func(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
}

func (m *mockUploadController) Upload(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	return m.uploadFunc(ctx, folder, filename, contentType, body, size)
}

// response is the decoded envelope with the payload left raw.
type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func newTestHandler(t *testing.T, services Services) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	mux := runtime.NewServeMux(
		runtime.WithMiddlewares(requestLogger(logger)),
		runtime.WithRoutingErrorHandler(routingError),
	)
	require.NoError(t, NewAPI(services, logger).Register(mux))
	return auth.HTTPMiddleware(mux)
}

func doRequest(t *testing.T, h http.Handler, method, target, body string, header http.Header) (int, response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

func decodeData(t *testing.T, resp response, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

func secretHeader(secret string) http.Header {
	return http.Header{auth.SecretHeader: []string{secret}}
}

func TestAPI_VerifyMasterPassword(t *testing.T) {
	access := &mockAccessController{verifyFunc: func(secret string) error {
		if secret != "master-secret" {
			return e.ErrInvalidSecret
		}
		return nil
	}}
	h := newTestHandler(t, Services{Access: access})

	tests := []struct {
		name       string
		body       string
		header     http.Header
		wantStatus int
		wantCode   string
	}{
		{"body secret", `{"masterPassword":"master-secret"}`, nil, http.StatusOK, ""},
		{"password field", `{"password":"master-secret"}`, nil, http.StatusOK, ""},
		{"header secret", ``, secretHeader("master-secret"), http.StatusOK, ""},
		{"body wins over header", `{"masterPassword":"wrong"}`, secretHeader("master-secret"), http.StatusUnauthorized, e.CodeInvalidAuth},
		{"padded body secret", `{"masterPassword":" master-secret "}`, nil, http.StatusUnauthorized, e.CodeInvalidAuth},
		{"padded header secret", ``, secretHeader(" master-secret "), http.StatusUnauthorized, e.CodeInvalidAuth},
		{"missing", ``, nil, http.StatusUnauthorized, e.CodeInvalidAuth},
		{"wrong type", `{"masterPassword":42}`, nil, http.StatusBadRequest, e.CodeValidation},
		{"not json", `{"masterPassword"`, nil, http.StatusBadRequest, e.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := doRequest(t, h, http.MethodPost, "/api/verify-master-password", tt.body, tt.header)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus == http.StatusOK, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestAPI_RoutingErrors(t *testing.T) {
	h := newTestHandler(t, Services{})

	status, resp := doRequest(t, h, http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, e.CodeNotFound, resp.Error)

	status, resp = doRequest(t, h, http.MethodPut, "/api/companies/1", "{}", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "METHOD_NOT_ALLOWED", resp.Error)
}

func TestAPI_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"validation", e.Invalid("name is required"), http.StatusBadRequest, e.CodeValidation, "invalid input: name is required"},
		{"not found", e.ErrNotFound, http.StatusNotFound, e.CodeNotFound, "not found"},
		{"secret", e.ErrInvalidSecret, http.StatusUnauthorized, e.CodeInvalidAuth, "invalid password"},
		{"upload", e.ErrUploadFailed, http.StatusBadGateway, e.CodeUploadFailed, "file upload failed"},
		{"upstream", e.ErrUpstream, http.StatusBadGateway, e.CodeUpstream, "upstream service unavailable"},
		{"configuration", e.ErrConfiguration, http.StatusInternalServerError, e.CodeInternal, "internal server error"},
		{"unknown", errors.New("dial tcp 10.0.0.1:5432: connection refused"), http.StatusInternalServerError, e.CodeInternal, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			companies := &mockCompanyController{getFunc: func(context.Context, int64) (*models.PublicCompany, error) {
				return nil, tt.err
			}}
			h := newTestHandler(t, Services{Companies: companies})

			status, resp := doRequest(t, h, http.MethodGet, "/api/companies/7", "", nil)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestAPI_RecoversFromPanic(t *testing.T) {
	companies := &mockCompanyController{getFunc: func(context.Context, int64) (*models.PublicCompany, error) {
		panic("boom")
	}}
	h := newTestHandler(t, Services{Companies: companies})

	status, resp := doRequest(t, h, http.MethodGet, "/api/companies/1", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, e.CodeInternal, resp.Error)
}

func TestAPI_InvalidID(t *testing.T) {
	h := newTestHandler(t, Services{Companies: &mockCompanyController{}, Contents: &mockContentController{}})

	for _, target := range []string{"/api/companies/abc", "/api/companies/0", "/api/contents/-3"} {
		status, resp := doRequest(t, h, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, status, target)
		assert.Equal(t, e.CodeValidation, resp.Error, target)
	}
}
