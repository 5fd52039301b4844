package handlers

import (
	"net/http"

	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
)

func (a *API) verifyMasterPassword(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req secretRequest
	if err := a.decode(w, r, &req, secretSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Access.VerifyMasterSecret(callerSecret(r, req.MasterPassword, req.Password)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, map[string]bool{"valid": true}, "master password verified")
}

func companyFilter(r *http.Request) (models.CompanyFilter, error) {
	page, err := parsePage(r)
	if err != nil {
		return models.CompanyFilter{}, err
	}
	status := models.ApprovalStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return models.CompanyFilter{}, e.Invalid("unknown approval status %q", status)
	}
	return models.CompanyFilter{
		Search:              r.URL.Query().Get("search"),
		Tags:                parseList(r, "tags"),
		PrimaryCategories:   parseList(r, "primaryCategory"),
		SecondaryCategories: parseList(r, "secondaryCategory"),
		Status:              status,
		Page:                page,
	}, nil
}

func (a *API) listCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := companyFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Companies.ListCompanies(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromPublicCompany), "")
}

func (a *API) listPendingCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	p, err := parsePage(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Companies.ListPendingCompanies(r.Context(), p, callerSecret(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromPublicCompany), "")
}

func (a *API) listAllCompanies(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := companyFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Companies.ListAllCompanies(r.Context(), filter, callerSecret(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromCompany), "")
}

func (a *API) createCompany(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req companyRequest
	if err := a.decode(w, r, &req, companySchema, newCompanySchema); err != nil {
		a.fail(w, r, err)
		return
	}
	company, err := a.Companies.CreateCompany(r.Context(), req.toNewCompany())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.created(w, fromCompany(company))
}

func (a *API) getCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	company, err := a.Companies.GetCompany(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromPublicCompany(*company), "")
}

func (a *API) getCompanyPrivate(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req secretRequest
	if err := a.decode(w, r, &req, secretSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	company, err := a.Companies.GetCompanyPrivate(r.Context(), id, callerSecret(r, req.Password, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromCompany(company), "")
}

func (a *API) verifyCompanyPassword(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req secretRequest
	if err := a.decode(w, r, &req, secretSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	valid, err := a.Companies.VerifyCompanySecret(r.Context(), id, callerSecret(r, req.Password, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !valid {
		a.fail(w, r, e.ErrInvalidSecret)
		return
	}
	a.ok(w, map[string]bool{"valid": true}, "password verified")
}

func (a *API) updateCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req companyRequest
	if err := a.decode(w, r, &req, companySchema); err != nil {
		a.fail(w, r, err)
		return
	}
	company, err := a.Companies.UpdateCompany(r.Context(), id, req.toUpdate(), callerSecret(r, req.Password, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromCompany(company), "company updated")
}

func (a *API) deleteCompany(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req secretRequest
	if err := a.decode(w, r, &req, secretSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Companies.DeleteCompany(r.Context(), id, callerSecret(r, req.Password, req.MasterPassword)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, nil, "company deleted")
}

func (a *API) updateApprovalStatus(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req approvalRequest
	if err := a.decode(w, r, &req, approvalSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	company, err := a.Companies.UpdateApprovalStatus(r.Context(), id, req.ApprovalStatus, callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromCompany(company), "approval status updated")
}

func (a *API) rejectAndDelete(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req secretRequest
	if err := a.decode(w, r, &req, secretSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Companies.RejectAndDelete(r.Context(), id, callerSecret(r, req.MasterPassword, req.Password)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, nil, "company rejected and deleted")
}
