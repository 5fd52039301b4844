package handlers

import (
	"net/http"

	"github.com/gartstein/partners/internal/directory/auth"
	e "github.com/gartstein/partners/internal/directory/errors"
	"github.com/gartstein/partners/internal/directory/models"
)

func inquiryFilter(r *http.Request) (models.InquiryFilter, error) {
	page, err := parsePage(r)
	if err != nil {
		return models.InquiryFilter{}, err
	}
	answered, err := parseBool(r, "isAnswered")
	if err != nil {
		return models.InquiryFilter{}, err
	}
	category := models.InquiryCategory(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		return models.InquiryFilter{}, e.Invalid("unknown inquiry category %q", category)
	}
	return models.InquiryFilter{Category: category, IsAnswered: answered, Page: page}, nil
}

func (a *API) listInquiries(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := inquiryFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Inquiries.ListInquiries(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromInquirySummary), "")
}

func (a *API) listInquiriesAdmin(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	filter, err := inquiryFilter(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Inquiries.ListInquiriesAdmin(r.Context(), filter, callerSecret(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromInquiryAdmin), "")
}

func (a *API) countUnanswered(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	n, err := a.Inquiries.CountUnanswered(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, map[string]int64{"count": n}, "")
}

func (a *API) createInquiry(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req inquiryRequest
	if err := a.decode(w, r, &req, inquirySchema, newInquirySchema); err != nil {
		a.fail(w, r, err)
		return
	}
	inquiry, err := a.Inquiries.CreateInquiry(r.Context(), req.toNewInquiry(), auth.ClientFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.created(w, fromInquiry(inquiry))
}

// getInquiry is a POST so the secret travels in the body.
func (a *API) getInquiry(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
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
	inquiry, err := a.Inquiries.GetInquiry(r.Context(), id, callerSecret(r, req.Password, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromInquiry(inquiry), "")
}

func (a *API) updateInquiry(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req inquiryRequest
	if err := a.decode(w, r, &req, inquirySchema); err != nil {
		a.fail(w, r, err)
		return
	}
	inquiry, err := a.Inquiries.UpdateInquiry(r.Context(), id, req.toUpdate(), callerSecret(r, req.Password, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromInquiry(inquiry), "inquiry updated")
}

func (a *API) deleteInquiry(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
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
	if err := a.Inquiries.DeleteInquiry(r.Context(), id, callerSecret(r, req.Password, req.MasterPassword)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, nil, "inquiry deleted")
}

func (a *API) updateAnsweredStatus(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req answeredRequest
	if err := a.decode(w, r, &req, answeredSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	inquiry, err := a.Inquiries.UpdateAnsweredStatus(r.Context(), id, req.IsAnswered, callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromInquiryAdmin(inquiry), "answered status updated")
}
