package handlers

import "net/http"

func (a *API) listContents(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	p, err := parsePage(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	page, err := a.Contents.ListContents(r.Context(), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapPage(page, fromContentSummary), "")
}

// getContent counts as a view.
func (a *API) getContent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	content, err := a.Contents.GetContent(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromContent(content), "")
}

func (a *API) createContent(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req contentRequest
	if err := a.decode(w, r, &req, contentSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	content, err := a.Contents.CreateContent(r.Context(), req.toNewContent(), callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.created(w, fromContent(content))
}

func (a *API) updateContent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req contentRequest
	if err := a.decode(w, r, &req, contentSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	content, err := a.Contents.UpdateContent(r.Context(), id, req.toUpdate(), callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromContent(content), "content updated")
}

func (a *API) deleteContent(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
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
	if err := a.Contents.DeleteContent(r.Context(), id, callerSecret(r, req.MasterPassword, req.Password)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, nil, "content deleted")
}
