package handlers

import "net/http"

func (a *API) listActiveBanners(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	banners, err := a.Banners.ListActiveBanners(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapSlice(banners, fromBanner), "")
}

func (a *API) listAllBanners(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	banners, err := a.Banners.ListAllBanners(r.Context(), callerSecret(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, mapSlice(banners, fromBanner), "")
}

func (a *API) createBanner(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req bannerRequest
	if err := a.decode(w, r, &req, bannerSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	banner, err := a.Banners.CreateBanner(r.Context(), req.toNewBanner(), callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.created(w, fromBanner(banner))
}

func (a *API) updateBanner(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
	id, err := parseID(pathParams)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var req bannerRequest
	if err := a.decode(w, r, &req, bannerSchema); err != nil {
		a.fail(w, r, err)
		return
	}
	banner, err := a.Banners.UpdateBanner(r.Context(), id, req.toUpdate(), callerSecret(r, req.MasterPassword))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, fromBanner(banner), "banner updated")
}

func (a *API) deleteBanner(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
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
	if err := a.Banners.DeleteBanner(r.Context(), id, callerSecret(r, req.MasterPassword, req.Password)); err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, nil, "banner deleted")
}
