package handlers

import (
	"errors"
	"net/http"

	"github.com/gartstein/partners/internal/directory/controller"
	e "github.com/gartstein/partners/internal/directory/errors"
)

// Multipart overhead allowed on top of the file itself.
const multipartSlack = 1 << 20

func (a *API) upload(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	r.Body = http.MaxBytesReader(w, r.Body, controller.MaxUploadSize+multipartSlack)
	if err := r.ParseMultipartForm(controller.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.fail(w, r, e.Invalid("file must be at most %d MB", controller.MaxUploadSize>>20))
			return
		}
		a.fail(w, r, e.Invalid("request must be multipart/form-data"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		a.fail(w, r, e.Invalid("file is required"))
		return
	}
	defer file.Close()

	url, err := a.Uploads.Upload(r.Context(), r.FormValue("folder"), header.Filename,
		header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.ok(w, map[string]string{"url": url}, "file uploaded")
}
