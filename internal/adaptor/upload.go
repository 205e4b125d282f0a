package adaptor

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"course-platform/internal/dto/request"
	"course-platform/pkg/utils"
)

// multipartOverhead leaves room for the text fields and boundaries around the
// file itself.
const multipartOverhead = 1 << 20

func isMultipart(r *http.Request) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mediaType == "multipart/form-data"
}

// parseUploadForm parses a multipart body whose optional file sits in field.
// On failure it writes the 400 itself and returns ok=false. The returned
// cleanup must be called once the upload has been consumed.
func parseUploadForm(w http.ResponseWriter, r *http.Request, maxUpload int64, field, label string) (upload *request.Upload, cleanup func(), ok bool) {
	cleanup = func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(maxUpload + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseBadRequest(w, label+" is too large", nil)
			return nil, cleanup, false
		}
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return nil, cleanup, false
	}
	form := r.MultipartForm
	cleanup = func() { _ = form.RemoveAll() }

	file, header, err := r.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return nil, cleanup, true
	case err != nil:
		cleanup()
		utils.ResponseBadRequest(w, "Invalid "+strings.ToLower(label), nil)
		return nil, func() {}, false
	}

	removeForm := cleanup
	cleanup = func() {
		file.Close()
		removeForm()
	}
	return &request.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Body:     file,
	}, cleanup, true
}
