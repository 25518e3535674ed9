package forms

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/914h/BabImmob-sub000/internal/adapters/api"

	"github.com/gofiber/fiber/v2"
)

// MaxImages caps how many images one property form may carry
const MaxImages = 10

// MaxRequestBytes is the largest body a form may send: every image at the
// per-file limit plus one more share for the text fields.
func MaxRequestBytes(maxBytes int64) int {
	return int(maxBytes) * (MaxImages + 1)
}

// Files reads the uploads posted under field (with or without the [] suffix).
// A non-multipart request or an empty input yields no files.
func Files(c *fiber.Ctx, field string, maxBytes int64) ([]api.File, FieldErrors) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, FieldErrors{field: {"The upload could not be read."}}
	}

	headers := append(form.File[field], form.File[field+"[]"]...)
	if len(headers) > MaxImages {
		return nil, FieldErrors{field: {fmt.Sprintf("No more than %d images can be uploaded.", MaxImages)}}
	}

	files := make([]api.File, 0, len(headers))
	errs := FieldErrors{}
	for _, fh := range headers {
		if fh.Filename == "" || fh.Size == 0 {
			continue
		}
		f, err := readImage(fh, maxBytes)
		if err != nil {
			errs.Add(field, fmt.Sprintf("%s: %s", fh.Filename, err.Error()))
			continue
		}
		files = append(files, f)
	}
	if errs.Any() {
		return nil, errs
	}
	return files, nil
}

// File reads a single optional upload
func File(c *fiber.Ctx, field string, maxBytes int64) (*api.File, FieldErrors) {
	files, errs := Files(c, field, maxBytes)
	if errs != nil || len(files) == 0 {
		return nil, errs
	}
	return &files[0], nil
}

func readImage(fh *multipart.FileHeader, maxBytes int64) (api.File, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return api.File{}, fmt.Errorf("the file may not be greater than %d MB", maxBytes>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return api.File{}, errors.New("the file could not be opened")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return api.File{}, errors.New("the file could not be read")
	}

	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return api.File{}, errors.New("the file must be an image")
	}

	return api.File{Name: fh.Filename, ContentType: ct, Data: data}, nil
}
