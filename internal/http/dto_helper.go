package httpapp

import (
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/cesargomez89/soundhall/internal/app"
	"github.com/cesargomez89/soundhall/internal/constants"
	"github.com/cesargomez89/soundhall/internal/http/dto"
)

// bindForm fills the string, int64 and []int64 fields of the struct dst
// points to from r.Form using their form tags. A []int64 field collects
// every key made of the tag followed by digits, in key order.
func bindForm(r *http.Request, dst interface{}) []dto.ValidationError {
	var errs []dto.ValidationError
	v := reflect.ValueOf(dst).Elem()
	typ := v.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		key := field.Tag.Get("form")
		if key == "" {
			continue
		}
		fv := v.Field(i)

		switch fv.Kind() {
		case reflect.String:
			fv.SetString(strings.TrimSpace(r.Form.Get(key)))
		case reflect.Int64:
			raw := strings.TrimSpace(r.Form.Get(key))
			if raw == "" {
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				errs = append(errs, dto.ValidationError{Field: key, Message: "must be a number"})
				continue
			}
			fv.SetInt(n)
		case reflect.Slice:
			ids, badKey := prefixedIDs(r, key)
			if badKey != "" {
				errs = append(errs, dto.ValidationError{Field: badKey, Message: "must be a number"})
				continue
			}
			fv.Set(reflect.ValueOf(ids))
		}
	}
	return errs
}

func prefixedIDs(r *http.Request, prefix string) ([]int64, string) {
	var keys []string
	for k := range r.Form {
		if rest, ok := strings.CutPrefix(k, prefix); ok && isDigits(rest) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var ids []int64
	for _, k := range keys {
		for _, raw := range r.Form[k] {
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, k
			}
			ids = append(ids, n)
		}
	}
	return ids, ""
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// parseUploadForm parses a multipart body capped at the configured upload
// size. Plain url-encoded bodies are accepted too.
func (h *Handler) parseUploadForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.Options.MaxUploadBytes)
	err := r.ParseMultipartForm(constants.MaxMultipartMemoryMiB << 20)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func cleanupMultipart(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formFile returns the uploaded file for field, or nil when none was sent.
// The caller closes the returned file via the cleanup func.
func formFile(r *http.Request, field string) (*app.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil {
		return nil, noop, nil
	}
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	if hdr.Size == 0 && hdr.Filename == "" {
		_ = f.Close()
		return nil, noop, nil
	}
	return &app.Upload{Body: f, Filename: hdr.Filename}, func() { _ = f.Close() }, nil
}

func (h *Handler) formError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.errorResponse(w, r, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	h.errorResponse(w, r, http.StatusBadRequest, "invalid form")
}
