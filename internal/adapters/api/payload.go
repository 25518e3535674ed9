package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

// File is an upload carried by a Payload
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Payload is the body of a mutating call. Values may be strings, numbers, bools,
// string slices, File, []File or nil (skipped).
type Payload map[string]any

// HasFiles reports whether any value of p is a file
func (p Payload) HasFiles() bool {
	for _, v := range p {
		switch f := v.(type) {
		case File, *File:
			return true
		case []File:
			if len(f) > 0 {
				return true
			}
		}
	}
	return false
}

// MarshalJSON drops nil values so optional fields are not sent as null
func (p Payload) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// encoded is a request body with its content type
type encoded struct {
	body        io.Reader
	contentType string
	method      string
}

// encode makes the one encoding decision for a request: any file turns the body into
// multipart/form-data and PUT/PATCH into POST with a _method field, everything else is JSON.
func encode(method string, body any) (*encoded, error) {
	if body == nil {
		return &encoded{method: method}, nil
	}

	p, ok := body.(Payload)
	if ok && p.HasFiles() {
		return encodeMultipart(method, p)
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode json body: %w", err)
	}
	return &encoded{body: bytes.NewReader(buf), contentType: "application/json", method: method}, nil
}

func encodeMultipart(method string, p Payload) (*encoded, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if method == http.MethodPut || method == http.MethodPatch {
		if err := w.WriteField("_method", method); err != nil {
			return nil, err
		}
		method = http.MethodPost
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writePart(w, k, p[k]); err != nil {
			return nil, fmt.Errorf("encode field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &encoded{body: &buf, contentType: w.FormDataContentType(), method: method}, nil
}

func writePart(w *multipart.Writer, key string, v any) error {
	switch val := v.(type) {
	case nil:
		return nil
	case File:
		return writeFile(w, key, val)
	case *File:
		if val == nil {
			return nil
		}
		return writeFile(w, key, *val)
	case []File:
		for _, f := range val {
			if err := writeFile(w, arrayKey(key), f); err != nil {
				return err
			}
		}
		return nil
	case []string:
		for _, s := range val {
			if err := w.WriteField(arrayKey(key), s); err != nil {
				return err
			}
		}
		return nil
	case bool:
		// form posts carry booleans as 1/0
		if val {
			return w.WriteField(key, "1")
		}
		return w.WriteField(key, "0")
	default:
		return w.WriteField(key, scalar(val))
	}
}

func writeFile(w *multipart.Writer, key string, f File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(key), escapeQuotes(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(f.Data)
	return err
}

func arrayKey(key string) string {
	if strings.HasSuffix(key, "[]") {
		return key
	}
	return key + "[]"
}

func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	}
	return fmt.Sprint(v)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
