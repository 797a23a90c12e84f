package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "fiscal-forum/internal/common/errors"
)

const multipartMemory = 1 << 20

// readValues flattens a JSON, multipart or urlencoded body into the
// field -> string bag the forms work with. Arrays become JSON strings.
func readValues(c *gin.Context) (map[string]string, error) {
	switch c.ContentType() {
	case gin.MIMEJSON, "":
		return readJSONValues(c.Request.Body)
	case gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return nil, apperrors.NewInvalidPayloadError(err.Error())
		}
		return flattenForm(c.Request.MultipartForm.Value), nil
	case gin.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, apperrors.NewInvalidPayloadError(err.Error())
		}
		return flattenForm(c.Request.PostForm), nil
	default:
		return nil, apperrors.NewInvalidPayloadError("unsupported content type " + c.ContentType())
	}
}

func readJSONValues(body io.Reader) (map[string]string, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, apperrors.NewInvalidPayloadError(err.Error())
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]string{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, apperrors.NewInvalidPayloadError("body must be a JSON object")
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case bool, json.Number:
			out[k] = fmt.Sprint(val)
		default:
			encoded, err := json.Marshal(val)
			if err != nil {
				return nil, apperrors.NewInvalidPayloadError(err.Error())
			}
			out[k] = string(encoded)
		}
	}
	return out, nil
}

func flattenForm(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, vs := range values {
		k = strings.TrimSuffix(k, "[]")
		switch len(vs) {
		case 0:
			out[k] = ""
		case 1:
			out[k] = vs[0]
		default:
			encoded, _ := json.Marshal(vs)
			out[k] = string(encoded)
		}
	}
	return out
}
