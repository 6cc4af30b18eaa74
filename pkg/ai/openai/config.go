package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type Config struct {
	Servers   []string
	Keys      []string
	AutoProxy bool
	Header    http.Header
}

type extraFieldsContextKey struct{}

// WithExtraFields 将需要合并到请求体中的额外字段写入 context
func WithExtraFields(ctx context.Context, fields map[string]any) context.Context {
	if len(fields) == 0 {
		return ctx
	}

	return context.WithValue(ctx, extraFieldsContextKey{}, fields)
}

func ExtraFieldsFromContext(ctx context.Context) map[string]any {
	fields, _ := ctx.Value(extraFieldsContextKey{}).(map[string]any)
	return fields
}

// CustomRequestTransport 为请求添加自定义 Header，并将 context 中的额外字段合并到 JSON 请求体，
// 请求体中已经存在的字段不会被覆盖
type CustomRequestTransport struct {
	Origin http.RoundTripper
	Header http.Header
}

func NewCustomRequestTransport(origin http.RoundTripper, header http.Header) *CustomRequestTransport {
	return &CustomRequestTransport{Origin: origin, Header: header}
}

func (t *CustomRequestTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	origin := t.Origin
	if origin == nil {
		origin = http.DefaultTransport
	}

	fields := ExtraFieldsFromContext(req.Context())
	if len(t.Header) == 0 && len(fields) == 0 {
		return origin.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	for k, v := range t.Header {
		if len(v) > 0 {
			req.Header.Set(k, v[0])
		}
	}

	if len(fields) > 0 && req.Method == http.MethodPost && req.Body != nil {
		body, err := mergeFields(req.Body, fields)
		if err != nil {
			return nil, err
		}

		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return origin.RoundTrip(req)
}

func mergeFields(body io.ReadCloser, fields map[string]any) ([]byte, error) {
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	payload := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	for k, v := range fields {
		if _, ok := payload[k]; ok {
			continue
		}

		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		payload[k] = encoded
	}

	return json.Marshal(payload)
}
