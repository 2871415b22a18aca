package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"homework_bot/internal/failure"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
	lastReq    *http.Request
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name       string
		transport  *mockTransport
		wantKeys   []string
		wantKind   failure.Kind
		wantStatus int
	}{
		{
			name: "successful fetch",
			transport: &mockTransport{
				body:       `{"homeworks":[{"homework_name":"hw1","status":"approved"}],"current_date":1000}`,
				statusCode: 200,
			},
			wantKeys: []string{"current_date", "homeworks"},
		},
		{
			name:      "empty object",
			transport: &mockTransport{body: `{}`, statusCode: 200},
			wantKeys:  []string{},
		},
		{
			name:       "http error status",
			transport:  &mockTransport{body: "not found", statusCode: 404},
			wantKind:   failure.KindTransport,
			wantStatus: 404,
		},
		{
			name:       "server error status",
			transport:  &mockTransport{body: `{"code":"oops"}`, statusCode: 503},
			wantKind:   failure.KindTransport,
			wantStatus: 503,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantKind:  failure.KindTransport,
		},
		{
			name:      "invalid json",
			transport: &mockTransport{body: "not json at all", statusCode: 200},
			wantKind:  failure.KindDecode,
		},
		{
			name:      "json array instead of object",
			transport: &mockTransport{body: `[1,2,3]`, statusCode: 200},
			wantKind:  failure.KindDecode,
		},
		{
			name:      "json null",
			transport: &mockTransport{body: `null`, statusCode: 200},
			wantKind:  failure.KindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.transport, "", "secret")
			raw, err := f.Fetch(context.Background(), 1000)

			if tt.wantKind != failure.KindUnknown {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if diff := cmp.Diff(tt.wantKind, failure.KindOf(err)); diff != "" {
					t.Errorf("kind mismatch (-want +got):\n%s", diff)
				}
				var fe *failure.Error
				if errors.As(err, &fe) {
					if diff := cmp.Diff(tt.wantStatus, fe.StatusCode); diff != "" {
						t.Errorf("status code mismatch (-want +got):\n%s", diff)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := []string{}
			for _, k := range []string{"current_date", "homeworks"} {
				if _, ok := raw[k]; ok {
					got = append(got, k)
				}
			}
			if diff := cmp.Diff(tt.wantKeys, got); diff != "" {
				t.Errorf("keys mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchRequest(t *testing.T) {
	transport := &mockTransport{body: `{}`, statusCode: 200}
	f := New(transport, "https://api.example.com/statuses/", "secret")

	if _, err := f.Fetch(context.Background(), 1700000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := transport.lastReq
	if diff := cmp.Diff(http.MethodGet, req.Method); diff != "" {
		t.Errorf("method mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("OAuth secret", req.Header.Get("Authorization")); diff != "" {
		t.Errorf("authorization mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("https://api.example.com/statuses/?from_date=1700000000", req.URL.String()); diff != "" {
		t.Errorf("url mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchZeroCursorUsesNow(t *testing.T) {
	transport := &mockTransport{body: `{}`, statusCode: 200}
	f := New(transport, "", "secret")
	f.now = func() time.Time { return time.Unix(4242, 0) }

	if _, err := f.Fetch(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("4242", transport.lastReq.URL.Query().Get("from_date")); diff != "" {
		t.Errorf("from_date mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("practicum.yandex.ru", transport.lastReq.URL.Host); diff != "" {
		t.Errorf("default endpoint host mismatch (-want +got):\n%s", diff)
	}
}
