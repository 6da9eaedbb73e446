package gh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lfsPointer() string {
	return "version https://git-lfs.github.com/spec/v1\n" +
		"oid sha256:4d7a214614ab2935c943f9e0ff69d22eadbb8f32b1258daaa5e2ca24d17e2393\n" +
		"size 12345\n"
}

func responseWithBody(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Length": []string{strconv.Itoa(len(body))}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}

func TestIsLfsResponse(t *testing.T) {
	pointer := lfsPointer()
	require.True(t, len(pointer) >= 128 && len(pointer) <= 140, "pointer length %d", len(pointer))

	resp := responseWithBody(pointer)
	assert.True(t, isLfsResponse(resp))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pointer, string(body), "body must be readable again after peeking")
}

func TestIsLfsResponse_RegularContent(t *testing.T) {
	assert.False(t, isLfsResponse(responseWithBody("package main\n")))

	same := string(bytes.Repeat([]byte("x"), 134))
	resp := responseWithBody(same)
	assert.False(t, isLfsResponse(resp))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, same, string(body))
}

func TestLfsMediaURL(t *testing.T) {
	got, ok := lfsMediaURL("https://raw.githubusercontent.com/acme/widgets/main/assets/logo.png")
	require.True(t, ok)
	assert.Equal(t, "https://media.githubusercontent.com/media/acme/widgets/main/assets/logo.png", got)

	_, ok = lfsMediaURL("https://example.test/acme/widgets/main/logo.png")
	assert.False(t, ok)
}

func TestFetchRaw(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "A content")
	})
	srvURL := client.gh.BaseURL.String()

	content, err := client.FetchRaw(context.Background(), srvURL+"raw/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "A content", string(content))
}

func TestFetchRaw_Errors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})

	_, err := client.FetchRaw(context.Background(), client.gh.BaseURL.String()+"raw/a.txt")
	assert.ErrorIs(t, err, ErrNetworkFailure)

	_, err = client.FetchRaw(context.Background(), "")
	assert.ErrorIs(t, err, ErrNetworkFailure)
}

func TestFetchRaw_KeepsPointerFromOtherHosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, lfsPointer())
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Options{BaseURL: srv.URL})
	content, err := client.FetchRaw(context.Background(), srv.URL+"/raw/model.bin")
	require.NoError(t, err)
	assert.Equal(t, lfsPointer(), string(content))
}
