package rest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusTeapot, Envelope{"data": 1}))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":1}`, rec.Body.String())
}

func TestReadJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	var dst body
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"lobby"}`))
	require.NoError(t, ReadJSON(r, &dst))
	assert.Equal(t, "lobby", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.EqualError(t, ReadJSON(r, &dst), "body must not be empty")

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	assert.Error(t, ReadJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	assert.EqualError(t, ReadJSON(r, &dst), "body must only contain a single JSON value")
}
