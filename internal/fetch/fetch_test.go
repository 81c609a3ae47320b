package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jobs": [{"title": "BDR"}]}`))
	}))
	defer server.Close()

	var out struct {
		Jobs []struct {
			Title string `json:"title"`
		} `json:"jobs"`
	}
	err := GetJSON(context.Background(), server.URL, &out, nil)
	require.NoError(t, err)
	require.Len(t, out.Jobs, 1)
	assert.Equal(t, "BDR", out.Jobs[0].Title)
}

func TestGetJSONNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var out map[string]any
	err := GetJSON(context.Background(), server.URL, &out, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "404")
}

func TestGetJSONInvalidURL(t *testing.T) {
	var out map[string]any
	err := GetJSON(context.Background(), "not-a-url", &out, nil)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"total": 2}`))
	}))
	defer server.Close()

	payload := map[string]any{"limit": 20, "offset": 0}
	var out struct {
		Total int `json:"total"`
	}
	err := PostJSON(context.Background(), server.URL, payload, &out, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Total)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"Simple tags", "<p>Sales role</p>", "Sales role"},
		{"Nested tags", "<div><b>2+ years</b> of <i>experience</i></div>", "2+ years of experience"},
		{"Entities", "<p>Sales &amp; Marketing</p>", "Sales & Marketing"},
		{"Script removed", "<p>Role</p><script>alert(1)</script>", "Role"},
		{"Whitespace collapsed", "<p>a</p>\n\n  <p>b</p>", "a b"},
		{"Empty input", "", ""},
		{"Plain text passthrough", "no markup here", "no markup here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripHTML(tt.html))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))
	assert.Equal(t, "", Truncate("", 5))
}

func TestTruncateRuneBoundary(t *testing.T) {
	// "café" is 5 bytes; cutting at 4 would split the é.
	assert.Equal(t, "caf", Truncate("café", 4))
	assert.Equal(t, "café", Truncate("café", 5))

	got := Truncate("Dublin – hybrid rôle", 9)
	assert.True(t, utf8.ValidString(got))
}
