package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMethod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "GET"},
		{"get", "GET"},
		{"GET", "GET"},
		{"post", "POST"},
		{"Post", "POST"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			o := Default()
			o.Method = tt.in
			require.NoError(t, o.Validate())
			assert.Equal(t, tt.want, o.Method)
		})
	}
}

func TestValidateRejects(t *testing.T) {
	for _, m := range []string{"PUT", "OPTIONS", "DELETE", "G ET"} {
		o := Default()
		o.Method = m
		assert.ErrorIs(t, o.Validate(), ErrInvalidMethod, m)
	}

	o := Default()
	o.OutputFormat = "xml"
	assert.Error(t, o.Validate())

	o = Default()
	o.IncludeStatus = []int{200}
	o.ExcludeStatus = []int{404}
	assert.Error(t, o.Validate())

	o = Default()
	o.Delay = -time.Second
	assert.Error(t, o.Validate())
}

func TestDefaults(t *testing.T) {
	o := Default()
	assert.Equal(t, "http://example-thirdparty.com", o.ThirdParty)
	assert.Equal(t, "http://example-invalid-origin.com", o.InvalidOrigin)
	assert.Equal(t, "GET", o.Method)
	assert.True(t, o.FollowRedirects)
	assert.Equal(t, DefaultTimeout, o.Timeout)
}

func TestLoadFileAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corsprobe.yaml")
	content := `
url: https://file.example/api
method: post
cookie: session=fromfile
delay: 250ms
thirdparty: https://partner.example
follow_redirects: false
exclude_status: [404, 500]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	file, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, file.Delay)
	assert.Equal(t, "http://example-invalid-origin.com", file.InvalidOrigin)

	o := Default()
	o.Cookie = "session=fromflag"
	changed := map[string]bool{"cookie": true}
	o.Merge(file, func(name string) bool { return changed[name] })

	assert.Equal(t, "https://file.example/api", o.URL)
	assert.Equal(t, "post", o.Method)
	assert.Equal(t, "session=fromflag", o.Cookie)
	assert.Equal(t, 250*time.Millisecond, o.Delay)
	assert.Equal(t, "https://partner.example", o.ThirdParty)
	assert.False(t, o.FollowRedirects)
	assert.Equal(t, []int{404, 500}, o.ExcludeStatus)
}

func TestLoadFileDelayUnits(t *testing.T) {
	tests := []struct {
		yaml string
		want time.Duration
	}{
		{"delay: 500", 500 * time.Millisecond},
		{"delay: 1.5s", 1500 * time.Millisecond},
		{"delay: 250ms", 250 * time.Millisecond},
		{"url: https://example.com", 0},
	}
	for _, tt := range tests {
		t.Run(tt.yaml, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corsprobe.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))

			o, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, o.Delay)
		})
	}

	path := filepath.Join(t.TempDir(), "corsprobe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delay: soon"), 0644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: [unterminated"), 0644))
	_, err = LoadFile(path)
	assert.Error(t, err)
}
