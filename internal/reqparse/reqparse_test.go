package reqparse

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFile_BurpHTTP2(t *testing.T) {
	content := "GET /api/profile?_rsc=gyais HTTP/2\r\n" +
		"Host: www.example.com\r\n" +
		"Cookie: session=abc123; token=xyz\r\n" +
		"User-Agent: Mozilla/5.0\r\n" +
		"Origin: https://www.example.com\r\n" +
		"Accept: */*\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.Method != "GET" {
		t.Errorf("method = %q, want GET", req.Method)
	}
	if req.URL != "https://www.example.com/api/profile?_rsc=gyais" {
		t.Errorf("url = %q, want https://www.example.com/api/profile?_rsc=gyais", req.URL)
	}
	if req.Cookie != "session=abc123; token=xyz" {
		t.Errorf("cookie = %q, want 'session=abc123; token=xyz'", req.Cookie)
	}
	want := "User-Agent: Mozilla/5.0\nAccept: */*"
	if got := req.HeaderBlock(); got != want {
		t.Errorf("headers = %q, want %q", got, want)
	}
}

func TestParseFile_POST(t *testing.T) {
	content := "post /graphql HTTP/1.1\r\n" +
		"Host: target.com\r\n" +
		"Authorization: Bearer mytoken\r\n" +
		"Content-Length: 42\r\n" +
		"\r\n" +
		`{"query":"{ me { id } }"}`

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.Method != "POST" {
		t.Errorf("method = %q, want POST", req.Method)
	}
	if req.URL != "https://target.com/graphql" {
		t.Errorf("url = %q, want https://target.com/graphql", req.URL)
	}
	if got := req.HeaderBlock(); got != "Authorization: Bearer mytoken" {
		t.Errorf("headers = %q, want only Authorization", got)
	}
}

func TestParseFile_HTTP11_Port80(t *testing.T) {
	content := "GET / HTTP/1.1\r\n" +
		"Host: target.com:80\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.URL != "http://target.com:80/" {
		t.Errorf("url = %q, want http://target.com:80/", req.URL)
	}
}

func TestParseFile_AbsoluteForm(t *testing.T) {
	content := "GET http://internal.example/api HTTP/1.1\r\n" +
		"Host: ignored.example\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	req, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if req.URL != "http://internal.example/api" {
		t.Errorf("url = %q, want http://internal.example/api", req.URL)
	}
}

func TestParseFile_MissingHost(t *testing.T) {
	content := "GET / HTTP/1.1\r\n" +
		"Accept: */*\r\n" +
		"\r\n"

	path := writeTempFile(t, content)
	_, err := ParseFile(path)
	if err == nil {
		t.Error("expected error for missing Host header")
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	path := writeTempFile(t, "")
	_, err := ParseFile(path)
	if err == nil {
		t.Error("expected error for empty file")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "request.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
