package cmd

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/oauth2"
)

type staticTokenSource struct {
	tok *oauth2.Token
	err error
}

func (s staticTokenSource) Token() (*oauth2.Token, error) {
	return s.tok, s.err
}

func TestPrintAccessToken(t *testing.T) {
	var buf bytes.Buffer
	src := staticTokenSource{tok: &oauth2.Token{AccessToken: "at-1"}}

	if err := printAccessToken(&buf, src); err != nil {
		t.Fatalf("printAccessToken() error = %v", err)
	}
	if got := buf.String(); got != "at-1\n" {
		t.Errorf("output = %q, want %q", got, "at-1\n")
	}
}

func TestPrintAccessTokenError(t *testing.T) {
	var buf bytes.Buffer
	wantErr := errors.New("not signed in")

	err := printAccessToken(&buf, staticTokenSource{err: wantErr})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}
