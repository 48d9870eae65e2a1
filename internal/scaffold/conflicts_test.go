package scaffold

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func TestCheckDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, p := range []string{"/ok/.git/HEAD", "/ok/README.md", "/ok/package.json", "/ok/app.iml", "/ok/.idea/workspace.xml"} {
		afero.WriteFile(fs, p, nil, 0644)
	}
	if err := CheckDirectory(fs, "/ok"); err != nil {
		t.Errorf("CheckDirectory(/ok) = %v, want nil", err)
	}

	if err := CheckDirectory(fs, "/missing"); err != nil {
		t.Errorf("CheckDirectory(/missing) = %v, want nil", err)
	}

	for _, p := range []string{"/busy/README.md", "/busy/src/index.js", "/busy/index.html"} {
		afero.WriteFile(fs, p, nil, 0644)
	}
	err := CheckDirectory(fs, "/busy")
	var ce *ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConflictError, got %v", err)
	}
	if want := []string{"index.html", "src/"}; !reflect.DeepEqual(ce.Files, want) {
		t.Errorf("Files = %v, want %v", ce.Files, want)
	}
}
