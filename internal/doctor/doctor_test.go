package doctor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sendit-th/sendit-app/internal/platform"
	"github.com/sendit-th/sendit-app/internal/platform/platformtest"
	"github.com/spf13/afero"
)

func versions(v map[string]string) func(platform.Command) (*platform.Output, error) {
	return func(cmd platform.Command) (*platform.Output, error) {
		out, ok := v[cmd.Name]
		if !ok {
			return platformtest.Exit(cmd, 1)
		}
		return &platform.Output{Stdout: out}, nil
	}
}

func TestCheck(t *testing.T) {
	r := &platformtest.FakeRunner{
		Missing: map[string]bool{"yarn": true},
		Respond: versions(map[string]string{
			"node": "v18.17.1\n",
			"npm":  "4.2.0\n",
			"git":  "git version 2.39.2\n",
		}),
	}

	results := Check(context.Background(), r, Requirements)
	got := map[string]Status{}
	for _, res := range results {
		got[res.Name] = res.Status
	}
	want := map[string]Status{
		"node": StatusOK,
		"npm":  StatusOutdated,
		"yarn": StatusMissing,
		"git":  StatusOK,
	}
	for name, status := range want {
		if got[name] != status {
			t.Errorf("%s: status %q, want %q", name, got[name], status)
		}
	}

	if results[0].Version.String() != "18.17.1" || results[0].Path != "/usr/bin/node" {
		t.Errorf("node result = %+v", results[0])
	}
}

func TestCheck_UnparsableVersion(t *testing.T) {
	r := &platformtest.FakeRunner{Respond: versions(map[string]string{"node": "unknown\n"})}

	res := Check(context.Background(), r, []Requirement{{Name: "node", Minimum: "8.10.0"}})
	if res[0].Status != StatusFailed || res[0].Err == nil {
		t.Errorf("result = %+v", res[0])
	}
}

func TestPrint(t *testing.T) {
	results := []Result{
		{Requirement: Requirement{Name: "node", Minimum: "8.10.0"}, Status: StatusOK, Path: "/usr/bin/node"},
		{Requirement: Requirement{Name: "yarn", Optional: true, Purpose: "installs the extra packages"}, Status: StatusMissing},
	}
	var buf bytes.Buffer
	if err := Print(&buf, results); err != nil {
		t.Fatalf("optional tools must not fail the check: %v", err)
	}
	if !strings.Contains(buf.String(), "[MISS] yarn not found (installs the extra packages)") {
		t.Errorf("output = %q", buf.String())
	}

	results = append(results, Result{Requirement: Requirement{Name: "npm", Minimum: "5.0.0"}, Status: StatusMissing})
	err := Print(&buf, results)
	if err == nil || !strings.Contains(err.Error(), "npm") {
		t.Errorf("expected error naming npm, got %v", err)
	}
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		version, minimum string
		want             bool
	}{
		{"18.0.0", "8.10.0", true},
		{"v8.10.0", "8.10.0", true},
		{"8.9.4", "8.10.0", false},
		{"1.22.19", "v1.0.0", true},
	}
	for _, tt := range tests {
		got, err := AtLeast(tt.version, tt.minimum)
		if err != nil {
			t.Errorf("AtLeast(%q, %q) error: %v", tt.version, tt.minimum, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AtLeast(%q, %q) = %v, want %v", tt.version, tt.minimum, got, tt.want)
		}
	}
	if _, err := AtLeast("latest", "1.0.0"); err == nil {
		t.Error("expected error for non-semver version")
	}
}

func TestCheckPackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/app/package.json", []byte(`{"name":"my-app","private":true}`), 0644)
	afero.WriteFile(fs, "/bad/package.json", []byte(`{"name":"My App","private":"yes"}`), 0644)

	var buf bytes.Buffer
	if err := CheckPackage(&buf, fs, "/app/package.json"); err != nil {
		t.Errorf("CheckPackage(valid) error: %v", err)
	}
	if !strings.Contains(buf.String(), "[ OK ] Valid package.json: my-app") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := CheckPackage(&buf, fs, "/bad/package.json"); err == nil {
		t.Error("expected validation error")
	}
	if !strings.Contains(buf.String(), "[FAIL]") {
		t.Errorf("output = %q", buf.String())
	}
}
