package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/brettbedarf/stshell"
	"github.com/brettbedarf/stshell/internal/idetest"
)

var (
	stshellBin string
	projRoot   string
	testEnv    *E2ETestEnvironment
)

func TestMain(m *testing.M) {
	var err error

	// Build the binary once for all tests
	tmpBinDir, err := os.MkdirTemp("", "stshell-bin")
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := os.RemoveAll(tmpBinDir); err != nil {
			panic(err)
		}
	}()

	stshellBin = filepath.Join(tmpBinDir, "stshell")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot = filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", stshellBin, "./cmd/stshell")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	testEnv, err = NewE2ETestEnvironment(stshellBin)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testEnv.Close()
	os.Exit(code)
}

func TestE2EDownloadBundle(t *testing.T) {
	app := testEnv.AddApp(NewTestApp(stshell.KindSmartApp, "acme", "Lights").
		WithItem("Scripts", "s1", "main.groovy", "SCRIPT", "definition()").
		WithItem("Images", "i1", "icon.png", "IMAGE", "\x89PNG").
		WithItem("", "c1", "style.css", "CSS", "body {}").
		Build())

	dest := filepath.Join(t.TempDir(), "bundle")
	out, err := testEnv.Run("download", "sa", app.ID, dest)
	if err != nil {
		t.Fatalf("download failed: %v\n%s", err, out)
	}

	expected := map[string]string{
		filepath.Join("Scripts", "main.groovy"): "definition()",
		filepath.Join("Images", "icon.png"):     "\x89PNG",
		"style.css":                             "body {}",
	}
	for rel, want := range expected {
		data, err := os.ReadFile(filepath.Join(dest, rel))
		if err != nil {
			t.Errorf("Failed to read %s: %v", rel, err)
			continue
		}
		if string(data) != want {
			t.Errorf("Content mismatch for %s: expected %q, got %q", rel, want, string(data))
		}
	}
	if !strings.Contains(out, "3 downloaded, 0 failed") {
		t.Errorf("Unexpected summary:\n%s", out)
	}
}

func TestE2EPartialFailure(t *testing.T) {
	app := testEnv.AddApp(NewTestApp(stshell.KindDeviceType, "acme", "Switch").
		WithItem("", "d1", "switch.groovy", "SCRIPT", "metadata {}").
		WithItem("", "d2", "broken.js", "JAVASCRIPT", "").
		WithItem("", "d3", "view.html", "VIEW", "<html/>").
		Build())
	testEnv.Server.FailItem("d2", 500)

	out, err := testEnv.Run("download", "dth", app.ID, t.TempDir())
	if err != nil {
		t.Fatalf("Expected a partial download to exit zero: %v\n%s", err, out)
	}

	dest := t.TempDir()
	out, err = testEnv.Run("download", "dth", app.ID, dest, "--strict")
	if err == nil {
		t.Fatalf("Expected a non-zero exit for a partial download with --strict\n%s", out)
	}

	for _, name := range []string{"switch.groovy", "view.html"} {
		if _, err := os.Stat(filepath.Join(dest, name)); err != nil {
			t.Errorf("Expected %s to be written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "broken.js")); !os.IsNotExist(err) {
		t.Errorf("Expected broken.js to be absent, got %v", err)
	}
	if !strings.Contains(out, "Downloading d2: Failed") {
		t.Errorf("Expected the failed item to be reported:\n%s", out)
	}
}

func TestE2EListAndTree(t *testing.T) {
	app := testEnv.AddApp(NewTestApp(stshell.KindSmartApp, "e2e", "Tree & Co").
		WithItem("Scripts", "t1", "main.groovy", "SCRIPT", "x").
		Build())

	out, err := testEnv.Run("list", "sa")
	if err != nil {
		t.Fatalf("list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, app.ID) || !strings.Contains(out, "Tree & Co") {
		t.Errorf("Expected %s in list output:\n%s", app.ID, out)
	}

	out, err = testEnv.Run("tree", "sa", app.ID)
	if err != nil {
		t.Fatalf("tree failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "main.groovy [SCRIPT] t1") {
		t.Errorf("Unexpected tree:\n%s", out)
	}
}

func TestE2EBadCredentials(t *testing.T) {
	cmd := exec.Command(testEnv.Bin, "--url", testEnv.Server.URL, "-u", "nobody", "-p", "nope", "list", "sa")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("Expected login failure\n%s", out)
	}
	if !strings.Contains(string(out), "login failed") {
		t.Errorf("Expected a login error, got:\n%s", out)
	}
}

// E2ETestEnvironment runs the binary against a shared fake IDE
type E2ETestEnvironment struct {
	Server *idetest.Server
	Bin    string
}

// TestAppSpec describes an application and its resources
type TestAppSpec struct {
	app     stshell.App
	folders []string
	leaves  map[string][]string // folder -> leaf JSON
	items   map[string][]byte
}

// TestAppBuilder provides a fluent API for building TestAppSpec
type TestAppBuilder struct {
	spec *TestAppSpec
}

func NewTestApp(kind stshell.Kind, namespace, name string) *TestAppBuilder {
	return &TestAppBuilder{
		spec: &TestAppSpec{
			app:    stshell.App{Kind: kind, Namespace: namespace, Name: name},
			leaves: make(map[string][]string),
			items:  make(map[string][]byte),
		},
	}
}

// WithItem adds a resource in folder ("" for the top level)
func (b *TestAppBuilder) WithItem(folder, id, name, resourceType, content string) *TestAppBuilder {
	if _, ok := b.spec.leaves[folder]; !ok {
		b.spec.folders = append(b.spec.folders, folder)
	}
	b.spec.leaves[folder] = append(b.spec.leaves[folder], fmt.Sprintf(
		`{"id": %q, "text": %q, "li_attr": {"resource-type": %q}}`, id, name, resourceType))
	b.spec.items[id] = []byte(content)
	return b
}

func (b *TestAppBuilder) Build() *TestAppSpec {
	return b.spec
}

// tree renders the resource list JSON served by the IDE
func (s *TestAppSpec) tree() string {
	var nodes []string
	for _, folder := range s.folders {
		leaves := s.leaves[folder]
		if folder == "" {
			nodes = append(nodes, leaves...)
			continue
		}
		nodes = append(nodes, fmt.Sprintf(`{"text": %q, "children": [%s]}`, folder, strings.Join(leaves, ",")))
	}
	return "[" + strings.Join(nodes, ",") + "]"
}

func NewE2ETestEnvironment(bin string) (*E2ETestEnvironment, error) {
	if _, err := os.Stat(bin); err != nil {
		return nil, err
	}
	return &E2ETestEnvironment{
		Server: idetest.NewServer(),
		Bin:    bin,
	}, nil
}

func (env *E2ETestEnvironment) Close() {
	env.Server.Close()
}

func (env *E2ETestEnvironment) AddApp(spec *TestAppSpec) *idetest.App {
	return env.Server.AddApp(&idetest.App{
		App:   spec.app,
		Tree:  spec.tree(),
		Items: spec.items,
	})
}

// Run executes the binary with credentials for the fake IDE and returns
// stdout and stderr combined
func (env *E2ETestEnvironment) Run(args ...string) (string, error) {
	full := append([]string{
		"--url", env.Server.URL,
		"-u", idetest.Username,
		"-v", "1",
	}, args...)
	cmd := exec.Command(env.Bin, full...)
	cmd.Env = append(os.Environ(), "STSHELL_PASSWORD="+idetest.Password)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}
