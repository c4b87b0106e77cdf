package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/studygenius/internal/tuitest"
)

func TestStartsOnUploadScreenWithEnvKey(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	home := t.TempDir()

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-dir", home},
		Dir:     home,
		Env:     isolatedEnv(home, "API_KEY=test-key"),
		Width:   110,
		Height:  36,
		Steps: []tuitest.Step{
			{WaitFor: "Upload Study Material"},
			{Delay: 200 * time.Millisecond, Input: tuitest.KeyCtrlC},
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	if _, ok := rec.FirstFrameContaining("Setup Gemini API"); ok {
		t.Fatal("env key should skip the credential form")
	}
	if !strings.Contains(rec.PlainOutput(), "10MB") {
		t.Fatalf("upload screen should list accepted types:\n%s", rec.PlainOutput())
	}
}

func TestSavesEnteredKeyToConfigDir(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	home := t.TempDir()

	_, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-dir", home},
		Dir:     home,
		Env:     isolatedEnv(home),
		Width:   110,
		Height:  36,
		Steps: []tuitest.Step{
			{WaitFor: "Setup Gemini API"},
			{Input: tuitest.Type("typed-key")},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyEnter},
			{WaitFor: "Upload Study Material"},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyCtrlC},
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, "config", "credentials.json"))
	if err != nil {
		t.Fatalf("credentials not written: %v", err)
	}
	if !strings.Contains(string(data), "typed-key") {
		t.Fatalf("credentials file missing key: %s", data)
	}
}

func TestForgetKeyRemovesStoredCredentials(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the binary")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	home := t.TempDir()
	credentials := filepath.Join(home, "config", "credentials.json")
	if err := os.MkdirAll(filepath.Dir(credentials), 0o700); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(credentials, []byte(`{"gemini_api_key":"stale-key"}`), 0o600); err != nil {
		t.Fatalf("seed credentials: %v", err)
	}

	_, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "-no-alt-screen", "-forget-key", "-dir", home},
		Dir:     home,
		Env:     isolatedEnv(home),
		Width:   110,
		Height:  36,
		Steps: []tuitest.Step{
			{WaitFor: "Setup Gemini API"},
			{Delay: 100 * time.Millisecond, Input: tuitest.KeyCtrlC},
		},
		Timeout:        10 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	if _, err := os.Stat(credentials); !os.IsNotExist(err) {
		t.Fatalf("credentials should be removed, stat err = %v", err)
	}
}

// isolatedEnv keeps the binary away from the developer's real key and config.
func isolatedEnv(home string, extra ...string) []string {
	env := []string{
		"API_KEY=",
		"GEMINI_API_KEY=",
		"STUDYGENIUS_CONFIG_DIR=" + filepath.Join(home, "config"),
		"STUDYGENIUS_LOG_FILE=" + filepath.Join(home, "studygenius.log"),
		"STUDYGENIUS_INBOX=",
	}
	return append(env, extra...)
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "studygenius-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
