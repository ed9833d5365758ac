package platform

import (
	"context"
	"runtime"
	"testing"
)

// MockDetector is a test implementation of Detector.
type MockDetector struct {
	info *Info
	err  error
}

// NewMockDetector creates a mock detector with specified return values.
func NewMockDetector(info *Info, err error) Detector {
	return &MockDetector{info: info, err: err}
}

// Detect returns the pre-configured info and error.
func (m *MockDetector) Detect(ctx context.Context) (*Info, error) {
	return m.info, m.err
}

func TestRealDetector_Detect(t *testing.T) {
	detector := NewDetector()

	info, err := detector.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Arch = %v, want %v", info.Arch, runtime.GOARCH)
	}

	// Distro fields are best-effort, but Family must accompany Platform.
	if info.Platform != "" && info.Family == "" {
		t.Error("If Platform is set, Family should also be set")
	}

	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestRealDetector_DetectCancelled(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("distro detection only runs on linux")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// gopsutil may answer from files without consulting ctx; either outcome
	// is fine as long as a non-nil info comes back on success.
	info, err := NewDetector().Detect(ctx)
	if err == nil && info == nil {
		t.Fatal("Detect() returned nil info without error")
	}
}

func TestMockDetector(t *testing.T) {
	want := &Info{OS: "win32", Arch: "x64"}
	info, err := NewMockDetector(want, nil).Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info != want {
		t.Errorf("Detect() = %+v, want %+v", info, want)
	}

	target, err := Resolve(info.OS, info.Arch)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if target.Key() != "windows_amd64" {
		t.Errorf("Key() = %q, want windows_amd64", target.Key())
	}
}
