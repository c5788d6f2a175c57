package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	AndroidCommand  = "am"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// AndroidDownloadsDir is the shared Downloads folder on Android devices.
const AndroidDownloadsDir = "/sdcard/Download"

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// IsAndroid reports whether the process runs on Android, including Linux
// builds started from an Android shell.
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != ""
}

// DefaultDownloadsDir returns the user's Downloads directory.
func DefaultDownloadsDir() string {
	if IsAndroid() {
		return AndroidDownloadsDir
	}
	if dir := xdg.UserDirs.Download; dir != "" {
		return dir
	}
	return filepath.Join(xdg.Home, "Downloads")
}

// EnsureDir creates dirPath and its parents if it doesn't exist
func EnsureDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path is empty")
	}
	if err := os.MkdirAll(dirPath, DefaultDirPermissions); err != nil {
		return fmt.Errorf("create directory %s: %w", dirPath, err)
	}
	return nil
}

// OpenFolder opens a directory in the system file manager
func OpenFolder(dirPath string) error {
	info, err := os.Stat(dirPath)
	if err != nil {
		return fmt.Errorf("folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a folder: %s", dirPath)
	}
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch {
	case IsAndroid():
		return exec.Command(AndroidCommand, "start", "-a", "android.intent.action.VIEW", "-d", "file://"+absPath).Run()
	case runtime.GOOS == OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case runtime.GOOS == OSWindows:
		return exec.Command(ExplorerCommand, absPath).Run()
	case runtime.GOOS == OSLinux:
		return openDirLinux(absPath)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// RevealFile opens the file manager with the file selected where the OS
// supports it, otherwise opens the containing folder
func RevealFile(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch {
	case IsAndroid():
		return OpenFolder(filepath.Dir(absPath))
	case runtime.GOOS == OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case runtime.GOOS == OSWindows:
		// explorer exits 1 even on success
		_ = exec.Command(ExplorerCommand, WindowsSelectParam+absPath).Run()
		return nil
	case runtime.GOOS == OSLinux:
		// File selection is not standardized on Linux
		return openDirLinux(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// openDirLinux tries xdg-open first, then known file managers
func openDirLinux(dir string) error {
	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}
	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}
	return fmt.Errorf("no suitable file manager found")
}

// NotifyMediaScanner asks Android to index a new media file so it shows up
// in the Gallery. It is a no-op elsewhere.
func NotifyMediaScanner(filePath string) {
	if !IsAndroid() {
		return
	}
	cmd := exec.Command(AndroidCommand, "broadcast", "-a", "android.intent.action.MEDIA_SCANNER_SCAN_FILE", "-d", "file://"+filePath)
	go func() { _ = cmd.Run() }()
}
