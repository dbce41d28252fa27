// Package platform provides the small set of host introspection helpers the
// toolkit needs: a writable per-user application data directory and a
// platform tag used to select prebuilt resources.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Tag returns the platform identifier in the form {linux,win,osx}{32,64},
// or an empty string on unrecognized systems.
func Tag() string {
	var plat string
	switch runtime.GOOS {
	case "linux":
		plat = "linux"
	case "windows":
		plat = "win"
	case "darwin":
		plat = "osx"
	default:
		return ""
	}
	return fmt.Sprintf("%s%d", plat, strconv.IntSize)
}

// AppDataDir returns the directory where the application may write
// user-specific files. With appname the per-app subdirectory is appended and
// created on demand. On Windows roaming selects the roaming profile
// directory when available.
//
// A "settings" directory next to the executable takes precedence when it is
// writable, so portable installs keep their data beside the binary.
func AppDataDir(appname string, roaming bool) (string, error) {
	userDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	path := systemDataDir(userDir, roaming)
	if path == "" || !isDir(path) {
		path = userDir
	}

	if portable := portableSettingsDir(); portable != "" {
		path = portable
	}

	if appname != "" {
		if path == userDir {
			appname = "." + strings.TrimLeft(appname, ".")
		}
		path = filepath.Join(path, appname)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return "", fmt.Errorf("create app data directory: %w", err)
		}
	}

	return path, nil
}

func systemDataDir(userDir string, roaming bool) string {
	switch runtime.GOOS {
	case "windows":
		local, roam := os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA")
		if roaming {
			return firstNonEmpty(roam, local)
		}
		return firstNonEmpty(local, roam)
	case "darwin":
		return filepath.Join(userDir, "Library", "Application Support")
	default:
		return ""
	}
}

// portableSettingsDir looks for a writable "settings" directory next to the
// running executable (one level up is also accepted).
func portableSettingsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	base := filepath.Dir(exe)
	for _, rel := range []string{"settings", filepath.Join("..", "settings")} {
		candidate := filepath.Join(base, rel)
		if isDir(candidate) && isWritable(candidate) {
			return candidate
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isWritable(dir string) bool {
	probe := filepath.Join(dir, ".write-test")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
