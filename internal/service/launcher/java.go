package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

var (
	errJavaNotFound       = errors.New("java runtime not found")
	errJavaTooOld         = errors.New("java runtime is too old")
	errUnparsableJavaInfo = errors.New("unable to parse java version")
)

// javaVersionPattern matches the quoted version in `java -version` output.
var javaVersionPattern = regexp.MustCompile(`version "([^"]+)"`)

const javaVersionTimeout = 10 * time.Second

// MinJavaMajor is the oldest runtime able to start a server jar.
const MinJavaMajor = 8

// Java is a located runtime.
type Java struct {
	Path    string
	Version string
	Major   int
}

// LocateJava finds java in JAVA_HOME, then in PATH, and checks that its major
// version is at least minMajor. Zero skips the check.
func LocateJava(ctx context.Context, minMajor int) (*Java, error) {
	path, err := findJava()
	if err != nil {
		return nil, err
	}

	return inspectJava(ctx, path, minMajor)
}

// inspectJava runs path -version and checks the reported major version.
func inspectJava(ctx context.Context, path string, minMajor int) (*Java, error) {
	ctx, cancel := context.WithTimeout(ctx, javaVersionTimeout)
	defer cancel()

	// java -version prints to stderr.
	var out bytes.Buffer

	cmd := exec.CommandContext(ctx, path, "-version")
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s -version: %w", path, err)
	}

	version, major, err := parseJavaVersion(out.String())
	if err != nil {
		return nil, err
	}

	if minMajor > 0 && major < minMajor {
		return nil, fmt.Errorf("%s is java %d, need %d: %w", path, major, minMajor, errJavaTooOld)
	}

	return &Java{Path: path, Version: version, Major: major}, nil
}

func findJava() (string, error) {
	name := "java"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if home := os.Getenv("JAVA_HOME"); home != "" {
		candidate := filepath.Join(home, "bin", name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: set JAVA_HOME or add java to PATH", errJavaNotFound)
	}

	return path, nil
}

// parseJavaVersion reads both "1.8.0_392" and "17.0.9" styles.
func parseJavaVersion(output string) (string, int, error) {
	match := javaVersionPattern.FindStringSubmatch(output)
	if match == nil {
		return "", 0, errUnparsableJavaInfo
	}

	version := match[1]

	parts := strings.FieldsFunc(version, func(r rune) bool { return r == '.' || r == '_' || r == '-' || r == '+' })
	if len(parts) == 0 {
		return "", 0, fmt.Errorf("%q: %w", version, errUnparsableJavaInfo)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", version, errUnparsableJavaInfo)
	}

	if major == 1 && len(parts) > 1 {
		if major, err = strconv.Atoi(parts[1]); err != nil {
			return "", 0, fmt.Errorf("%q: %w", version, errUnparsableJavaInfo)
		}
	}

	return version, major, nil
}
