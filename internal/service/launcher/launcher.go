package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	domain "github.com/wyomingwade/slapaman/internal/domain/instance"
	"github.com/wyomingwade/slapaman/internal/logger"
)

// EULAFilename is accepted by the server on startup.
const EULAFilename = "eula.txt"

const eulaContents = "# By changing the setting below to TRUE you are indicating your agreement to the EULA\n" +
	"# (https://aka.ms/MinecraftEULA).\n" +
	"eula=true\n"

var errMissingArtifact = errors.New("server artifact missing")

// Options control a server run.
type Options struct {
	// Dir is the instance directory containing server.jar.
	Dir string
	// MemoryMiB is used for both -Xms and -Xmx. Zero is DefaultMemoryMiB.
	MemoryMiB int
	// Quiet discards the server output.
	Quiet bool
	// Java is the runtime path. Empty locates one.
	Java string
	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// WriteEULA writes an accepted eula.txt into dir.
func WriteEULA(dir string) error {
	path := filepath.Join(dir, EULAFilename)

	if err := os.WriteFile(path, []byte(eulaContents), 0o644); err != nil { //nolint:gosec // read by the server.
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// Run starts the server in opts.Dir and waits for it to exit.
func Run(ctx context.Context, opts Options) error {
	ctx = logger.WithName(ctx, "run")

	jar := filepath.Join(opts.Dir, domain.ArtifactFilename)
	if info, err := os.Stat(jar); err != nil || info.IsDir() {
		return fmt.Errorf("%s: %w", jar, errMissingArtifact)
	}

	memory := opts.MemoryMiB
	if memory <= 0 {
		memory = DefaultMemoryMiB
	}

	java := opts.Java
	if java == "" {
		located, err := LocateJava(ctx, MinJavaMajor)
		if err != nil {
			return err
		}

		java = located.Path
	}

	warnLowMemory(ctx, memory)
	warnRunningJVMs(ctx)

	heap := strconv.Itoa(memory) + "M"
	args := []string{"-Xmx" + heap, "-Xms" + heap, "-jar", domain.ArtifactFilename, "nogui"}

	cmd := exec.CommandContext(ctx, java, args...)
	cmd.Dir = opts.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = streams(opts)

	logger.InfoKV(ctx, "Starting server", "dir", opts.Dir, "java", java, "args", strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	logger.Info(ctx, "Server stopped")

	return nil
}

func streams(opts Options) (io.Reader, io.Writer, io.Writer) {
	if opts.Quiet {
		return nil, io.Discard, io.Discard
	}

	stdin, stdout, stderr := opts.Stdin, opts.Stdout, opts.Stderr

	if stdin == nil {
		stdin = os.Stdin
	}

	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return stdin, stdout, stderr
}

// RunningJVMs returns the pids of java processes other than this one.
func RunningJVMs() ([]int, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, err
	}

	return javaPIDs(processes, os.Getpid()), nil
}

func javaPIDs(processes []ps.Process, self int) []int {
	var pids []int

	for _, process := range processes {
		if process.Pid() == self {
			continue
		}

		switch strings.ToLower(process.Executable()) {
		case "java", "java.exe", "javaw.exe":
			pids = append(pids, process.Pid())
		}
	}

	return pids
}

func warnRunningJVMs(ctx context.Context) {
	pids, err := RunningJVMs()
	if err != nil {
		logger.DebugKV(ctx, "Unable to list processes", "error", err)
		return
	}

	if len(pids) > 0 {
		logger.WarnKV(ctx, "Other Java processes are running, a server may already be up", "pids", pids)
	}
}
