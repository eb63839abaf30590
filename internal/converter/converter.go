// Package converter turns office documents into PDF by driving a headless
// LibreOffice process. Every conversion runs in its own pair of temporary
// directories with a private user profile, so concurrent requests never
// share LibreOffice state.
package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harshad-dhokane/new-docx/internal/formats"
)

var windowsInstalls = []string{
	`C:\Program Files\LibreOffice\program\soffice.exe`,
	`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
}

var darwinInstalls = []string{
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

const maxOutputCapture = 4096

// Converter is safe for concurrent use.
type Converter struct {
	cfg    *Config
	logger *slog.Logger
}

func New(cfg *Config, logger *slog.Logger) *Converter {
	return &Converter{
		cfg:    cfg,
		logger: logger.With("system", "converter"),
	}
}

// Timeout bounds a full conversion as seen by a caller: the process timeout
// plus the grace period for cleanup.
func (c *Converter) Timeout() time.Duration {
	return c.cfg.TimeoutDuration() + c.cfg.GraceDuration()
}

// Binary resolves the LibreOffice executable. A configured binary wins; it
// may be an absolute path or a command name looked up on PATH.
func (c *Converter) Binary() (string, error) {
	if c.cfg.Binary != "" {
		if path, err := exec.LookPath(c.cfg.Binary); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s not found", ErrUnavailable, c.cfg.Binary)
	}

	var installs []string
	switch runtime.GOOS {
	case "windows":
		installs = windowsInstalls
	case "darwin":
		installs = darwinInstalls
	}
	for _, path := range installs {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	for _, name := range []string{"libreoffice", "soffice"} {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrUnavailable
}

// Available runs a version probe. On Windows the probe opens a console
// window, so presence of the executable is enough there.
func (c *Converter) Available(ctx context.Context) bool {
	bin, err := c.Binary()
	if err != nil {
		c.logger.Debug("libreoffice not found", "error", err)
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeoutDuration())
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "--version")
	cmd.WaitDelay = c.cfg.GraceDuration()
	if err := cmd.Run(); err != nil {
		c.logger.Debug("libreoffice probe failed", "binary", bin, "error", err)
		return false
	}
	return true
}

// Convert writes data under filename into a fresh input directory, runs the
// conversion, and returns the produced PDF bytes. Both temporary directories
// are removed on every return path.
func (c *Converter) Convert(ctx context.Context, data []byte, filename string) ([]byte, error) {
	bin, err := c.Binary()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	inputDir := filepath.Join(c.cfg.TempDir, id)
	outputDir := filepath.Join(c.cfg.TempDir, id+"_output")

	c.step(id, "create_temp_dirs")
	defer c.cleanup(id, inputDir, outputDir)

	if err := os.MkdirAll(inputDir, 0755); err != nil {
		return nil, fmt.Errorf("create input dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	c.step(id, "write_input")
	name := formats.SanitizeFilename(filename)
	inputPath := filepath.Join(inputDir, name)
	if err := os.WriteFile(inputPath, data, 0644); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	c.step(id, "invoke_process")
	if err := c.run(ctx, bin, inputDir, inputPath, outputDir); err != nil {
		return nil, err
	}

	c.step(id, "locate_output")
	pdfName := formats.BaseName(name) + ".pdf"
	pdfPath := filepath.Join(outputDir, pdfName)
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, &ConversionError{Reason: pdfName + " not found in output directory"}
	}

	c.step(id, "read_output")
	out, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		return nil, &ConversionError{Reason: pdfName + " is not a PDF document"}
	}

	return out, nil
}

func (c *Converter) run(ctx context.Context, bin, inputDir, inputPath, outputDir string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TimeoutDuration())
	defer cancel()

	args := []string{
		"-env:UserInstallation=" + fileURL(filepath.Join(inputDir, ".profile")),
		"--headless",
		"--invisible",
		"--nodefault",
		"--nolockcheck",
		"--nologo",
		"--norestore",
		"--convert-to", "pdf",
		"--outdir", outputDir,
		inputPath,
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = c.cfg.GraceDuration()

	err := cmd.Run()

	c.logger.Debug(
		"libreoffice exited",
		"binary", bin,
		"exit_code", cmd.ProcessState.ExitCode(),
		"stdout", truncate(stdout.String()),
		"stderr", truncate(stderr.String()),
	)

	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ConversionError{
			Reason:   fmt.Sprintf("timed out after %s", c.cfg.TimeoutDuration()),
			ExitCode: -1,
			Stdout:   truncate(stdout.String()),
			Stderr:   truncate(stderr.String()),
		}
	}
	if ctx.Err() != nil {
		return fmt.Errorf("conversion cancelled: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ConversionError{
			Reason:   "LibreOffice conversion failed",
			ExitCode: exitErr.ExitCode(),
			Stdout:   truncate(stdout.String()),
			Stderr:   truncate(stderr.String()),
		}
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &ConversionError{Reason: err.Error(), ExitCode: -1}
}

func (c *Converter) step(id, step string) {
	c.logger.Debug("conversion step", "id", id, "step", step)
}

func (c *Converter) cleanup(id string, dirs ...string) {
	c.step(id, "cleanup")
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			c.logger.Warn("temp cleanup failed", "dir", dir, "error", err)
		}
	}
}

func defaultTempDir() string {
	return filepath.Join(os.TempDir(), "pdf-conversion")
}

// fileURL renders path as a file:// URL, the form LibreOffice expects for
// -env:UserInstallation on every platform.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxOutputCapture {
		return s[len(s)-maxOutputCapture:]
	}
	return s
}
