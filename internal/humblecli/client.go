package humblecli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrTool marks failures of the external humble-cli binary. Callers classify
// with errors.Is.
var ErrTool = errors.New("humble-cli error")

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, workDir string) (stdout, stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithDownloadTimeout bounds a single download invocation. Zero disables the
// timeout; transfers of large bundles can legitimately run for a long time.
func WithDownloadTimeout(d time.Duration) Option {
	return func(c *Client) { c.downloadTimeout = d }
}

// Client wraps humble-cli invocations.
type Client struct {
	binary          string
	listTimeout     time.Duration
	downloadTimeout time.Duration
	exec            Executor
}

// New constructs a humble-cli client.
func New(binary string, listTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("humble-cli binary required")
	}
	client := &Client{
		binary:      binary,
		listTimeout: time.Duration(listTimeoutSeconds) * time.Second,
		exec:        commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Check verifies the binary is installed and executable.
func (c *Client) Check(ctx context.Context) error {
	runCtx, cancel := c.withTimeout(ctx, c.listTimeout)
	defer cancel()
	if _, _, err := c.exec.Run(runCtx, c.binary, []string{"--version"}, ""); err != nil {
		return fmt.Errorf("%w: %s is not installed or not in PATH", ErrTool, c.binary)
	}
	return nil
}

// ListBundles returns every purchased bundle as key/name pairs.
func (c *Client) ListBundles(ctx context.Context) ([]Bundle, error) {
	runCtx, cancel := c.withTimeout(ctx, c.listTimeout)
	defer cancel()

	stdout, stderr, err := c.exec.Run(runCtx, c.binary, []string{"list", "--field", "key", "--field", "name"}, "")
	if err != nil {
		return nil, wrapToolError("list bundles", stderr, err)
	}
	return parseBundleList(stdout), nil
}

// BundleDetails fetches and parses the detail view of one bundle. The key may
// be a prefix of the full bundle key; humble-cli resolves it.
func (c *Client) BundleDetails(ctx context.Context, bundleKey string) (*Details, error) {
	bundleKey = strings.TrimSpace(bundleKey)
	if bundleKey == "" {
		return nil, errors.New("bundle key required")
	}

	runCtx, cancel := c.withTimeout(ctx, c.listTimeout)
	defer cancel()

	stdout, stderr, err := c.exec.Run(runCtx, c.binary, []string{"details", bundleKey}, "")
	if err != nil {
		return nil, wrapToolError(fmt.Sprintf("details for %s", bundleKey), stderr, err)
	}
	details := ParseDetails(stdout)
	return &details, nil
}

// Download retrieves one format of one item into destDir. It returns true
// only when the tool exits successfully.
func (c *Client) Download(ctx context.Context, bundleKey string, itemNumber int, format, destDir string) (bool, error) {
	if strings.TrimSpace(destDir) == "" {
		return false, errors.New("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return false, fmt.Errorf("create destination: %w", err)
	}

	runCtx, cancel := c.withTimeout(ctx, c.downloadTimeout)
	defer cancel()

	args := []string{
		"download", bundleKey,
		"--format", strings.ToLower(format),
		"--item-numbers", strconv.Itoa(itemNumber),
	}
	if _, stderr, err := c.exec.Run(runCtx, c.binary, args, destDir); err != nil {
		return false, wrapToolError(fmt.Sprintf("download item %d (%s)", itemNumber, format), stderr, err)
	}
	return true, nil
}

func (c *Client) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func wrapToolError(operation, stderr string, err error) error {
	detail := strings.TrimSpace(stderr)
	if detail != "" {
		return fmt.Errorf("%w: %s: %s", ErrTool, operation, detail)
	}
	return fmt.Errorf("%w: %s: %v", ErrTool, operation, err)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, workDir string) (string, string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	if workDir != "" {
		cmd.Dir = workDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
