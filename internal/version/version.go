// Package version provides build version information and runtime metadata.
package version

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// Name is the application name used in banners and the User-Agent.
const Name = "ttml-stats-dashboard-tui"

var (
	// These are set via ldflags at build time
	Version = ""
	Commit  = ""
	Date    = ""

	linked struct{ version, commit, date string }

	// git runs a git subcommand and returns its trimmed stdout.
	git = runGit

	// buildInfo reports module metadata for `go install` builds.
	buildInfo = debug.ReadBuildInfo

	once sync.Once
	mu   sync.Mutex
)

func init() {
	linked.version, linked.commit, linked.date = Version, Commit, Date
}

// Reset clears resolved values so the next access recomputes them.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	Version, Commit, Date = linked.version, linked.commit, linked.date
	once = sync.Once{}
}

func ensureInitialized() {
	mu.Lock()
	defer mu.Unlock()
	once.Do(resolve)
}

func resolve() {
	if Date == "" {
		Date = time.Now().Format(time.DateOnly)
	}
	if Commit == "" {
		Commit = firstNonEmpty(gitOutput("describe", "--always", "--dirty"), "unknown")
	}
	if Version == "" {
		Version = firstNonEmpty(gitOutput("describe", "--tags", "--abbrev=0"), moduleVersion(), "dev")
	}
}

func runGit(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.String()), nil
}

func gitOutput(args ...string) string {
	out, err := git(args...)
	if err != nil {
		return ""
	}
	return out
}

func moduleVersion() string {
	info, ok := buildInfo()
	if !ok || info.Main.Version == "(devel)" {
		return ""
	}
	return info.Main.Version
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GetVersion returns the release tag, or "dev" outside a tagged checkout.
func GetVersion() string {
	ensureInitialized()
	return Version
}

// GetCommit returns the commit the binary was built from.
func GetCommit() string {
	ensureInitialized()
	return Commit
}

// GetDate returns the build date.
func GetDate() string {
	ensureInitialized()
	return Date
}

// UserAgent identifies the sync client to the stats endpoint.
func UserAgent() string {
	return Name + "/" + strings.TrimPrefix(GetVersion(), "v")
}

// Info returns a one-line version banner.
func Info() string {
	ensureInitialized()
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s/%s)",
		Name, Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}
