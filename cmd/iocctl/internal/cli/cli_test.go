package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pikciu/ioc"
	"github.com/pikciu/ioc/loader"
)

type Clock interface{ Now() int64 }

type systemClock struct{}

func (*systemClock) Now() int64 { return 0 }

type Scheduler struct{ clock Clock }

func NewScheduler(clock Clock) *Scheduler { return &Scheduler{clock: clock} }

type ClockInstaller struct{}

func (*ClockInstaller) Install(c *ioc.Container) error {
	return ioc.Register[Clock, *systemClock](c, ioc.AsSingleton())
}

type SchedulerInstaller struct{}

func (*SchedulerInstaller) Install(c *ioc.Container) error {
	return ioc.RegisterSelf[*Scheduler](c, ioc.WithConstructor(NewScheduler))
}

func testCatalog() *loader.Catalog {
	return loader.NewCatalog().
		MustAdd("clock", (*ClockInstaller)(nil)).
		MustAdd("scheduler", (*SchedulerInstaller)(nil))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := New(testCatalog())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestModules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billing.so"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clock.so"), nil, 0o600))

	out, err := run(t, "modules", "--plugin-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "MODULE")
	assert.Regexp(t, `clock\s+│ catalog`, out)
	assert.Regexp(t, `scheduler\s+│ catalog`, out)
	assert.Regexp(t, `billing\s+│ plugin`, out)
	assert.NotRegexp(t, `clock\s+│ plugin`, out, "catalog modules shadow plugins")
}

func TestInspectTable(t *testing.T) {
	t.Parallel()

	out, err := run(t, "inspect", "clock", "scheduler")
	require.NoError(t, err)

	assert.Contains(t, out, "CONTRACT")
	assert.Contains(t, out, "cli.Clock")
	assert.Contains(t, out, "cli.systemClock")
	assert.Regexp(t, `cli\.Scheduler\s+│ cli\.Scheduler\s+│ per-request\s+│ cli\.Clock`, out)
	assert.Regexp(t, `TOTAL\s+│ 2`, out)
}

func TestInspectFormats(t *testing.T) {
	t.Parallel()

	out, err := run(t, "inspect", "clock", "-o", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "○ github.com/pikciu/ioc/cmd/iocctl/internal/cli.Clock =>")

	out, err = run(t, "inspect", "clock", "scheduler", "--output", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph dependencies {")
	assert.Contains(t, out, `[label="cli.Scheduler"]`)

	_, err = run(t, "inspect", "-o", "yaml")
	assert.ErrorContains(t, err, `invalid output format "yaml"`)
}

func TestInspectUnknownModule(t *testing.T) {
	t.Parallel()

	_, err := run(t, "inspect", "mailer")
	assert.True(t, ioc.IsModuleNotFound(err), "got %v", err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	out, err := run(t, "validate", "clock", "scheduler")
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 registrations\n", out)

	_, err = run(t, "validate", "scheduler")
	assert.True(t, ioc.IsValidationFailed(err), "got %v", err)
}

func TestConfiguredModules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ioc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules: [clock]\n"), 0o600))
	t.Setenv("IOC_LOG_LEVEL", "error")

	out, err := run(t, "--config", path, "validate", "scheduler")
	require.NoError(t, err)
	assert.Equal(t, "ok: 2 registrations\n", out)
}

func TestInvalidLogFlags(t *testing.T) {
	t.Parallel()

	_, err := run(t, "--logformat", "xml", "modules")
	assert.ErrorContains(t, err, "log format must be text or json")

	_, err = run(t, "--loglevel", "loud", "modules")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Regexp(t, `^iocctl \S+ \(.+\)\n$`, out)
}
