package docker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52north/docker-build/internal/model"
)

// recordingRunner captures docker invocations instead of executing them.
type recordingRunner struct {
	calls  [][]string
	inputs []string
	err    error
}

func (r *recordingRunner) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, args)
	r.inputs = append(r.inputs, "")
	return r.err
}

func (r *recordingRunner) RunWithInput(_ context.Context, input string, args ...string) error {
	r.calls = append(r.calls, args)
	r.inputs = append(r.inputs, input)
	return r.err
}

// TestBuild_ArgumentAssembly verifies the full docker build command line:
// flag order, sorted labels, build args, tags, Dockerfile, and context.
func TestBuild_ArgumentAssembly(t *testing.T) {
	runner := &recordingRunner{}
	builder := NewCLIBuilder(nil).WithRunner(runner)

	opts := BuildOptions{
		Tags: []string{
			"docker.52north.org/sos:1.2.3",
			"docker.52north.org/sos:1.2",
		},
		Labels: map[string]string{
			"org.label-schema.vendor":         "52°North GmbH",
			"org.label-schema.schema-version": "1.0",
		},
		BuildArgs:          []string{"BASE_IMAGE=alpine:3.20"},
		Dockerfile:         "Dockerfile",
		Context:            ".",
		Pull:               true,
		ForceRemoveNoCache: true,
	}
	require.NoError(t, builder.Build(context.Background(), opts))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"build",
		"--pull",
		"--force-rm", "--no-cache",
		"--label", "org.label-schema.schema-version=1.0",
		"--label", "org.label-schema.vendor=52°North GmbH",
		"--build-arg", "BASE_IMAGE=alpine:3.20",
		"--tag", "docker.52north.org/sos:1.2.3",
		"--tag", "docker.52north.org/sos:1.2",
		"--file", "Dockerfile",
		".",
	}, runner.calls[0])
}

// TestBuild_NoTags verifies that building without tags is rejected before
// any command runs.
func TestBuild_NoTags(t *testing.T) {
	runner := &recordingRunner{}
	builder := NewCLIBuilder(nil).WithRunner(runner)

	err := builder.Build(context.Background(), BuildOptions{Context: "."})

	require.Error(t, err)
	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
	assert.Empty(t, runner.calls)
}

// TestLogin_PasswordViaStdin verifies that the password is piped to stdin
// and never appears among the command arguments.
func TestLogin_PasswordViaStdin(t *testing.T) {
	runner := &recordingRunner{}
	builder := NewCLIBuilder(nil).WithRunner(runner)

	require.NoError(t, builder.Login(context.Background(), "docker.52north.org", "ci", "s3cret"))

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"login", "--username", "ci", "--password-stdin", "docker.52north.org",
	}, runner.calls[0])
	assert.Equal(t, "s3cret", runner.inputs[0])
	assert.NotContains(t, runner.calls[0], "s3cret")
}

// TestPushVariants verifies single-ref and repository-wide push commands.
func TestPushVariants(t *testing.T) {
	runner := &recordingRunner{}
	builder := NewCLIBuilder(nil).WithRunner(runner)

	require.NoError(t, builder.Push(context.Background(), "docker.52north.org/sos:1.2.3"))
	require.NoError(t, builder.PushRepository(context.Background(), "docker.52north.org/sos"))
	require.NoError(t, builder.Logout(context.Background(), "docker.52north.org"))

	assert.Equal(t, [][]string{
		{"push", "docker.52north.org/sos:1.2.3"},
		{"push", "--all-tags", "docker.52north.org/sos"},
		{"logout", "docker.52north.org"},
	}, runner.calls)
}

// TestRunnerErrorsPropagate verifies that a failing docker command surfaces
// as the runner's error.
func TestRunnerErrorsPropagate(t *testing.T) {
	bang := errors.New("exit status 1")
	runner := &recordingRunner{err: bang}
	builder := NewCLIBuilder(nil).WithRunner(runner)

	err := builder.Push(context.Background(), "docker.52north.org/sos:1.2.3")
	assert.ErrorIs(t, err, bang)
}

// TestRedactBuildArgs verifies that values of secret-looking keys are masked
// while ordinary build args and the input slice stay untouched.
func TestRedactBuildArgs(t *testing.T) {
	in := []string{
		"BASE_IMAGE=alpine:3.20",
		"NPM_TOKEN=abc123",
		"DB_PASSWORD=hunter2",
		"API_SECRET=",
		"NOEQUALS",
	}

	out := RedactBuildArgs(in)

	assert.Equal(t, []string{
		"BASE_IMAGE=alpine:3.20",
		"NPM_TOKEN=REDACTED",
		"DB_PASSWORD=REDACTED",
		"API_SECRET=", // empty value needs no masking
		"NOEQUALS",
	}, out)
	assert.Equal(t, "NPM_TOKEN=abc123", in[1], "input must not be mutated")
}

// TestSDKOperationsWithoutClient verifies that SDK-backed operations fail
// cleanly when no Docker client is available.
func TestSDKOperationsWithoutClient(t *testing.T) {
	builder := NewCLIBuilder(nil)

	_, err := builder.LocalImageCount(context.Background(), "docker.52north.org/sos")
	assert.Error(t, err)

	err = builder.Remove(context.Background(), []string{"docker.52north.org/sos:1.2.3"})
	assert.Error(t, err)
}
