//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const svdrpPort = nat.Port("6419/tcp")

// stubRequest describes the SVDRP stub container.
func stubRequest(repoRoot string) testcontainers.ContainerRequest {
	return testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context:    filepath.Join(repoRoot, "test/integration/svdrpstub"),
			Dockerfile: "Dockerfile",
		},
		ExposedPorts: []string{string(svdrpPort)},
		WaitingFor:   wait.ForListeningPort(svdrpPort).WithStartupTimeout(45 * time.Second),
	}
}

// startSVDRPStub starts the stub and returns the host and mapped port.
func startSVDRPStub(t *testing.T, ctx context.Context) (string, int) {
	t.Helper()

	stub, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: stubRequest(mustRepoRoot(t)),
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start svdrp container: %v", err)
	}
	t.Cleanup(func() { _ = stub.Terminate(context.Background()) })

	host, err := stub.Host(ctx)
	if err != nil {
		t.Fatalf("get container host: %v", err)
	}
	mapped, err := stub.MappedPort(ctx, svdrpPort)
	if err != nil {
		t.Fatalf("get mapped port: %v", err)
	}

	t.Logf("SVDRP stub running at %s:%s", host, mapped.Port())
	return host, mapped.Int()
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	d := wd
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	t.Fatalf("could not locate repo root from %s", wd)
	return ""
}
