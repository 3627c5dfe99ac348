package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/yugabyte/yb-vectorstore/v1/ybengine"
)

const (
	yugabyteImage = "yugabytedb/yugabyte:2.25.1.0-b381"
	ysqlPort      = "5433/tcp"
)

// YugabyteContainer is a single-node YugabyteDB started for a test run.
type YugabyteContainer struct {
	testcontainers.Container
	Config ybengine.Config
	Host   string
	Port   string
}

// StartYugabyte launches yugabyted in the foreground and waits until YSQL
// accepts connections.
func StartYugabyte(ctx context.Context) (*YugabyteContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		ysqlPort: []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image:        yugabyteImage,
		Cmd:          []string{"bin/yugabyted", "start", "--background=false"},
		ExposedPorts: []string{ysqlPort},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForListeningPort(ysqlPort).WithStartupTimeout(3 * time.Minute),
	}

	ybContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start yugabyte container: %w", err)
	}

	host, err := ybContainer.Host(ctx)
	if err != nil {
		_ = ybContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := ybContainer.MappedPort(ctx, ysqlPort)
	if err != nil {
		_ = ybContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	cfg := ybengine.Config{
		Connection: ybengine.Connection{
			Host:    host,
			Port:    portStr,
			User:    "yugabyte",
			DbName:  "yugabyte",
			SSLMode: "disable",
		},
		ConnectionDetails: ybengine.ConnectionDetails{MaxConns: 8},
	}

	if err := waitForYSQL(cfg.DSN(), 2*time.Minute); err != nil {
		_ = ybContainer.Terminate(ctx)
		return nil, fmt.Errorf("yugabyte container not ready: %w", err)
	}

	return &YugabyteContainer{
		Container: ybContainer,
		Config:    cfg,
		Host:      host,
		Port:      portStr,
	}, nil
}

// waitForYSQL polls until a trivial query succeeds. The listening port opens
// before the catalog is ready to serve queries.
func waitForYSQL(dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			var one int
			err = db.QueryRow("SELECT 1").Scan(&one)
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return fmt.Errorf("timed out after %s: %w", timeout, lastErr)
}

func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer addr.Close()

	return addr.Addr().(*net.TCPAddr).Port, nil
}
