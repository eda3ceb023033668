package docker

import (
	"context"
	"time"

	"github.com/docker/docker/client"
	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/rusenback/docker-profiler/internal/logger"
)

// Config holds the Docker client configuration
type Config struct {
	Host      string
	TLSVerify bool
	CertPath  string
	Timeout   time.Duration
}

// DefaultConfig talks to the local daemon socket. An empty Host falls back
// to the DOCKER_HOST family of environment variables.
func DefaultConfig() Config {
	return Config{
		Host:    "unix:///var/run/docker.sock",
		Timeout: 30 * time.Second,
	}
}

// Client wraps the Docker API client
type Client struct {
	cli *client.Client
	ctx context.Context
	log logger.Logger
}

// NewClient connects to the daemon and verifies it answers a ping
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Noop()
	}

	opts := []client.Opt{
		client.WithAPIVersionNegotiation(),
	}
	if cfg.Host != "" {
		opts = append(opts, client.WithHost(cfg.Host))
	} else {
		opts = append(opts, client.FromEnv)
	}

	if cfg.TLSVerify {
		opts = append(opts, client.WithTLSClientConfig(
			cfg.CertPath+"/ca.pem",
			cfg.CertPath+"/cert.pem",
			cfg.CertPath+"/key.pem",
		))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDocker,
			"Failed to create Docker client",
			"Check the docker.host setting or DOCKER_HOST")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, errors.WrapWithCode(err, errors.ErrDocker,
			"Failed to connect to Docker",
			"Make sure Docker is running (sudo systemctl start docker) and your user can access the socket")
	}

	log.Debug("connected to docker at %s (api %s)", cli.DaemonHost(), cli.ClientVersion())

	return &Client{
		cli: cli,
		ctx: context.Background(),
		log: log,
	}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}
