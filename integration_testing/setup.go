package integration_testing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/stepgoal/internal"
	"github.com/2beens/stepgoal/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	log "github.com/sirupsen/logrus"
)

const (
	serverHost     = "localhost"
	allowedPerMin  = 5
	startupTimeout = 30 * time.Second
)

type Suite struct {
	dockerPool *dockertest.Pool
	server     *internal.Server
	endpoint   string
	metricsURL string
	teardown   []func()
}

func newSuite(ctx context.Context) (*Suite, error) {
	var err error
	suite := &Suite{}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := suite.redisSetup()
	if err != nil {
		suite.cleanup()
		return nil, fmt.Errorf("failed to setup redis: %w", err)
	}

	serverPort, err := freePort()
	if err != nil {
		suite.cleanup()
		return nil, err
	}
	freeMetricsPort, err := freePort()
	if err != nil {
		suite.cleanup()
		return nil, err
	}
	metricsPort := strconv.Itoa(freeMetricsPort)

	cfg := getTestConfig(redisPort, serverPort, metricsPort)
	suite.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			RedisPassword:           "",
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		suite.cleanup()
		return nil, fmt.Errorf("new server: %w", err)
	}

	suite.server.Serve(cfg.Host, cfg.Port)
	suite.endpoint = "http://" + net.JoinHostPort(serverHost, strconv.Itoa(serverPort))
	suite.metricsURL = "http://" + net.JoinHostPort(serverHost, metricsPort) + "/metrics"

	if err := waitUntilUp(suite.endpoint + "/health"); err != nil {
		suite.cleanup()
		return nil, err
	}

	return suite, nil
}

func (s *Suite) cleanup() {
	if s.server != nil {
		if err := s.server.GracefulShutdown(); err != nil {
			log.Errorf("graceful shutdown: %s", err)
		}
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func getTestConfig(redisPort string, serverPort int, metricsPort string) *config.Config {
	return &config.Config{
		Environment:            "development",
		Host:                   serverHost,
		Port:                   serverPort,
		LogLevel:               "error",
		PrometheusMetricsHost:  serverHost,
		PrometheusMetricsPort:  metricsPort,
		Locale:                 "nb",
		DistanceEnabled:        true,
		StepsPerKilometre:      1250,
		ProjectionCacheSize:    1024 * 1024,
		RateLimitEnabled:       true,
		RateLimitAllowedPerMin: allowedPerMin,
		RedisHost:              serverHost,
		RedisPort:              redisPort,
		AllowedOrigins:         []string{"http://localhost:8080"},
	}
}

func (s *Suite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := s.dockerPool.Purge(redisResource); err != nil {
			log.Errorf("purge redis container: %s", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	if err := s.dockerPool.Retry(func() error {
		rdb := redis.NewClient(&redis.Options{
			Addr: net.JoinHostPort(serverHost, redisPort),
		})
		defer rdb.Close()
		return rdb.Ping(context.Background()).Err()
	}); err != nil {
		return "", fmt.Errorf("wait for redis: %w", err)
	}

	return redisPort, nil
}

func freePort() (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(serverHost, "0"))
	if err != nil {
		return 0, fmt.Errorf("find free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func waitUntilUp(healthURL string) error {
	deadline := time.Now().Add(startupTimeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(healthURL)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not healthy after %s", startupTimeout)
}
