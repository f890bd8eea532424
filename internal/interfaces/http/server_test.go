package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/milo0914/ChemPatent-Pro/internal/config"
)

func configFor(port int) config.ServerConfig {
	return config.ServerConfig{
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestNewServer_AppliesConfig(t *testing.T) {
	srv := NewServer(configFor(8080), NewRouter(RouterConfig{}), nil)
	assert.Equal(t, ":8080", srv.srv.Addr)
	assert.Equal(t, 5*time.Second, srv.srv.ReadTimeout)
	assert.Equal(t, time.Second, srv.shutdownTimeout)
	assert.NotNil(t, srv.Handler())
}

//Personal.AI order the ending
