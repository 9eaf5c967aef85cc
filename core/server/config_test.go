package server_test

import (
	"testing"
	"time"

	"shelter-sync/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		port string
		want string
	}{
		{"PortOnly", "8080", ":8080"},
		{"HostAndPort", "127.0.0.1:9000", "127.0.0.1:9000"},
		{"Empty", "", ":"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{Port: tt.port}
			assert.Equal(t, tt.want, c.Addr())
		})
	}
}

func TestConfig_ShutdownTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, server.Config{}.ShutdownTimeout())
	assert.Equal(t, 5*time.Second, server.Config{ShutdownTimeoutSeconds: 5}.ShutdownTimeout())
}
