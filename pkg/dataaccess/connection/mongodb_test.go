package connection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMongoDB_GenerateConnectionString(t *testing.T) {
	tests := []struct {
		name string
		m    *MongoDB
		want string
	}{
		{
			name: "host only",
			m:    &MongoDB{Host: "localhost"},
			want: "mongodb://localhost",
		},
		{
			name: "credentials and port",
			m:    &MongoDB{Username: "bot", Password: "secret", Host: "db", Port: "27017"},
			want: "mongodb://bot:secret@db:27017",
		},
		{
			name: "username and args",
			m:    &MongoDB{Username: "bot", Host: "db", Args: "authSource=admin"},
			want: "mongodb://bot@db/?authSource=admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.m.GenerateConnectionString()
			require.Equal(t, tt.want, tt.m.ConnectionString)
		})
	}
}
