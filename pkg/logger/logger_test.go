package logger

import (
	"testing"

	"github.com/QuadricIT2018/az-conference-app-mvp/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"json info", config.LogConfig{Level: "info", Format: "json"}, false},
		{"console debug", config.LogConfig{Level: "debug", Format: "console"}, false},
		{"非法级别", config.LogConfig{Level: "loud", Format: "json"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("期望 err=%v，实际 %v", tt.wantErr, err)
			}
			if l != nil {
				_ = l.Sync()
			}
		})
	}
}
