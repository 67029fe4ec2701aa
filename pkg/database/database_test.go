package database

import (
	"quizhub_backend/internal/config"
	"testing"
)

func TestShouldAutoMigrate(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug 默认迁移", "debug", false, true},
		{"release 默认跳过", "release", false, false},
		{"release 强制迁移", "release", true, true},
		{"debug 强制迁移", "debug", true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &config.Config{ForceMigrate: tc.force}
			cfg.Server.Mode = tc.mode
			if got := shouldAutoMigrate(cfg); got != tc.want {
				t.Errorf("shouldAutoMigrate() = %v, want %v", got, tc.want)
			}
		})
	}
}
