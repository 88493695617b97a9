package main

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
)

type fakeMigrator struct {
	upErr      error
	downErr    error
	versionErr error
	forced     int
	calls      []string
}

func (f *fakeMigrator) Up() error {
	f.calls = append(f.calls, "up")
	return f.upErr
}

func (f *fakeMigrator) Down() error {
	f.calls = append(f.calls, "down")
	return f.downErr
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return 1, false, f.versionErr
}

func (f *fakeMigrator) Force(version int) error {
	f.calls = append(f.calls, "force")
	f.forced = version
	return nil
}

func TestRunCommand(t *testing.T) {
	testCases := []struct {
		name     string
		m        *fakeMigrator
		command  string
		args     []string
		wantErr  bool
		wantCall string
	}{
		{"Up", &fakeMigrator{}, "up", nil, false, "up"},
		{"Up no change", &fakeMigrator{upErr: migrate.ErrNoChange}, "up", nil, false, "up"},
		{"Up failure", &fakeMigrator{upErr: errors.New("dirty database")}, "up", nil, true, "up"},
		{"Down", &fakeMigrator{}, "down", nil, false, "down"},
		{"Version", &fakeMigrator{}, "version", nil, false, "version"},
		{"Version none applied", &fakeMigrator{versionErr: migrate.ErrNilVersion}, "version", nil, false, "version"},
		{"Force", &fakeMigrator{}, "force", []string{"1"}, false, "force"},
		{"Force without version", &fakeMigrator{}, "force", nil, true, ""},
		{"Force bad version", &fakeMigrator{}, "force", []string{"one"}, true, ""},
		{"Unknown", &fakeMigrator{}, "sideways", nil, true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := runCommand(tc.m, tc.command, tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("runCommand() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantCall == "" {
				if len(tc.m.calls) != 0 {
					t.Errorf("calls = %v, want none", tc.m.calls)
				}
				return
			}
			if len(tc.m.calls) != 1 || tc.m.calls[0] != tc.wantCall {
				t.Errorf("calls = %v, want [%s]", tc.m.calls, tc.wantCall)
			}
		})
	}
}

func TestForceVersion(t *testing.T) {
	m := &fakeMigrator{}
	if err := runCommand(m, "force", []string{"3"}); err != nil {
		t.Fatalf("runCommand() failed: %v", err)
	}
	if m.forced != 3 {
		t.Errorf("forced = %d, want 3", m.forced)
	}
}
