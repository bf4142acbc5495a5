package folder

import (
	"context"
	"errors"
	"testing"
)

func TestOpenCommand(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantErr  bool
	}{
		{goos: "darwin", wantName: "open"},
		{goos: "windows", wantName: "explorer"},
		{goos: "linux", wantName: "xdg-open"},
		{goos: "plan9", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args, err := openCommand(tt.goos, "/tmp/rec")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if name != tt.wantName || len(args) != 1 || args[0] != "/tmp/rec" {
				t.Fatalf("unexpected command: %s %v", name, args)
			}
		})
	}
}

func TestOSOpener_Open(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &OSOpener{goos: "linux", start: func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}}

	if err := o.Open(context.Background(), "/tmp/rec"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotName != "xdg-open" || len(gotArgs) != 1 || gotArgs[0] != "/tmp/rec" {
		t.Fatalf("unexpected launch: %s %v", gotName, gotArgs)
	}
}

func TestOSOpener_OpenStartFailure(t *testing.T) {
	startErr := errors.New("not found")
	o := &OSOpener{goos: "darwin", start: func(context.Context, string, ...string) error {
		return startErr
	}}

	err := o.Open(context.Background(), "/tmp/rec")
	if !errors.Is(err, startErr) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
}
