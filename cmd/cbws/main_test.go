package main

import (
	"errors"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name    string
		execute func() error
		wantErr string
		wantIs  error
	}{
		{name: "success", execute: func() error { return nil }},
		{name: "error passed through", execute: func() error { return cause }, wantErr: "boom", wantIs: cause},
		{name: "panic with value", execute: func() error { panic("bad state") }, wantErr: "panic: bad state"},
		{name: "panic with error", execute: func() error { panic(cause) }, wantErr: "panic: boom", wantIs: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.execute)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("run() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("run() error = %v, want %q", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("run() error does not wrap %v", tt.wantIs)
			}
		})
	}
}
