package heartbeat

import (
	"errors"
	"net"
	"testing"
	"time"
)

func TestUDPConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     UDPConfig
		wantErr error
	}{
		{
			name:    "valid",
			cfg:     UDPConfig{Port: 9901, Secret: "s3cret"},
			wantErr: nil,
		},
		{
			name:    "missing port",
			cfg:     UDPConfig{Secret: "s3cret"},
			wantErr: ErrDisabled,
		},
		{
			name:    "missing secret",
			cfg:     UDPConfig{Port: 9901},
			wantErr: ErrDisabled,
		},
		{
			name:    "port out of range",
			cfg:     UDPConfig{Port: 70000, Secret: "s3cret"},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewUDPEmitter_Disabled(t *testing.T) {
	_, err := NewUDPEmitter(UDPConfig{})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("NewUDPEmitter error = %v, want ErrDisabled", err)
	}
}

func TestUDPEmitter_Emit(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket error: %v", err)
	}
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	emitter, err := NewUDPEmitter(UDPConfig{Port: port, Secret: "s3cret"})
	if err != nil {
		t.Fatalf("NewUDPEmitter error: %v", err)
	}
	defer emitter.Close()

	if err := emitter.Emit(); err != nil {
		t.Fatalf("Emit error: %v", err)
	}

	pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 64)
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("ReadFrom error: %v", err)
	}
	if got := string(buf[:n]); got != "s3cret" {
		t.Errorf("payload = %q, want %q", got, "s3cret")
	}
}

func TestUDPEmitter_EmitAfterClose(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("ListenPacket error: %v", err)
	}
	defer pc.Close()

	port := pc.LocalAddr().(*net.UDPAddr).Port
	emitter, err := NewUDPEmitter(UDPConfig{Port: port, Secret: "s3cret"})
	if err != nil {
		t.Fatalf("NewUDPEmitter error: %v", err)
	}

	if err := emitter.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if err := emitter.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
	if err := emitter.Emit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Emit after close = %v, want ErrClosed", err)
	}
}

func TestMemoryEmitter(t *testing.T) {
	emitter := NewMemoryEmitter()

	for i := 0; i < 3; i++ {
		if err := emitter.Emit(); err != nil {
			t.Fatalf("Emit error: %v", err)
		}
	}
	if emitter.Count() != 3 {
		t.Errorf("Count = %d, want 3", emitter.Count())
	}

	injected := errors.New("transport down")
	emitter.FailWith(injected)
	if err := emitter.Emit(); !errors.Is(err, injected) {
		t.Errorf("Emit = %v, want injected error", err)
	}
	if emitter.Count() != 3 {
		t.Errorf("Count after failed Emit = %d, want 3", emitter.Count())
	}

	emitter.Clear()
	if emitter.Count() != 0 {
		t.Errorf("Count after Clear = %d, want 0", emitter.Count())
	}
}
