package pathreg

import (
	"sync"
	"testing"

	"github.com/thoreinstein/pkgselect/internal/config"
	"github.com/thoreinstein/pkgselect/internal/platform"
)

// nopBackend records the settings it was built with.
type nopBackend struct {
	name string
	cfg  *config.Config
}

func (n *nopBackend) Name() string                    { return n.name }
func (n *nopBackend) Key(alias string) string         { return alias }
func (n *nopBackend) Registered(string) (bool, error) { return false, nil }
func (n *nopBackend) Register(string) error           { return nil }
func (n *nopBackend) RegisterAll([]string) error      { return nil }
func (n *nopBackend) Unregister(string) error         { return nil }
func (n *nopBackend) UnregisterAll([]string) error    { return nil }
func (n *nopBackend) Reset([]string) error            { return nil }

func nopFactory(name string) Factory {
	return func(cfg *config.Config) (Backend, error) {
		return &nopBackend{name: name, cfg: cfg}, nil
	}
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if got := r.Names(); got != nil {
		t.Errorf("NewRegistry().Names() = %v, want nil", got)
	}
}

func TestRegistry_Register_Success(t *testing.T) {
	for _, name := range platform.Backends() {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			if err := r.Register(name, nopFactory(name)); err != nil {
				t.Errorf("Register(%q) error = %v, want nil", name, err)
			}
			if !r.Has(name) {
				t.Errorf("Has(%q) = false, want true", name)
			}
		})
	}
}

func TestRegistry_Register_InvalidName(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		factory Factory
	}{
		{name: "empty", backend: "", factory: nopFactory("")},
		{name: "auto", backend: platform.Auto, factory: nopFactory("auto")},
		{name: "unknown", backend: "launchd", factory: nopFactory("launchd")},
		{name: "nil factory", backend: platform.BackendProfile, factory: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewRegistry().Register(tt.backend, tt.factory)
			if !Is(err, ErrInvalidBackendName) {
				t.Errorf("Register(%q) error = %v, want ErrInvalidBackendName", tt.backend, err)
			}
		})
	}
}

func TestRegistry_Register_AlreadyRegistered(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(platform.BackendProfile, nopFactory("profile")); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := r.Register(platform.BackendProfile, nopFactory("profile"))
	if !Is(err, ErrBackendAlreadyRegistered) {
		t.Errorf("second Register() error = %v, want ErrBackendAlreadyRegistered", err)
	}
}

func TestRegistry_Names_DeterministicOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{platform.BackendProfile, platform.BackendAlternatives, platform.BackendRegistry} {
		if err := r.Register(name, nopFactory(name)); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	got := r.Names()
	want := platform.Backends()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Open(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(platform.BackendProfile, nopFactory("profile")); err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}

	b, err := r.Open(platform.BackendProfile, cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	nb, ok := b.(*nopBackend)
	if !ok || nb.cfg != cfg {
		t.Errorf("Open() did not pass settings to the factory")
	}

	if _, err := r.Open(platform.BackendRegistry, cfg); !Is(err, ErrBackendNotRegistered) {
		t.Errorf("Open(unregistered) error = %v, want ErrBackendNotRegistered", err)
	}
}

func TestRegistry_ConcurrentRegisterAndHas(t *testing.T) {
	r := NewRegistry()
	name := platform.BackendAlternatives

	var wg sync.WaitGroup
	const readers = 50
	const writers = 10

	registerErrors := make(chan error, writers)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registerErrors <- r.Register(name, nopFactory(name))
		}()
	}
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Has(name)
			_ = r.Names()
		}()
	}

	wg.Wait()
	close(registerErrors)

	successCount := 0
	for err := range registerErrors {
		if err == nil {
			successCount++
		}
	}
	if successCount != 1 {
		t.Errorf("successful registrations = %d, want 1", successCount)
	}
}
