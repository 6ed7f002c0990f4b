package module

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"timeslider/internal/modkit/httpkit"
	perr "timeslider/internal/platform/errors"
)

type Stepper interface{ Step() int }

type stepper struct{ n int }

func (s stepper) Step() int { return s.n }

type bundle struct {
	Name    string
	Stepper Stepper
	hidden  Stepper
}

type fakeModule struct {
	name  string
	ports any
}

func (m fakeModule) Name() string               { return m.name }
func (m fakeModule) Ports() PortSet             { return m.ports }
func (m fakeModule) MountRoutes(httpkit.Router) {}

var _ Module = fakeModule{}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		ports  any
		want   int
		wantOK bool
	}{
		{name: "nil", ports: nil},
		{name: "direct", ports: stepper{n: 1}, want: 1, wantOK: true},
		{name: "struct field", ports: bundle{Name: "timeslider", Stepper: stepper{n: 2}}, want: 2, wantOK: true},
		{name: "pointer to struct", ports: &bundle{Stepper: stepper{n: 3}}, want: 3, wantOK: true},
		{name: "nil pointer", ports: (*bundle)(nil)},
		{name: "unexported only", ports: bundle{hidden: stepper{n: 4}}},
		{name: "primitive", ports: 42},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := PortsOf[Stepper](fakeModule{name: tc.name, ports: tc.ports})
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got.Step() != tc.want {
				t.Fatalf("Step() = %d, want %d", got.Step(), tc.want)
			}
		})
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	m := fakeModule{name: "timeslider", ports: bundle{Stepper: stepper{n: 5}}}
	if MustPortsOf[Stepper](m).Step() != 5 {
		t.Fatalf("MustPortsOf returned wrong port")
	}

	defer func() {
		v := recover()
		msg, _ := v.(string)
		if !strings.Contains(msg, "requested port not found") || !strings.Contains(msg, "meta") {
			t.Fatalf("unexpected panic: %v", v)
		}
	}()
	MustPortsOf[Stepper](fakeModule{name: "meta"})
}

// registry tests share global state so they run serially
func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if err := Register("timeslider", bundle{Name: "timeslider"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register("meta", nil); err != nil {
		t.Fatalf("Register meta: %v", err)
	}
	err := Register("timeslider", bundle{Name: "again"})
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("duplicate Register = %v, want conflict", err)
	}
	got, ok := PortsAs[bundle]("timeslider")
	if !ok || got.Name != "timeslider" {
		t.Fatalf("PortsAs = %+v %v", got, ok)
	}
	if _, ok := PortsAs[stepper]("timeslider"); ok {
		t.Fatalf("wrong type should not assert")
	}
	if _, ok := PortsAs[bundle]("missing"); ok {
		t.Fatalf("missing name should not resolve")
	}
	if names := Names(); len(names) != 2 || names[0] != "meta" || names[1] != "timeslider" {
		t.Fatalf("Names = %v", names)
	}

	Reset()
	if _, ok := PortsAs[bundle]("timeslider"); ok || len(Names()) != 0 {
		t.Fatalf("Reset should clear the registry")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	var won atomic.Int32
	for i := 0; i < 32; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			if Register("stepper", stepper{n: n}) == nil {
				won.Add(1)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _ = PortsAs[stepper]("stepper")
		}()
	}
	wg.Wait()
	if won.Load() != 1 {
		t.Fatalf("%d goroutines claimed the name, want 1", won.Load())
	}
	if _, ok := PortsAs[stepper]("stepper"); !ok {
		t.Fatalf("expected a registered stepper")
	}
}

type ready struct{ fakeModule }

func (ready) Ready(context.Context) error { return nil }

func TestReadiness(t *testing.T) {
	var m Module = ready{fakeModule{name: "timeslider"}}
	if _, ok := m.(Readiness); !ok {
		t.Fatalf("module with Ready should satisfy Readiness")
	}
	if _, ok := Module(fakeModule{}).(Readiness); ok {
		t.Fatalf("plain module should not satisfy Readiness")
	}
}
