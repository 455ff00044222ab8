package display

import (
	"flag"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/joypad"
	"github.com/thelolagemann/gbcore/pkg/display/event"
	"github.com/thelolagemann/gbcore/pkg/emulator"
)

type testDriver struct {
	scale float64
	addr  string
	vsync bool
}

func (d *testDriver) Initialize(Emulator, *log.Logger) {}

func (d *testDriver) Start(<-chan []byte, <-chan event.Event, chan<- joypad.Button, chan<- joypad.Button) error {
	return nil
}

func (d *testDriver) Stop() error { return nil }

type testEmulator struct {
	status   emulator.Status
	commands []emulator.Command
}

func (e *testEmulator) SendCommand(command emulator.CommandPacket) emulator.ResponsePacket {
	e.commands = append(e.commands, command.Command)
	return emulator.ResponsePacket{Command: command.Command}
}

func (e *testEmulator) Speed() float64 { return 1 }

func (e *testEmulator) Status() emulator.Status { return e.status }

func withDrivers(t *testing.T) (*testDriver, *testDriver) {
	t.Helper()
	saved := InstalledDrivers
	InstalledDrivers = nil
	t.Cleanup(func() { InstalledDrivers = saved })

	a, b := &testDriver{}, &testDriver{}
	Install("a", a, []DriverOption{
		{Name: "scale", Default: 2.0, Value: &a.scale, Type: "float", Description: "scale"},
		{Name: "vsync", Default: false, Value: &a.vsync, Type: "bool", Description: "vsync"},
	})
	Install("b", b, []DriverOption{
		{Name: "scale", Default: 2.0, Value: &b.scale, Type: "float", Description: "scale"},
		{Name: "addr", Default: ":8090", Value: &b.addr, Type: "string", Description: "address"},
	})
	return a, b
}

func TestRegisterFlags(t *testing.T) {
	a, b := withDrivers(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	assert.NoError(t, fs.Parse([]string{"-scale", "3", "-b-addr", ":9000", "-a-vsync"}))

	assert.Equal(t, 3.0, a.scale)
	assert.Equal(t, 3.0, b.scale)
	assert.Equal(t, ":9000", b.addr)
	assert.True(t, a.vsync)
}

func TestRegisterFlags_Defaults(t *testing.T) {
	a, b := withDrivers(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	assert.NoError(t, fs.Parse(nil))

	assert.Equal(t, 2.0, a.scale)
	assert.Equal(t, ":8090", b.addr)
	assert.False(t, a.vsync)
}

func TestGetDriver(t *testing.T) {
	a, b := withDrivers(t)

	assert.True(t, GetDriver("b") == Driver(b))
	assert.True(t, GetDriver("auto").(*InstalledDriver).Driver == Driver(a))
	assert.Nil(t, GetDriver("missing"))
	assert.Equal(t, []string{"a", "b"}, Names())
}

func TestTogglePause(t *testing.T) {
	emu := &testEmulator{status: emulator.Running}
	TogglePause(emu)
	emu.status = emulator.Paused
	TogglePause(emu)
	emu.status = emulator.Errored
	TogglePause(emu)

	assert.Equal(t, []emulator.Command{emulator.CommandPause, emulator.CommandResume}, emu.commands)
}
