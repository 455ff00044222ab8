package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
	"github.com/thelolagemann/gbcore/internal/ppu"
)

// writeROM writes a ROM that sends "ok" over the serial port and then
// loops forever.
func writeROM(t *testing.T) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x0100:], []byte{
		0x3E, 'o', 0xE0, 0x01, 0x3E, 0x81, 0xE0, 0x02, // LD A,'o'; LDH (SB),A; LD A,0x81; LDH (SC),A
		0x3E, 'k', 0xE0, 0x01, 0x3E, 0x81, 0xE0, 0x02,
		0x18, 0xFE, // JR -2
	})

	path := filepath.Join(t.TempDir(), "test.gb")
	assert.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-frames", "3", "game.gb"})
	assert.NoError(t, err)
	assert.Equal(t, "game.gb", opts.rom)
	assert.Equal(t, 3, opts.frames)

	_, err = parseFlags(nil)
	assert.Error(t, err)
	_, err = parseFlags([]string{"-frames", "-1", "game.gb"})
	assert.Error(t, err)
}

func TestRun_Serial(t *testing.T) {
	var out bytes.Buffer
	opts := options{rom: writeROM(t), frames: 1, serial: true}

	_, err := run(log.NewTestLogger(t), opts, &out)
	assert.NoError(t, err)
	assert.Equal(t, "ok", out.String())
}

func TestRun_Outputs(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		rom:    writeROM(t),
		frames: 2,
		png:    filepath.Join(dir, "frame.png"),
		scale:  2,
		vram:   filepath.Join(dir, "vram.bin"),
	}
	_, err := run(log.NewTestLogger(t), opts, &bytes.Buffer{})
	assert.NoError(t, err)

	f, err := os.Open(opts.png)
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	assert.NoError(t, err)
	assert.Equal(t, 2*ppu.ScreenWidth, cfg.Width)

	vram, err := os.ReadFile(opts.vram)
	assert.NoError(t, err)
	assert.Len(t, vram, 0x1800+0x800+0xA0)
}

func TestRun_Expect(t *testing.T) {
	rom := writeROM(t)

	hash, err := run(log.NewTestLogger(t), options{rom: rom, frames: 1}, &bytes.Buffer{})
	assert.NoError(t, err)

	// emulation is deterministic, the same ROM yields the same frame
	_, err = run(log.NewTestLogger(t), options{rom: rom, frames: 1, expect: strconv.FormatUint(hash, 16)}, &bytes.Buffer{})
	assert.NoError(t, err)

	_, err = run(log.NewTestLogger(t), options{rom: rom, frames: 1, expect: strconv.FormatUint(hash+1, 16)}, &bytes.Buffer{})
	assert.True(t, errors.Is(err, errHashMismatch))

	_, err = run(log.NewTestLogger(t), options{rom: rom, frames: 1, expect: "zz"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Palette(t *testing.T) {
	rom := writeROM(t)

	grey, err := run(log.NewTestLogger(t), options{rom: rom, frames: 1}, &bytes.Buffer{})
	assert.NoError(t, err)
	green, err := run(log.NewTestLogger(t), options{rom: rom, frames: 1, palette: "green"}, &bytes.Buffer{})
	assert.NoError(t, err)
	assert.True(t, grey != green)

	_, err = run(log.NewTestLogger(t), options{rom: rom, frames: 1, palette: "sepia"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown palette")
}

func TestRun_MissingROM(t *testing.T) {
	_, err := run(log.NewTestLogger(t), options{rom: filepath.Join(t.TempDir(), "missing.gb")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "loading rom")
}
