package web

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/gbcore/internal/ppu"
)

const (
	pixels    = ppu.ScreenWidth * ppu.ScreenHeight
	cacheSize = 32
)

// settings are the hub settings the clients can change.
type settings struct {
	compression      bool
	compressionLevel int
	framePatching    bool
	// patchRatio is the percentage of changed pixels up to which a
	// patch is sent instead of the full frame.
	patchRatio    int
	frameSkipping bool
}

func defaultSettings() settings {
	return settings{
		compression:      true,
		compressionLevel: 7,
		framePatching:    true,
		patchRatio:       50,
		frameSkipping:    true,
	}
}

// encoder turns the RGB frames of the emulator into messages for the
// clients. It keeps the last frame to compute patches and skips, and
// the caches mirrored by the clients.
type encoder struct {
	current []byte // RGBA
	patch   []byte // RGBA, alpha set on changed pixels only
	skipped uint32

	frames, patches *cache
}

func newEncoder() *encoder {
	return &encoder{
		current: make([]byte, pixels*4),
		patch:   make([]byte, pixels*4),
		frames:  newCache(cacheSize),
		patches: newCache(cacheSize),
	}
}

// encode returns the messages to broadcast for fb, a 160x144 RGB
// frame.
func (e *encoder) encode(fb []byte, s settings) ([][]byte, error) {
	if len(fb) != pixels*3 {
		return nil, fmt.Errorf("invalid frame size %d", len(fb))
	}

	clear(e.patch)
	changed := 0
	for i := 0; i < pixels; i++ {
		r, g, b := fb[i*3], fb[i*3+1], fb[i*3+2]
		if e.current[i*4] != r || e.current[i*4+1] != g || e.current[i*4+2] != b || e.current[i*4+3] == 0 {
			e.patch[i*4] = r
			e.patch[i*4+1] = g
			e.patch[i*4+2] = b
			e.patch[i*4+3] = 255
			changed++
		}

		e.current[i*4] = r
		e.current[i*4+1] = g
		e.current[i*4+2] = b
		e.current[i*4+3] = 255
	}

	if changed == 0 && s.frameSkipping {
		e.skipped++
		return nil, nil
	}

	var messages [][]byte
	if e.skipped > 0 {
		messages = append(messages, binary.LittleEndian.AppendUint32([]byte{FrameSkip}, e.skipped))
		e.skipped = 0
	}

	kind, c, buffer := Frame, e.frames, e.current
	if s.framePatching && changed*100 < s.patchRatio*pixels {
		kind, c, buffer = FramePatch, e.patches, e.patch
	}

	output := buffer
	if s.compression {
		var err error
		if output, err = compress(buffer, s.compressionLevel); err != nil {
			return messages, err
		}
	} else {
		output = bytes.Clone(buffer)
	}

	hash := xxhash.Sum64(output)
	if idx, ok := c.index(hash); ok {
		cached := FrameCache
		if kind == FramePatch {
			cached = PatchCache
		}
		return append(messages, binary.LittleEndian.AppendUint16([]byte{cached}, uint16(idx))), nil
	}

	idx := c.add(hash, output)
	message := binary.LittleEndian.AppendUint16([]byte{kind}, uint16(idx))
	return append(messages, append(message, output...)), nil
}

// sync returns the messages bringing a joining client up to date.
func (e *encoder) sync() ([][]byte, error) {
	frame, err := compress(e.current, brotli.BestCompression)
	if err != nil {
		return nil, err
	}

	return [][]byte{
		append([]byte{FrameCacheSync}, e.frames.records()...),
		append([]byte{PatchCacheSync}, e.patches.records()...),
		append([]byte{FrameSync}, frame...),
	}, nil
}

func compress(data []byte, quality int) ([]byte, error) {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, quality)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compressing frame: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compressing frame: %w", err)
	}
	return buf.Bytes(), nil
}
