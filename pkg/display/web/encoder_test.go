package web

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/retroenv/retrogolib/assert"
)

func solidFrame(r, g, b uint8) []byte {
	fb := make([]byte, pixels*3)
	for i := 0; i < pixels; i++ {
		fb[i*3], fb[i*3+1], fb[i*3+2] = r, g, b
	}
	return fb
}

func decompress(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	assert.NoError(t, err)
	return out
}

func TestEncoder_FullFrame(t *testing.T) {
	e := newEncoder()

	messages, err := e.encode(solidFrame(0xFF, 0, 0), defaultSettings())
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, Frame, messages[0][0])
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(messages[0][1:3]))

	rgba := decompress(t, messages[0][3:])
	assert.Len(t, rgba, pixels*4)
	assert.Equal(t, []byte{0xFF, 0, 0, 0xFF}, rgba[:4])
}

func TestEncoder_SkipAndPatch(t *testing.T) {
	e := newEncoder()
	s := defaultSettings()

	a := solidFrame(1, 2, 3)
	b := solidFrame(1, 2, 3)
	b[0] = 9

	_, err := e.encode(a, s)
	assert.NoError(t, err)

	messages, err := e.encode(a, s)
	assert.NoError(t, err)
	assert.Empty(t, messages)

	messages, err = e.encode(b, s)
	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, []byte{FrameSkip, 1, 0, 0, 0}, messages[0])
	assert.Equal(t, FramePatch, messages[1][0])

	patch := decompress(t, messages[1][3:])
	assert.Equal(t, []byte{9, 2, 3, 0xFF}, patch[:4])
	assert.Equal(t, []byte{0, 0, 0, 0}, patch[4:8])

	// a->b again hashes to the cached patch
	_, err = e.encode(a, s)
	assert.NoError(t, err)
	messages, err = e.encode(b, s)
	assert.NoError(t, err)
	assert.Equal(t, [][]byte{{PatchCache, 0, 0}}, messages)
}

func TestEncoder_Uncompressed(t *testing.T) {
	e := newEncoder()
	s := defaultSettings()
	s.compression = false
	s.frameSkipping = false

	for i := 0; i < 2; i++ {
		messages, err := e.encode(solidFrame(4, 5, 6), s)
		assert.NoError(t, err)
		assert.Len(t, messages, 1)
		if i == 0 {
			assert.Len(t, messages[0], 3+pixels*4)
		} else {
			// an unchanged frame is an empty patch
			assert.Equal(t, FramePatch, messages[0][0])
		}
	}
}

func TestEncoder_InvalidFrame(t *testing.T) {
	_, err := newEncoder().encode([]byte{1, 2, 3}, defaultSettings())
	assert.Error(t, err)
}

func TestEncoder_Sync(t *testing.T) {
	e := newEncoder()
	_, err := e.encode(solidFrame(7, 7, 7), defaultSettings())
	assert.NoError(t, err)

	messages, err := e.sync()
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	assert.Equal(t, FrameCacheSync, messages[0][0])
	assert.True(t, len(messages[0]) > 7)
	assert.Equal(t, []byte{PatchCacheSync}, messages[1])
	assert.Equal(t, FrameSync, messages[2][0])
	assert.Equal(t, []byte{7, 7, 7, 0xFF}, decompress(t, messages[2][1:])[:4])
}
