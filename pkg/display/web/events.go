package web

// Type is the first byte of every message sent to a browser.
type Type = uint8

const (
	// Frame carries a full RGBA frame: cache index (uint16) and data.
	Frame Type = iota
	// FramePatch carries the changed pixels of a frame, all others
	// with a zero alpha: cache index (uint16) and data.
	FramePatch
	// FrameSkip reports the number of unchanged frames (uint32)
	// that were not sent.
	FrameSkip
	// FrameCache repeats the cached frame at the given index.
	FrameCache
	// PatchCache repeats the cached patch at the given index.
	PatchCache
	// FrameCacheSync and PatchCacheSync send a joining client the
	// content of the caches, as (uint32 length, uint16 index,
	// data) records.
	FrameCacheSync
	PatchCacheSync
	// FrameSync sends a joining client the current frame.
	FrameSync
	// ServerInfo reports the latency of every client as (id, uint16
	// milliseconds) pairs.
	ServerInfo
	// Status reports the emulator and hub settings, see driver.info.
	Status
	// Title carries the window title.
	Title
	// CommandError carries the error of a failed command.
	CommandError
	// ClientIdentify tells a joining client its ID.
	ClientIdentify
)

// Event is the first byte of a message received from a browser,
// when it is not a joypad button.
type Event = uint8

const (
	// System changes a setting: [System, Setting, value].
	System Event = 10
	// Command forwards an emulator command: [Command, command, data...].
	Command Event = 11
	// Closing is sent by a browser before it disconnects.
	Closing Event = 255
)

// Setting identifies a hub setting changed by a System message.
type Setting = uint8

const (
	Compression Setting = iota + 1
	CompressionLevel
	FramePatching
	FrameSkipping
)
