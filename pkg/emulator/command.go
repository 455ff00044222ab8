// Package emulator defines the packets exchanged between a running
// emulator and the display drivers controlling it.
package emulator

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrUnsupportedCommand is returned in a ResponsePacket when the
// emulator does not implement a command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// CommandPacket is a command packet that is sent to the
// emulator to control it.
type CommandPacket struct {
	Command Command
	Data    []byte
}

// Command is a command that is sent to the emulator to
// control it.
type Command int

// ResponsePacket is a response packet that is sent
// from the emulator to the client.
type ResponsePacket struct {
	Command Command
	Data    []byte
	Error   error
}

const (
	// CommandPause pauses the emulator.
	CommandPause Command = iota
	// CommandResume resumes the emulator.
	CommandResume
	// CommandClose closes the emulator.
	CommandClose
	// CommandReset resets the emulator.
	CommandReset
	// CommandLoadROM loads a ROM into the emulator.
	CommandLoadROM
	// CommandLoadSave loads a save file into the emulator.
	CommandLoadSave
	// CommandSetSpeed sets the speed of the emulator. Data holds
	// the multiplier as a little endian float64.
	CommandSetSpeed
)

var commandNames = map[Command]string{
	CommandPause:    "Pause",
	CommandResume:   "Resume",
	CommandClose:    "Close",
	CommandReset:    "Reset",
	CommandLoadROM:  "LoadROM",
	CommandLoadSave: "LoadSave",
	CommandSetSpeed: "SetSpeed",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// SetSpeed returns the packet setting the speed multiplier.
func SetSpeed(speed float64) CommandPacket {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(speed))
	return CommandPacket{Command: CommandSetSpeed, Data: data}
}

// ParseSpeed decodes the Data of a CommandSetSpeed packet. The speed
// must be a positive, finite number.
func ParseSpeed(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid speed payload length %d", len(data))
	}
	speed := math.Float64frombits(binary.LittleEndian.Uint64(data))
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return 0, fmt.Errorf("invalid speed %v", speed)
	}
	return speed, nil
}
