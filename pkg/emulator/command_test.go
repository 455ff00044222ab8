package emulator

import (
	"math"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestSetSpeed(t *testing.T) {
	packet := SetSpeed(2.5)
	assert.Equal(t, CommandSetSpeed, packet.Command)

	speed, err := ParseSpeed(packet.Data)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, speed)
}

func TestParseSpeed_Invalid(t *testing.T) {
	_, err := ParseSpeed([]byte{1, 2, 3})
	assert.Error(t, err)

	for _, speed := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err = ParseSpeed(SetSpeed(speed).Data)
		assert.Error(t, err)
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "SetSpeed", CommandSetSpeed.String())
	assert.Equal(t, "Command(42)", Command(42).String())
	assert.Equal(t, "Paused", Paused.String())
}
