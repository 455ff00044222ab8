// Package cheats implements Game Genie and GameShark codes.
//
// A Game Genie sits between the cartridge and the console and replaces
// the byte read from a ROM address. A GameShark writes its values into
// RAM once per frame. Cheat files group codes under a name:
//
//	# Infinite lives
//	00A-17B-C49
//	010138CD
package cheats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidCode is returned for a code that is neither a Game Genie
// nor a GameShark code.
var ErrInvalidCode = errors.New("invalid cheat code")

// Cheat is a named group of codes, enabled or disabled together.
type Cheat struct {
	Name    string
	Enabled bool

	genie []GameGenieCode
	shark []GameSharkCode
}

// Codes returns the number of codes of the cheat.
func (c *Cheat) Codes() int {
	return len(c.genie) + len(c.shark)
}

// Set holds the cheats loaded for a game.
type Set struct {
	cheats []*Cheat
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Add parses code and adds it to the cheat called name, creating an
// enabled cheat if there is none.
func (s *Set) Add(name, code string) error {
	code = strings.TrimSpace(code)
	c := s.cheat(name)

	switch len(code) {
	case gameGenieLength:
		g, err := ParseGameGenie(code)
		if err != nil {
			return err
		}
		c.genie = append(c.genie, g)
	case gameSharkLength:
		g, err := ParseGameShark(code)
		if err != nil {
			return err
		}
		c.shark = append(c.shark, g)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return nil
}

func (s *Set) cheat(name string) *Cheat {
	for _, c := range s.cheats {
		if c.Name == name {
			return c
		}
	}
	c := &Cheat{Name: name, Enabled: true}
	s.cheats = append(s.cheats, c)
	return c
}

// Load reads a cheat file. Codes before the first name line are
// grouped under an empty name.
func (s *Set) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	name := ""
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
		case strings.HasPrefix(text, "#"):
			name = strings.TrimSpace(text[1:])
		default:
			if err := s.Add(name, text); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading cheats: %w", err)
	}
	return nil
}

// Cheats returns the cheats of the set in the order they were added.
func (s *Set) Cheats() []*Cheat {
	return s.cheats
}

// Enable enables or disables every cheat called name, reporting
// whether there was one.
func (s *Set) Enable(name string, enabled bool) bool {
	found := false
	for _, c := range s.cheats {
		if c.Name == name {
			c.Enabled = enabled
			found = true
		}
	}
	return found
}

// Patch returns the value a read of the ROM address addr yields with
// the enabled Game Genie codes applied.
func (s *Set) Patch(addr uint16, value uint8) uint8 {
	for _, c := range s.cheats {
		if !c.Enabled {
			continue
		}
		for _, g := range c.genie {
			if g.Address == addr && g.OldData == value {
				return g.NewData
			}
		}
	}
	return value
}

// Apply writes the values of the enabled GameShark codes.
func (s *Set) Apply(write func(addr uint16, value uint8)) {
	for _, c := range s.cheats {
		if !c.Enabled {
			continue
		}
		for _, g := range c.shark {
			write(g.Address, g.NewData)
		}
	}
}
