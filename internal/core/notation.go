package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCard parses the compact card notation "<att><type><phy><mag>@<arrows>",
// e.g. "8X35@A1". Stats are single hex digits, the type is one of P/M/X/A
// (case-insensitive) and arrows are a hex byte. The "@<arrows>" suffix is
// optional and defaults to no arrows.
func ParseCard(s string) (Card, error) {
	stats, arrows, hasArrows := strings.Cut(strings.TrimSpace(s), "@")
	if len(stats) != 4 {
		return Card{}, fmt.Errorf("card %q: stats must be 4 characters", s)
	}

	att, err := parseStat(stats[0])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: attack: %w", s, err)
	}
	typ, err := parseType(stats[1])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	phy, err := parseStat(stats[2])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: physical defense: %w", s, err)
	}
	mag, err := parseStat(stats[3])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: magical defense: %w", s, err)
	}

	card := Card{Attack: att, Type: typ, PhysicalDefense: phy, MagicalDefense: mag}
	if hasArrows {
		v, err := strconv.ParseUint(arrows, 16, 8)
		if err != nil {
			return Card{}, fmt.Errorf("card %q: arrows: %w", s, err)
		}
		card.Arrows = Arrows(v)
	}
	return card, nil
}

// MustParseCard is ParseCard for literals; it panics on error.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the card in ParseCard notation.
func (c Card) String() string {
	return fmt.Sprintf("%X%s%X%X@%02X", c.Attack, c.Type, c.PhysicalDefense, c.MagicalDefense, uint8(c.Arrows))
}

func parseStat(b byte) (Stat, error) {
	v, err := strconv.ParseUint(string(b), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid stat digit %q", b)
	}
	return Stat(v), nil
}

func parseType(b byte) (CardType, error) {
	switch b {
	case 'p', 'P':
		return Physical, nil
	case 'm', 'M':
		return Magical, nil
	case 'x', 'X':
		return Exploit, nil
	case 'a', 'A':
		return Assault, nil
	default:
		return 0, fmt.Errorf("invalid card type %q", b)
	}
}
