// Package core provides the leaf types of the card engine: cards, arrows,
// directions, players and the RNG capability. It has no dependencies on the
// board or the game controller so it can be shared by battle systems.
package core

// Stat is a 4-bit card stat (0-15).
type Stat uint8

// MaxStat is the largest value a stat nibble can hold.
const MaxStat Stat = 0xF

// Range returns the closed interval a stat's real value is sampled from.
func (s Stat) Range() (lo, hi int) {
	lo = int(s) << 4
	return lo, lo | 0xF
}

// CardType decides which stats a card uses when it attacks.
type CardType uint8

const (
	Physical CardType = iota
	Magical
	Exploit
	Assault
)

// String returns the single-letter notation for the type.
func (t CardType) String() string {
	switch t {
	case Physical:
		return "P"
	case Magical:
		return "M"
	case Exploit:
		return "X"
	case Assault:
		return "A"
	default:
		return "?"
	}
}

// Player identifies one of the two sides.
type Player uint8

const (
	P1 Player = iota
	P2
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == P1 {
		return P2
	}
	return P1
}

// String returns "p1" or "p2".
func (p Player) String() string {
	switch p {
	case P1:
		return "p1"
	case P2:
		return "p2"
	default:
		return "p?"
	}
}

// Direction is one of the 8 compass directions, clockwise from Up.
type Direction uint8

const (
	Up Direction = iota
	UpRight
	Right
	DownRight
	Down
	DownLeft
	Left
	UpLeft
)

// NumDirections is the number of compass directions.
const NumDirections = 8

// AllDirections lists every direction in processing order.
var AllDirections = [NumDirections]Direction{Up, UpRight, Right, DownRight, Down, DownLeft, Left, UpLeft}

// Opposite returns the direction rotated by 180 degrees.
func (d Direction) Opposite() Direction {
	return (d + 4) % NumDirections
}

// Delta returns the column and row offsets for one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case UpRight:
		return 1, -1
	case Right:
		return 1, 0
	case DownRight:
		return 1, 1
	case Down:
		return 0, 1
	case DownLeft:
		return -1, 1
	case Left:
		return -1, 0
	case UpLeft:
		return -1, -1
	default:
		panic("core: invalid direction")
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "U"
	case UpRight:
		return "UR"
	case Right:
		return "R"
	case DownRight:
		return "DR"
	case Down:
		return "D"
	case DownLeft:
		return "DL"
	case Left:
		return "L"
	case UpLeft:
		return "UL"
	default:
		return "?"
	}
}

// Arrows is a bitmask of directions a card points to.
// Bit 7 is Up and bit 0 is UpLeft, so the mask reads clockwise from the top.
type Arrows uint8

// ArrowsNone and ArrowsAll are the empty and full masks.
const (
	ArrowsNone Arrows = 0x00
	ArrowsAll  Arrows = 0xFF
)

// ArrowOf returns the single-bit mask for d.
func ArrowOf(d Direction) Arrows {
	return Arrows(0x80 >> d)
}

// ArrowsOf builds a mask from a list of directions.
func ArrowsOf(dirs ...Direction) Arrows {
	var a Arrows
	for _, d := range dirs {
		a |= ArrowOf(d)
	}
	return a
}

// PointsTo reports whether the mask has an arrow toward d.
func (a Arrows) PointsTo(d Direction) bool {
	return a&ArrowOf(d) != 0
}

// Directions returns the directions set in the mask, in processing order.
func (a Arrows) Directions() []Direction {
	dirs := make([]Direction, 0, NumDirections)
	for _, d := range AllDirections {
		if a.PointsTo(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Card is an immutable stat set plus its arrows. Ownership lives in the
// game's card table.
type Card struct {
	Attack          Stat
	Type            CardType
	PhysicalDefense Stat
	MagicalDefense  Stat
	Arrows          Arrows
}

// PointsTo reports whether the card has an arrow toward d.
func (c Card) PointsTo(d Direction) bool {
	return c.Arrows.PointsTo(d)
}
