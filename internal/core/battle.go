package core

// StatKind names which of a card's stats took part in a battle.
type StatKind uint8

const (
	StatAttack StatKind = iota
	StatPhysical
	StatMagical
)

func (k StatKind) String() string {
	switch k {
	case StatAttack:
		return "attack"
	case StatPhysical:
		return "physical"
	case StatMagical:
		return "magical"
	default:
		return "unknown"
	}
}

// StatPick is a selected stat and its nibble value.
type StatPick struct {
	Kind  StatKind
	Value Stat
}

// SelectBattleStats picks the attacker's and defender's stats according to
// the attacker's type:
//
//	Physical: attack vs physical defense
//	Magical:  attack vs magical defense
//	Exploit:  attack vs min(physical, magical)
//	Assault:  max(all stats) vs min(all stats)
func SelectBattleStats(attacker, defender Card) (att, def StatPick) {
	switch attacker.Type {
	case Physical:
		return StatPick{StatAttack, attacker.Attack}, StatPick{StatPhysical, defender.PhysicalDefense}
	case Magical:
		return StatPick{StatAttack, attacker.Attack}, StatPick{StatMagical, defender.MagicalDefense}
	case Exploit:
		return StatPick{StatAttack, attacker.Attack}, lowestDefense(defender)
	case Assault:
		return highestStat(attacker), lowestStat(defender)
	default:
		panic("core: invalid card type")
	}
}

func highestStat(c Card) StatPick {
	switch {
	case c.MagicalDefense > c.Attack && c.MagicalDefense > c.PhysicalDefense:
		return StatPick{StatMagical, c.MagicalDefense}
	case c.PhysicalDefense > c.Attack:
		return StatPick{StatPhysical, c.PhysicalDefense}
	default:
		return StatPick{StatAttack, c.Attack}
	}
}

func lowestStat(c Card) StatPick {
	if c.Attack < c.PhysicalDefense && c.Attack < c.MagicalDefense {
		return StatPick{StatAttack, c.Attack}
	}
	return lowestDefense(c)
}

func lowestDefense(c Card) StatPick {
	if c.PhysicalDefense < c.MagicalDefense {
		return StatPick{StatPhysical, c.PhysicalDefense}
	}
	return StatPick{StatMagical, c.MagicalDefense}
}

// Side is the winner of a battle.
type Side uint8

const (
	Defender Side = iota
	Attacker
)

func (s Side) String() string {
	if s == Attacker {
		return "attacker"
	}
	return "defender"
}

// BattleStat records how one side's final value was produced.
type BattleStat struct {
	Pick  StatPick
	Real  int // sampled real value
	Roll  int // amount subtracted from Real
	Final int
}

// Outcome is the result of a single battle.
type Outcome struct {
	Winner  Side
	Attack  BattleStat
	Defense BattleStat
}

// DecideWinner applies the tie policy: the attacker must be strictly greater.
func DecideWinner(attackerFinal, defenderFinal int) Side {
	if attackerFinal > defenderFinal {
		return Attacker
	}
	return Defender
}
