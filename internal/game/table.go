package game

import "github.com/vovakirdan/tetra/internal/core"

// HandSize is the number of cards dealt to each player.
const HandSize = 5

// Hand is the full set of cards dealt to one player.
type Hand = [HandSize]core.Card

// TotalCards is the size of the card table.
const TotalCards = 2 * HandSize

// OwnedCard is a card table entry. Only Owner changes during a game.
type OwnedCard struct {
	Card  core.Card
	Owner core.Player
}

// CardTable holds every card in the game. Player p's hand slot i is card
// id p*HandSize + i, so ids never change for the life of a game.
type CardTable [TotalCards]OwnedCard

// HandCardID returns the card id held in slot i of p's hand.
func HandCardID(p core.Player, i int) CardID {
	return CardID(int(p)*HandSize + i)
}

// owners returns a copy of every card's owner.
func (t *CardTable) owners() [TotalCards]core.Player {
	var o [TotalCards]core.Player
	for i, c := range t {
		o[i] = c.Owner
	}
	return o
}

// mustGet returns the entry for id and panics on an id outside the table.
func (t *CardTable) mustGet(id CardID) *OwnedCard {
	if int(id) >= TotalCards {
		panic("game: card id out of range")
	}
	return &t[id]
}
