package grammar

import (
	"fmt"
	"strings"
)

// LR0Item is (lhs, rhs split at the dot). Items are value-equal and
// hashable via String(), following the teacher's item-as-string-key idiom
// (ictiobus/grammar/item.go) so item sets can be canonicalized as plain Go
// maps keyed by String().
type LR0Item struct {
	NonTerminal string
	Left        []string // symbols already matched, before the dot
	Right       []string // symbols still to match, after the dot
}

func (it LR0Item) String() string {
	left := strings.Join(it.Left, " ")
	right := strings.Join(it.Right, " ")
	if left != "" {
		left += " "
	}
	if right != "" {
		right = " " + right
	}
	return fmt.Sprintf("%s -> %s.%s", it.NonTerminal, left, right)
}

// AtEnd reports whether the dot has reached the end of the production.
func (it LR0Item) AtEnd() bool {
	return len(it.Right) == 0
}

// NextSymbol returns the symbol immediately after the dot, and whether one
// exists.
func (it LR0Item) NextSymbol() (string, bool) {
	if it.AtEnd() {
		return "", false
	}
	return it.Right[0], true
}

// Advance returns the item with the dot moved one position to the right,
// past the given symbol (caller must ensure it matches NextSymbol).
func (it LR0Item) Advance() LR0Item {
	newLeft := make([]string, len(it.Left)+1)
	copy(newLeft, it.Left)
	newLeft[len(it.Left)] = it.Right[0]
	return LR0Item{
		NonTerminal: it.NonTerminal,
		Left:        newLeft,
		Right:       append([]string(nil), it.Right[1:]...),
	}
}

// LR1Item augments an LR0Item with a single lookahead terminal.
type LR1Item struct {
	LR0Item
	Lookahead string
}

func (it LR1Item) String() string {
	return fmt.Sprintf("%s, %s", it.LR0Item.String(), it.Lookahead)
}

func (it LR1Item) Advance() LR1Item {
	return LR1Item{LR0Item: it.LR0Item.Advance(), Lookahead: it.Lookahead}
}
