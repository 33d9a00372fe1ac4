package lookup

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ticket identifies one search. Only the newest ticket handed out by a Board
// may change its state.
type Ticket struct {
	ID         string
	RollNumber string
	IssuedAt   time.Time
}

// Board holds the search state of one browser session
type Board struct {
	mu      sync.Mutex
	current string
	state   State
}

// NewBoard creates a board in the Idle state
func NewBoard() *Board {
	return &Board{state: Idle{}}
}

// Begin starts a search for rollNumber. The returned ticket becomes the
// current one and any earlier ticket is superseded.
func (b *Board) Begin(rollNumber string) Ticket {
	ticket := Ticket{
		ID:         uuid.New().String(),
		RollNumber: rollNumber,
		IssuedAt:   time.Now(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = ticket.ID
	b.state = Loading{RollNumber: rollNumber}
	return ticket
}

// Resolve stores the outcome of the search identified by ticket. It returns
// false and leaves the board untouched when ticket has been superseded.
func (b *Board) Resolve(ticket Ticket, state State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ticket.ID == "" || ticket.ID != b.current {
		return false
	}
	b.state = state
	return true
}

// IsCurrent reports whether ticket is the newest search
func (b *Board) IsCurrent(ticket Ticket) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ticket.ID != "" && ticket.ID == b.current
}

// Current returns the state of the newest search
func (b *Board) Current() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset returns the board to Idle and invalidates any outstanding ticket
func (b *Board) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = ""
	b.state = Idle{}
}
