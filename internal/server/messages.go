package server

import (
	"github.com/moonhole/holdemlite/internal/game"
	"github.com/moonhole/holdemlite/poker"
)

// Client to server message types.
const (
	MsgJoin   = "join"
	MsgTables = "tables"
	MsgSit    = "sit"
	MsgStand  = "stand"
	MsgAct    = "act"
	MsgStart  = "start"
)

// Server to client message types.
const (
	MsgWelcome   = "welcome"
	MsgTableList = "table_list"
	MsgJoined    = "joined"
	MsgState     = "state"
	MsgHandStart = "hand_start"
	MsgHandEnd   = "hand_end"
	MsgError     = "error"
)

// ClientMessage is any command a client sends. Type selects which fields
// matter.
type ClientMessage struct {
	Type    string `json:"type"`
	Name    string `json:"name,omitempty"`
	TableID string `json:"table_id,omitempty"`
	Chair   int    `json:"chair,omitempty"`
	BuyIn   int64  `json:"buy_in,omitempty"`
	Action  string `json:"action,omitempty"`
	Amount  int64  `json:"amount,omitempty"`
}

// ServerMessage is any push or reply the server sends.
type ServerMessage struct {
	Type     string         `json:"type"`
	Message  string         `json:"message,omitempty"`
	PlayerID uint64         `json:"player_id,omitempty"`
	TableID  string         `json:"table_id,omitempty"`
	Tables   []TableSummary `json:"tables,omitempty"`
	State    *TableState    `json:"state,omitempty"`
	Result   *HandResult    `json:"result,omitempty"`
}

// TableSummary is the lobby line for one table.
type TableSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SmallBlind int64  `json:"small_blind"`
	BigBlind   int64  `json:"big_blind"`
	MaxPlayers int    `json:"max_players"`
	Seated     int    `json:"seated"`
}

// TableState is the redacted view of a table for one recipient.
type TableState struct {
	Round       int         `json:"round"`
	Phase       string      `json:"phase"`
	Ended       bool        `json:"ended"`
	DealerChair int         `json:"dealer_chair"`
	ActionChair int         `json:"action_chair"`
	CurBet      int64       `json:"cur_bet"`
	MinRaiseTo  int64       `json:"min_raise_to"`
	Community   []string    `json:"community"`
	Pots        []PotState  `json:"pots"`
	Players     []SeatState `json:"players"`
}

// PotState is one pot.
type PotState struct {
	Amount   int64 `json:"amount"`
	Eligible []int `json:"eligible"`
}

// SeatState is one occupied seat. HoleCards is populated only for the
// recipient's own seat.
type SeatState struct {
	Chair      int      `json:"chair"`
	PlayerID   uint64   `json:"player_id"`
	NPC        bool     `json:"npc"`
	Stack      int64    `json:"stack"`
	Bet        int64    `json:"bet"`
	InHand     bool     `json:"in_hand"`
	Folded     bool     `json:"folded"`
	AllIn      bool     `json:"all_in"`
	LastAction string   `json:"last_action,omitempty"`
	HoleCards  []string `json:"hole_cards,omitempty"`
}

// HandResult is the end-of-hand push. Hole cards appear only for hands that
// went to showdown.
type HandResult struct {
	NoShowdown bool           `json:"no_showdown"`
	Players    []PlayerResult `json:"players"`
	Pots       []PotResult    `json:"pots"`
}

// PlayerResult is one player's showdown line.
type PlayerResult struct {
	Chair     int      `json:"chair"`
	Category  string   `json:"category,omitempty"`
	HoleCards []string `json:"hole_cards,omitempty"`
	BestFive  []string `json:"best_five,omitempty"`
	IsWinner  bool     `json:"is_winner"`
	WinAmount int64    `json:"win_amount"`
}

// PotResult is one pot's distribution.
type PotResult struct {
	Amount     int64   `json:"amount"`
	Winners    []int   `json:"winners"`
	WinAmounts []int64 `json:"win_amounts"`
}

// buildState projects a snapshot for one recipient, hiding every other
// seat's hole cards.
func buildState(snap game.Snapshot, forPlayer uint64) *TableState {
	st := &TableState{
		Round:       snap.Round,
		Phase:       snap.Phase.String(),
		Ended:       snap.Ended,
		DealerChair: snap.DealerChair,
		ActionChair: snap.ActionChair,
		CurBet:      snap.CurBet,
		MinRaiseTo:  snap.CurBet + snap.MinRaiseDelta,
		Community:   poker.CardStrings(snap.Community),
		Pots:        make([]PotState, 0, len(snap.Pots)),
		Players:     make([]SeatState, 0, len(snap.Players)),
	}
	for _, pot := range snap.Pots {
		st.Pots = append(st.Pots, PotState{Amount: pot.Amount, Eligible: pot.Eligible})
	}
	for _, ps := range snap.Players {
		seat := SeatState{
			Chair:    ps.Chair,
			PlayerID: ps.ID,
			NPC:      ps.NPC,
			Stack:    ps.Stack,
			Bet:      ps.Bet,
			InHand:   ps.InHand,
			Folded:   ps.Folded,
			AllIn:    ps.AllIn,
		}
		if ps.LastAction != game.ActionNone {
			seat.LastAction = ps.LastAction.String()
		}
		if ps.ID == forPlayer {
			seat.HoleCards = poker.CardStrings(ps.HoleCards)
		}
		st.Players = append(st.Players, seat)
	}
	return st
}

// buildResult converts a settlement for the wire.
func buildResult(res *game.SettlementResult) *HandResult {
	out := &HandResult{NoShowdown: res.NoShowdown}
	for _, pr := range res.PlayerResults {
		p := PlayerResult{
			Chair:     pr.Chair,
			IsWinner:  pr.IsWinner,
			WinAmount: pr.WinAmount,
		}
		if !res.NoShowdown {
			p.Category = pr.Category.String()
			p.HoleCards = poker.CardStrings(pr.HoleCards)
			p.BestFive = poker.CardStrings(pr.BestFive)
		}
		out.Players = append(out.Players, p)
	}
	for _, pot := range res.PotResults {
		out.Pots = append(out.Pots, PotResult(pot))
	}
	return out
}
