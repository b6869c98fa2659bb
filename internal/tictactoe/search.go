package tictactoe

import (
	"errors"
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
)

const winScore = 10

const (
	// DepthWeighted scores a win as 10-depth, preferring faster wins and slower losses.
	DepthWeighted Scoring = iota
	// Fixed scores every win as 10 regardless of depth.
	Fixed
)

var ErrUnknownScoring = errors.New("unknown scoring")

type Scoring int

func ParseScoring(value string) (Scoring, error) {
	switch value {
	case "", "depth":
		return DepthWeighted, nil
	case "fixed":
		return Fixed, nil
	default:
		return DepthWeighted, fmt.Errorf("%w: %q", ErrUnknownScoring, value)
	}
}

func (that Scoring) String() string {
	if that == Fixed {
		return "fixed"
	}

	return "depth"
}

// Decision - result of one search from O's point of view. The applied move and
// the evaluation digest shown to the player both come from here.
type Decision struct {
	Board      entity.Board            `json:"board"`
	Move       entity.Move             `json:"best_move"`
	Score      int                     `json:"score"`
	Candidates []entity.EvaluationNode `json:"candidates"`
}

func (that *Decision) Record(moveNumber int) entity.MoveRecord {
	return entity.MoveRecord{
		MoveNumber: moveNumber,
		Board:      that.Board,
		Move:       that.Move,
		Score:      that.Score,
		Candidates: that.Candidates,
	}
}

// Engine - exhaustive minimax without pruning. It never mutates its input.
type Engine struct {
	scoring Scoring
}

func NewEngine(scoring Scoring) *Engine {
	return &Engine{scoring: scoring}
}

func (that *Engine) Scoring() Scoring {
	return that.scoring
}

// Evaluate - minimax value of the board with sideToMove to play. O maximizes,
// X minimizes; depth is counted from this board.
func (that *Engine) Evaluate(board entity.Board, sideToMove entity.Mark) int {
	return that.minimax(board, sideToMove, 0)
}

// BestMove - the computer's move, or entity.NoMove when the game is over.
func (that *Engine) BestMove(board entity.Board) entity.Move {
	decision := that.Decide(board)
	return decision.Move
}

// Decide searches every O move and, for each, every immediate X reply.
// Ties keep the lowest cell index.
func (that *Engine) Decide(board entity.Board) Decision {
	if score, ok := that.terminalScore(board, 0); ok {
		return Decision{Board: board, Move: entity.NoMove, Score: score}
	}

	moves := AvailableMoves(board)
	decision := Decision{
		Board:      board,
		Move:       entity.NoMove,
		Score:      math.MinInt,
		Candidates: make([]entity.EvaluationNode, 0, len(moves)),
	}

	for _, move := range moves {
		node := that.candidate(board, move)
		decision.Candidates = append(decision.Candidates, node)

		if node.Score > decision.Score {
			decision.Move = move
			decision.Score = node.Score
		}
	}

	return decision
}

// candidate - O plays move; the node value is the minimum over X's replies,
// which equals Evaluate(after, X).
func (that *Engine) candidate(board entity.Board, move entity.Move) entity.EvaluationNode {
	after := board.With(move, entity.MarkO)
	node := entity.EvaluationNode{Move: move, Board: after}

	if score, ok := that.terminalScore(after, 0); ok {
		node.Score = score
		return node
	}

	replies := AvailableMoves(after)
	node.Score = math.MaxInt
	node.Children = make([]entity.EvaluationNode, 0, len(replies))

	for _, reply := range replies {
		next := after.With(reply, entity.MarkX)
		score := that.minimax(next, entity.MarkO, 1)

		node.Children = append(node.Children, entity.EvaluationNode{Move: reply, Board: next, Score: score})
		if score < node.Score {
			node.Score = score
		}
	}

	return node
}

func (that *Engine) minimax(board entity.Board, side entity.Mark, depth int) int {
	if score, ok := that.terminalScore(board, depth); ok {
		return score
	}

	maximizing := side == entity.MarkO

	best := math.MaxInt
	if maximizing {
		best = math.MinInt
	}

	for _, move := range AvailableMoves(board) {
		score := that.minimax(board.With(move, side), Opponent(side), depth+1)

		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}

	return best
}

func (that *Engine) terminalScore(board entity.Board, depth int) (int, bool) {
	switch Winner(board) {
	case entity.MarkO:
		return that.winValue(depth), true
	case entity.MarkX:
		return -that.winValue(depth), true
	}

	if IsFull(board) {
		return 0, true
	}

	return 0, false
}

func (that *Engine) winValue(depth int) int {
	if that.scoring == Fixed {
		return winScore
	}

	return winScore - depth
}
