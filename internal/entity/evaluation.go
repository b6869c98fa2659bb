package entity

// ScoredMove - a move with its minimax score.
type ScoredMove struct {
	Move  Move `json:"move"`
	Score int  `json:"score"`
}

// EvaluationNode - one computer candidate and the human replies to it.
// Only two levels are ever built: candidates and their immediate replies.
type EvaluationNode struct {
	Move     Move             `json:"move"`
	Board    Board            `json:"board"`
	Score    int              `json:"score"`
	Children []EvaluationNode `json:"children,omitempty"`
}

// MoveRecord - what the computer saw and chose on one of its turns.
type MoveRecord struct {
	MoveNumber int              `json:"move_number"`
	Board      Board            `json:"board"`
	Move       Move             `json:"best_move"`
	Score      int              `json:"best_score"`
	Candidates []EvaluationNode `json:"candidates"`
}

// Scores - flat view of the evaluated candidates.
func (that *MoveRecord) Scores() []ScoredMove {
	scores := make([]ScoredMove, 0, len(that.Candidates))
	for _, node := range that.Candidates {
		scores = append(scores, ScoredMove{Move: node.Move, Score: node.Score})
	}

	return scores
}
