package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

var errInvalidMark = errors.New("invalid mark")

type Handlers struct {
	logger   *slog.Logger
	history  historyReader
	analyzer boardAnalyzer
}

func NewHandlers(logger *slog.Logger, history historyReader, analyzer boardAnalyzer) *Handlers {
	return &Handlers{
		logger:   logger,
		history:  history,
		analyzer: analyzer,
	}
}

type analyzeRequest struct {
	Board entity.Board `json:"board"`
}

type analyzeResponse struct {
	Board          entity.Board            `json:"board"`
	Winner         entity.Mark             `json:"winner,omitempty"`
	Draw           bool                    `json:"draw"`
	AvailableMoves []entity.Move           `json:"available_moves"`
	BestMove       entity.Move             `json:"best_move"`
	Score          int                     `json:"score"`
	Candidates     []entity.EvaluationNode `json:"candidates"`
}

type historyResponse struct {
	PlayerID string              `json:"player_id"`
	Records  []entity.MoveRecord `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Analyze - rules and search digest for a board, with O to move. Stateless.
func (that *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, fmt.Errorf("failed to decode board: %w", err))
		return
	}

	if err := validateBoard(req.Board); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	decision := that.analyzer.Analyze(req.Board)

	that.writeJSON(w, http.StatusOK, analyzeResponse{
		Board:          req.Board,
		Winner:         tictactoe.Winner(req.Board),
		Draw:           tictactoe.IsDraw(req.Board),
		AvailableMoves: tictactoe.AvailableMoves(req.Board),
		BestMove:       decision.Move,
		Score:          decision.Score,
		Candidates:     decision.Candidates,
	})
}

// History - computer decisions of the player's current game.
func (that *Handlers) History(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")

	records, err := that.history.History(r.Context(), playerID)
	switch {
	case errors.Is(err, repository.ErrPlayerNotFound), errors.Is(err, apperror.ErrNoActiveGames):
		that.writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		that.logger.Error("failed to get history", "playerID", playerID, "error", err)
		that.writeError(w, http.StatusInternalServerError, errors.New("failed to get history"))
		return
	}

	if records == nil {
		records = []entity.MoveRecord{}
	}

	that.writeJSON(w, http.StatusOK, historyResponse{
		PlayerID: playerID,
		Records:  records,
	})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func validateBoard(board entity.Board) error {
	for i, mark := range board {
		switch mark {
		case entity.MarkX, entity.MarkO, entity.EmptyCell:
		default:
			return fmt.Errorf("%w %q at cell %d", errInvalidMark, mark, i)
		}
	}

	return nil
}
