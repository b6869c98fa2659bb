package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
)

const internalErrorMessage = "internal error"

// player-facing errors; anything else is reported as internalErrorMessage
var userErrors = []error{
	apperror.ErrGameFinished,
	apperror.ErrNotYourTurn,
	apperror.ErrNoActiveGames,
	apperror.ErrCellOccupied,
	apperror.ErrInvalidCell,
	apperror.ErrNoAvailableMoves,
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(c, msg.Action, "malformed payload")
	}

	playerID := c.sessionID
	if payloadReq.Player != nil && payloadReq.Player.ID != "" {
		playerID = payloadReq.Player.ID
	}

	player, err := that.manager.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to create or get player", "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to create a new player")
	}

	that.register(player.ID, c)

	payloadResp := Payload{Player: player}

	if player.InGame() {
		game, err := that.manager.GetGame(ctx, player.ID)
		if err != nil {
			log.Warn("failed to get the game of the player", "gameID", player.GameID, "error", err)
		} else {
			payloadResp.Game = game
		}
	}

	if err = c.sendMessage(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("successfully connected player", "playerID", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleNewGame")

	playerID := c.boundPlayer()
	if playerID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	game, err := that.manager.NewGame(ctx, playerID)
	if err != nil {
		log.Error("failed to create game", "playerID", playerID, "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to create a new game")
	}

	return c.sendMessage(msg.Action, Payload{Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, c *client) error {
	log := that.logger.With("method", "handleGameTurn")

	playerID := c.boundPlayer()
	if playerID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(c, msg.Action, "malformed payload")
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(c, msg.Action, "cell is required")
	}

	log = log.With("playerID", playerID, "cell", *payloadReq.Cell)

	game, err := that.manager.HumanTurn(ctx, playerID, *payloadReq.Cell)
	if err != nil {
		return that.sendFailure(c, msg.Action, log, err)
	}

	log.Info("player made a turn", "gameID", game.ID)

	// the reply is queued before the computer may answer, even with no think delay
	if err = c.sendMessage(msg.Action, Payload{Game: game}); err != nil {
		return fmt.Errorf("failed to send turn: %w", err)
	}

	that.manager.ScheduleComputerTurn(game)

	return nil
}

func (that *Server) handleHistory(ctx context.Context, msg *Message, c *client) error {
	playerID := c.boundPlayer()
	if playerID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	records, err := that.manager.History(ctx, playerID)
	if err != nil {
		return that.sendFailure(c, msg.Action, that.logger.With("method", "handleHistory"), err)
	}

	return c.sendMessage(msg.Action, Payload{History: records})
}

func (that *Server) handleAnalyze(ctx context.Context, msg *Message, c *client) error {
	playerID := c.boundPlayer()
	if playerID == "" {
		return that.sendErrorResponse(c, msg.Action, "connect first")
	}

	decision, err := that.manager.Analyze(ctx, playerID)
	if err != nil {
		return that.sendFailure(c, msg.Action, that.logger.With("method", "handleAnalyze"), err)
	}

	return c.sendMessage(msg.Action, Payload{Analysis: decision})
}

// sendFailure - answers with the player-facing reason, or a generic one for
// internal failures, which are logged.
func (that *Server) sendFailure(c *client, action string, log *slog.Logger, err error) error {
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return that.sendErrorResponse(c, action, known.Error())
		}
	}

	log.Error("request failed", "error", err)

	return that.sendErrorResponse(c, action, internalErrorMessage)
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) error {
	if err := c.sendMessage(action, Payload{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return payload, nil
}
