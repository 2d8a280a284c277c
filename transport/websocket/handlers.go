package websocket

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

// handleConnect - binds a player identity to the connection, issuing a new one when none is given.
func (that *Server) handleConnect(_ context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleConnect")

	playerID := payload.PlayerID
	if playerID == "" {
		playerID = pkg.GenerateNewSessionID()
	}

	c.setPlayerID(playerID)
	c.sendMessage(actionConnect, Payload{PlayerID: playerID})

	log.Info("successfully connected player", "playerID", playerID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, c *client, _ Payload) error {
	log := that.logger.With("method", "handleNewGame")

	playerID := c.getPlayerID()
	if playerID == "" {
		c.sendError(actionNew, "Player is required")
		return nil
	}

	game, err := that.gameUseCase.CreateGame(ctx, playerID)
	if err != nil {
		c.sendError(actionNew, errorText(err))
		return fmt.Errorf("failed to create game: %w", err)
	}

	c.sendMessage(actionNew, gamePayload(game, playerID))

	if err = that.watch(ctx, c, game.ID); err != nil {
		return err
	}

	log.Info("game created", "gameID", game.ID, "playerID", playerID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleJoinGame")

	playerID := c.getPlayerID()
	if playerID == "" {
		c.sendError(actionJoin, "Player is required")
		return nil
	}

	if payload.GameID == "" {
		c.sendError(actionJoin, "Game is required")
		return nil
	}

	log = log.With("gameID", payload.GameID, "playerID", playerID)

	game, err := that.gameUseCase.JoinGame(ctx, payload.GameID, playerID)
	if err != nil {
		log.Info("join rejected", "error", err)
		c.sendError(actionJoin, errorText(err))
		return nil
	}

	c.sendMessage(actionJoin, gamePayload(game, playerID))

	if err = that.watch(ctx, c, game.ID); err != nil {
		return err
	}

	log.Info("player joined game")

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleStartGame")

	playerID := c.getPlayerID()
	if playerID == "" || payload.GameID == "" {
		c.sendError(actionStart, "Player and game are required")
		return nil
	}

	game, err := that.gameUseCase.StartGame(ctx, payload.GameID, playerID)
	if err != nil {
		log.Info("start rejected", "gameID", payload.GameID, "error", err)
		c.sendError(actionStart, errorText(err))
		return nil
	}

	c.sendMessage(actionStart, gamePayload(game, playerID))

	log.Info("game started", "gameID", game.ID)

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, c *client, payload Payload) error {
	log := that.logger.With("method", "handleGameTurn")

	playerID := c.getPlayerID()
	if playerID == "" || payload.GameID == "" {
		c.sendError(actionTurn, "Player and game are required")
		return nil
	}

	if payload.Cell == nil {
		c.sendError(actionTurn, "Cell is required")
		return nil
	}

	log = log.With("gameID", payload.GameID, "playerID", playerID, "cell", *payload.Cell)

	game, err := that.gameUseCase.MakeTurn(ctx, payload.GameID, playerID, *payload.Cell)
	if err != nil {
		log.Info("turn rejected", "error", err)
		c.sendError(actionTurn, errorText(err))
		return nil
	}

	c.sendMessage(actionTurn, gamePayload(game, playerID))

	log.Info("player made a turn")

	return nil
}

// handleWatchGame - streams every accepted change of a game to the connection, spectators included.
func (that *Server) handleWatchGame(ctx context.Context, c *client, payload Payload) error {
	if payload.GameID == "" {
		c.sendError(actionWatch, "Game is required")
		return nil
	}

	game, err := that.gameUseCase.GetGame(ctx, payload.GameID)
	if err != nil {
		c.sendError(actionWatch, errorText(err))
		return nil
	}

	if err = that.watch(ctx, c, game.ID); err != nil {
		return err
	}

	c.sendMessage(actionWatch, gamePayload(game, c.getPlayerID()))

	return nil
}

// watch - forwards published snapshots of the game until the connection closes.
func (that *Server) watch(ctx context.Context, c *client, gameID string) error {
	if !c.startWatching(gameID) {
		return nil
	}

	updates, err := that.gameUseCase.Subscribe(ctx, gameID)
	if err != nil {
		c.sendError(actionWatch, errorText(err))
		return fmt.Errorf("failed to subscribe to game %s: %w", gameID, err)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		for game := range updates {
			c.sendMessage(actionUpdate, gamePayload(game, c.getPlayerID()))
		}
	}()

	return nil
}
