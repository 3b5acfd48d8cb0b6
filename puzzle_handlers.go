package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BlueberryTheta/wordGame/internal/scoring"
	"github.com/BlueberryTheta/wordGame/internal/types"
)

// puzzleStateHandler returns today's puzzle hints without the word.
func (app *App) puzzleStateHandler(c *gin.Context) {
	force := app.forceRequested(c)
	if force {
		app.Game.Words.Puzzle.ResetCache()
	}
	view, err := app.Game.Puzzle.State(c.Request.Context(), force, c.Query("salt"))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}

	qas := view.State.QAs
	if qas == nil {
		qas = []types.QA{}
	}
	c.JSON(http.StatusOK, types.PuzzleStateResponse{
		StateResponse: types.StateResponse{
			DayKey:      view.Day,
			WordLength:  len(view.Word),
			WordVersion: view.State.WordVersion,
		},
		RevealedMask: scoring.MaskFromIndices(view.Word, view.State.RevealedIndices),
		QAs:          qas,
	})
}

// puzzleGuessHandler scores a guess against the puzzle word.
func (app *App) puzzleGuessHandler(c *gin.Context) {
	app.scoreGuess(c, app.Game.Words.Puzzle)
}

// puzzleRevealHandler gives the puzzle word away.
func (app *App) puzzleRevealHandler(c *gin.Context) {
	_, word, ok := app.lookupWord(c, app.Game.Words.Puzzle, c.Query("day"), false, "")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.RevealResponse{Word: word})
}
