package main

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/generator"
	"github.com/BlueberryTheta/wordGame/internal/scoring"
	"github.com/BlueberryTheta/wordGame/internal/types"
	"github.com/BlueberryTheta/wordGame/internal/wotd"
)

// fail aborts with a JSON error. err, when set, is logged with the request.
func fail(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: msg})
}

// authorized reports whether the request carries the admin token. With no
// token configured nothing is authorized.
func (app *App) authorized(c *gin.Context) bool {
	if app.AdminToken == "" {
		return false
	}
	token := c.Query("token")
	if token == "" {
		token = c.GetHeader(AdminTokenHeader)
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(app.AdminToken)) == 1
}

// forceRequested is true for ?force=1 from an admin.
func (app *App) forceRequested(c *gin.Context) bool {
	if c.Query("force") != "1" {
		return false
	}
	if !app.authorized(c) {
		zerolog.Ctx(c.Request.Context()).Warn().Msg("Ignoring force without a valid admin token")
		return false
	}
	return true
}

// lookupWord resolves the word of day (today when empty) for coord. On
// failure the response is already written and ok is false.
func (app *App) lookupWord(c *gin.Context, coord *wotd.Coordinator, day string, force bool, salt string) (string, string, bool) {
	ctx := c.Request.Context()
	if day != "" {
		if _, err := app.Game.Days.Parse(day); err != nil {
			fail(c, http.StatusBadRequest, ErrorInvalidDay, nil)
			return "", "", false
		}
	}

	var word string
	var err error
	if force {
		coord.ResetCache()
		day = coord.Day()
		word, err = coord.Word(ctx, true, salt)
	} else {
		if day == "" {
			day = coord.Day()
		}
		word, err = coord.WordForDay(ctx, day)
	}
	switch {
	case errors.Is(err, wotd.ErrNoWordForDay):
		fail(c, http.StatusNotFound, ErrorNoWordForDay, nil)
		return "", "", false
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrorInternal, err)
		return "", "", false
	}
	return day, word, true
}

// stateHandler returns the length and version of the main word.
func (app *App) stateHandler(c *gin.Context) {
	force := app.forceRequested(c)
	day, word, ok := app.lookupWord(c, app.Game.Words.Main, c.Query("day"), force, c.Query("salt"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.StateResponse{
		DayKey:      day,
		WordLength:  len(word),
		WordVersion: app.Game.Version(day, word),
	})
}

// revealHandler gives the main word away.
func (app *App) revealHandler(c *gin.Context) {
	_, word, ok := app.lookupWord(c, app.Game.Words.Main, c.Query("day"), false, "")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, types.RevealResponse{Word: word})
}

// questionHandler answers a question about the main word.
func (app *App) questionHandler(c *gin.Context) {
	var req types.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		fail(c, http.StatusBadRequest, ErrorMissingQuestion, nil)
		return
	}
	question := strings.TrimSpace(req.Question)
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		fail(c, http.StatusBadRequest, ErrorQuestionTooLong, nil)
		return
	}

	_, word, ok := app.lookupWord(c, app.Game.Words.Main, req.Day, false, "")
	if !ok {
		return
	}

	answer, err := app.Game.Generator.AnswerQuestion(c.Request.Context(), word, question)
	switch {
	case errors.Is(err, generator.ErrUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrorAIUnavailable, nil)
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrorInternal, err)
		return
	}
	c.JSON(http.StatusOK, types.AnswerResponse{Answer: answer})
}

// guessHandler scores a guess against the main word.
func (app *App) guessHandler(c *gin.Context) {
	app.scoreGuess(c, app.Game.Words.Main)
}

// scoreGuess validates the request body before the word is read, so an
// invalid guess never touches the store.
func (app *App) scoreGuess(c *gin.Context, coord *wotd.Coordinator) {
	var req types.GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrorMissingGuess, nil)
		return
	}
	guess, err := scoring.Validate(req.Guess)
	switch {
	case errors.Is(err, scoring.ErrMissingGuess):
		fail(c, http.StatusBadRequest, ErrorMissingGuess, nil)
		return
	case err != nil:
		fail(c, http.StatusBadRequest, ErrorNotAWord, nil)
		return
	}
	if !app.Game.Generator.IsValidEnglishWord(c.Request.Context(), guess) {
		fail(c, http.StatusBadRequest, ErrorNotAWord, nil)
		return
	}

	_, word, ok := app.lookupWord(c, coord, req.Day, false, "")
	if !ok {
		return
	}

	res := scoring.Score(word, guess)
	if res.Correct {
		c.JSON(http.StatusOK, types.GuessResponse{Correct: true, Word: word})
		return
	}
	c.JSON(http.StatusOK, types.GuessResponse{
		GuessHints: &types.GuessHints{
			RevealedMask:    res.RevealedMask,
			LettersInCommon: res.LettersInCommon,
		},
	})
}

// rollHandler forces a new main word for today.
func (app *App) rollHandler(c *gin.Context) {
	if !app.authorized(c) {
		fail(c, http.StatusForbidden, ErrorForbidden, nil)
		return
	}
	salt := c.Query("salt")
	if salt == "" {
		salt = uuid.NewString()
	}

	day, word, ok := app.lookupWord(c, app.Game.Words.Main, "", true, salt)
	if !ok {
		return
	}
	zerolog.Ctx(c.Request.Context()).Info().Str("day", day).Msg("Word rerolled by admin")
	c.JSON(http.StatusOK, types.RollResponse{
		DayKey:      day,
		Word:        word,
		WordVersion: app.Game.Version(day, word),
	})
}

// healthHandler reports service health.
func (app *App) healthHandler(c *gin.Context) {
	resp := types.HealthResponse{
		Status:    "ok",
		Env:       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		Store:     app.Game.Store.Backend(),
		Generator: string(app.Game.Generator.Backend()),
		DayKey:    app.Game.Words.Main.Day(),
		Uptime:    formatUptime(time.Since(app.StartTime)),
		Timestamp: time.Now().Unix(),
	}
	status := http.StatusOK
	if err := app.Game.Store.Ping(c.Request.Context()); err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Store ping failed")
		resp.Status = "degraded"
		resp.Error = "store unreachable"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
