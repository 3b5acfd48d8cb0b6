package main

import "time"

// Limits
const (
	MaxQuestionLength = 100
	StaticCacheAge    = 5 * time.Minute
	ShutdownTimeout   = 10 * time.Second
)

// Route constants
const (
	RouteHealth        = "/healthz"
	RouteState         = "/api/state"
	RouteReveal        = "/api/reveal"
	RouteQuestion      = "/api/question"
	RouteGuess         = "/api/guess"
	RouteRoll          = "/api/roll"
	RoutePuzzleState   = "/api/puzzle/state"
	RoutePuzzleGuess   = "/api/puzzle/guess"
	RoutePuzzleReveal  = "/api/puzzle/reveal"
	RouteStatic        = "/static"
	AdminTokenHeader   = "X-Admin-Token"
	RequestIDHeader    = "X-Request-Id"
	rateLimitedMessage = "Too many requests. Please slow down."
)

// Error message constants. Clients match on these.
const (
	ErrorMissingQuestion = "Missing question"
	ErrorQuestionTooLong = "Question too long"
	ErrorAIUnavailable   = "AI unavailable"
	ErrorMissingGuess    = "Missing guess"
	ErrorNotAWord        = "not a word"
	ErrorForbidden       = "forbidden"
	ErrorInvalidDay      = "invalid day"
	ErrorNoWordForDay    = "no word for day"
	ErrorInternal        = "Something went wrong. Please try again."
)
