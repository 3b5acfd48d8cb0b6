package types

// Namespaces separate independent word tracks.
const (
	NamespaceMain   = "main"
	NamespacePuzzle = "puzzle"
)

// QA is a pre-computed puzzle question and its answer.
type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// PuzzleState is the per-day pre-computed puzzle hint state.
type PuzzleState struct {
	RevealedIndices []int  `json:"revealedIndices"`
	QAs             []QA   `json:"qas"`
	FormatVersion   int    `json:"formatVersion"`
	WordVersion     string `json:"wordVersion,omitempty"`
}

// StateResponse is returned by the state endpoints.
type StateResponse struct {
	DayKey      string `json:"dayKey"`
	WordLength  int    `json:"wordLength"`
	WordVersion string `json:"wordVersion"`
}

// PuzzleStateResponse extends StateResponse with the puzzle hints.
type PuzzleStateResponse struct {
	StateResponse
	RevealedMask []*string `json:"revealedMask"`
	QAs          []QA      `json:"qas"`
}

// QuestionRequest is the body of a question submission.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Day      string `json:"day"`
}

// GuessRequest is the body of a guess submission.
type GuessRequest struct {
	Guess string `json:"guess" binding:"required"`
	Day   string `json:"day"`
}

// GuessResponse is returned by the guess endpoints. Hints are present only
// for a wrong guess.
type GuessResponse struct {
	Correct bool   `json:"correct"`
	Word    string `json:"word,omitempty"`
	*GuessHints
}

// GuessHints tells which letters a wrong guess shares with the secret.
type GuessHints struct {
	RevealedMask    []*string `json:"revealedMask"`
	LettersInCommon []string  `json:"lettersInCommon"`
}

// AnswerResponse is returned by the question endpoint.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// RevealResponse is returned by the reveal endpoints.
type RevealResponse struct {
	Word string `json:"word"`
}

// RollResponse is returned by the admin roll endpoint.
type RollResponse struct {
	DayKey      string `json:"dayKey"`
	Word        string `json:"word"`
	WordVersion string `json:"wordVersion"`
}

// HealthResponse is returned by the health check.
type HealthResponse struct {
	Status    string `json:"status"`
	Env       string `json:"env"`
	Store     string `json:"store"`
	Generator string `json:"generator"`
	DayKey    string `json:"dayKey"`
	Uptime    string `json:"uptime"`
	Timestamp int64  `json:"timestamp"`
	Error     string `json:"error,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
