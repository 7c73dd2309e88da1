package models

// GenerateQuizRequest is the payload for POST /api/quizzes/generate.
// Difficulty accepts the three graded levels plus "random", which is a
// directive to the generator, not a stored value. APIKey optionally overrides
// the server-configured Gemini credential for this one request.
type GenerateQuizRequest struct {
	Topic         string `json:"topic"`
	QuestionCount int    `json:"question_count"`
	Difficulty    string `json:"difficulty"`
	APIKey        string `json:"api_key,omitempty"`
}

type SelectAnswerRequest struct {
	QuestionIndex int `json:"question_index"`
	AnswerIndex   int `json:"answer_index"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
