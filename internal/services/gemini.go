package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dmquiz-backend/internal/models"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// GeminiService calls the Generative Language REST endpoint directly and
// feeds the generated text through ParseQuestions. It holds no state between
// calls besides the credential it was constructed with.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	rateChan   chan struct{} // in-flight request slots
}

func NewGeminiService(apiKey, model, baseURL string, concurrentReqs int) *GeminiService {
	if model == "" {
		model = defaultGeminiModel
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}

	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		rateChan:   rateChan,
	}
}

// WithAPIKey returns a client using the given credential for its calls. The
// derived client shares the transport and the in-flight slots, so a
// per-request key does not bypass the busy gate.
func (s *GeminiService) WithAPIKey(apiKey string) *GeminiService {
	derived := *s
	derived.apiKey = apiKey
	return &derived
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateQuestions performs exactly one generation request and returns the
// parsed question records. An empty result is passed through as-is; only
// transport and payload-shape problems are errors.
func (s *GeminiService) GenerateQuestions(ctx context.Context, topic string, count int, difficulty string) ([]models.Question, error) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(s.apiKey) == "" {
		fieldErrors["api_key"] = "API key is required. Please enter your Google AI Studio API key."
	}
	if strings.TrimSpace(topic) == "" {
		fieldErrors["topic"] = "Topic is required. Pick a topic or enter a custom one."
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	select {
	case <-s.rateChan:
	default:
		return nil, &RateLimitError{Message: "A generation request is already in progress. Please wait for it to finish."}
	}
	defer func() { s.rateChan <- struct{}{} }()

	prompt := buildQuestionPrompt(topic, count, difficulty)

	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.baseURL, s.model, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &UnauthorizedError{Message: "API key was rejected. Please check your Google AI Studio API key."}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &ForbiddenError{Message: "API key does not have access. Please check the key's permissions."}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{Message: "API key is invalid or the Generative Language API is not enabled. Verify the key at https://aistudio.google.com/app/apikey"}
	case resp.StatusCode != http.StatusOK:
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var body geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &MalformedResponseError{Message: "Generation response was not valid JSON"}
	}

	text := extractText(body)
	if text == "" {
		return nil, &MalformedResponseError{Message: "Generation response did not contain any generated text"}
	}

	questions, rejectedBlocks := ParseQuestions(text, topic)
	log.Printf("Parsed %d questions for topic %q (%d malformed blocks dropped)", len(questions), topic, rejectedBlocks)

	return questions, nil
}

// extractText concatenates the text parts of the first candidate. A response
// without the candidates[0].content.parts path counts as malformed.
func extractText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return text.String()
}

func buildQuestionPrompt(topic string, count int, difficulty string) string {
	var b strings.Builder

	// Layer 1 - Role
	b.WriteString("You are an expert discrete mathematics instructor. ")
	b.WriteString(fmt.Sprintf("Create exactly %d multiple-choice questions about the topic %q.\n\n", count, topic))

	// Layer 2 - Difficulty directive
	b.WriteString("Requirements:\n")
	if difficulty == "random" {
		b.WriteString("- Create questions with random difficulty (easy, medium, hard)\n")
	} else {
		b.WriteString(fmt.Sprintf("- Create questions with %s difficulty\n", models.ParseDifficulty(difficulty)))
	}
	b.WriteString("- Every question must have exactly 4 answer options A, B, C, D\n")
	b.WriteString("- Use LaTeX for mathematical notation (wrapped in $...$ or $$...$$)\n")
	b.WriteString("- Questions must be mathematically correct\n")
	b.WriteString("- Answers and explanations must be detailed and unambiguous\n\n")

	// Layer 3 - Output format the parser expects
	b.WriteString("Return each question in EXACTLY this format:\n")
	b.WriteString(questionStartMarker + "\n")
	b.WriteString("Question: [question text with LaTeX]\n")
	b.WriteString("A. [option A]\n")
	b.WriteString("B. [option B]\n")
	b.WriteString("C. [option C]\n")
	b.WriteString("D. [option D]\n")
	b.WriteString("Correct: [A/B/C/D]\n")
	b.WriteString("Difficulty: [easy/medium/hard]\n")
	b.WriteString("Explanation: [detailed explanation with LaTeX]\n")
	b.WriteString(questionEndMarker + "\n\n")

	// Layer 4 - Notation examples, kept short
	b.WriteString("LaTeX examples:\n")
	b.WriteString("- Set: $A = \\{1, 2, 3\\}$\n")
	b.WriteString("- Membership: $x \\in A$\n")
	b.WriteString("- Union and intersection: $A \\cup B$, $A \\cap B$\n")
	b.WriteString("- Combinations: $C(n,r) = \\frac{n!}{r!(n-r)!}$\n")
	b.WriteString("- Permutations: $P(n,r) = \\frac{n!}{(n-r)!}$\n\n")

	b.WriteString(fmt.Sprintf("Create the %d questions now:\n", count))

	return b.String()
}
