package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wealth-planner/domain"
)

// AdvisorConfig points the advisor at an OpenAI-compatible chat endpoint.
// An empty APIKey disables remote calls.
type AdvisorConfig struct {
	APIURL  string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// AdvisorService turns a projection into a short, blunt directive.
type AdvisorService struct {
	cfg        AdvisorConfig
	httpClient *http.Client
	log        zerolog.Logger
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const advisorSystemPrompt = "You are a private equity CFO known for brutal efficiency. " +
	"You care about net worth and debt eradication, not feelings or fun money. " +
	"Your advice is short, punchy and mathematically grounded."

func NewAdvisorService(cfg AdvisorConfig, log zerolog.Logger) *AdvisorService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AdvisorService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("service", "advisor").Logger(),
	}
}

func (s *AdvisorService) Enabled() bool {
	return s.cfg.APIKey != "" && s.cfg.APIURL != ""
}

// Analyze returns a three-sentence directive for the projection. LLM
// failures fall back to a directive computed from the series.
func (s *AdvisorService) Analyze(ctx context.Context, input domain.AnalysisInput) domain.AnalysisResult {
	if !s.Enabled() || input.Result.Len() == 0 {
		return domain.AnalysisResult{Message: fallbackDirective(input), Source: "fallback"}
	}

	message, err := s.callLLM(ctx, analysisPrompt(input))
	if err != nil {
		s.log.Warn().Err(err).Msg("Advisor call failed, using fallback directive")
		return domain.AnalysisResult{Message: fallbackDirective(input), Source: "fallback"}
	}
	return domain.AnalysisResult{Message: strings.TrimSpace(message), Source: "llm"}
}

func analysisPrompt(input domain.AnalysisInput) string {
	debt, invested, netWorth := input.Result.Final()
	startDebt := input.Result.DebtPath[0]

	debtFree := "not within the horizon"
	if month, ok := input.Result.DebtFreeMonth(); ok {
		debtFree = fmt.Sprintf("month %d", month)
	}

	strategy := input.Strategy
	if strategy == "" {
		strategy = domain.StrategyCustom
	}

	return fmt.Sprintf(`Analyze this household projection over %d months using the %q allocation.

- Debt after month 1: %.0f
- Debt at the end: %.0f
- Debt free: %s
- Invested at the end: %.0f
- Net worth at the end: %.0f

Provide a 3-sentence strategic directive.
Sentence 1: State the hard truth.
Sentence 2: The specific fix, naming an allocation category to move money between.
Sentence 3: The outcome of that fix.`,
		input.Result.Len(), strategy, startDebt, debt, debtFree, invested, netWorth)
}

func (s *AdvisorService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: advisorSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response from advisor")
	}
	return out.Choices[0].Message.Content, nil
}

func fallbackDirective(input domain.AnalysisInput) string {
	r := input.Result
	if r.Len() == 0 {
		return "There is nothing to analyze yet. Add your loans and allocations. Then run the projection again."
	}

	debt, invested, netWorth := r.Final()
	months := r.Len()

	if month, ok := r.DebtFreeMonth(); ok {
		return fmt.Sprintf(
			"You are debt free in month %d, so every month after that compounds in your favour. "+
				"Move anything sitting in Fun Money into Investments as soon as the last loan closes. "+
				"You finish month %d with %.0f invested and a net worth of %.0f.",
			month, months, invested, netWorth)
	}

	if netWorth < 0 {
		return fmt.Sprintf(
			"You are still carrying %.0f of debt after %d months and your net worth is negative at %.0f. "+
				"Shift your Fun Money into Extra Debt Payment until the highest-rate loan is gone. "+
				"Every month of interest you stop paying is a guaranteed return.",
			debt, months, netWorth)
	}

	return fmt.Sprintf(
		"Your investments of %.0f outrun your %.0f of debt, but the debt is still alive after %d months. "+
			"Put more into Extra Debt Payment to close the highest-rate loan first. "+
			"Once it is gone its EMI flows straight into Investments.",
		invested, debt, months)
}
