package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/wongkaishen/SmartEAS---Emergency-Alerts-System/types"
)

const (
	defaultModel = openai.GPT4oMini

	// Low temperature and bounded output favor reproducible JSON.
	temperature = 0.1
	maxTokens   = 500

	fallbackSeverityGate = 70
)

// ChatCompleter is the slice of the OpenAI client the classifier needs.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Classifier turns post text plus a keyword signal into a structured
// classification, with a deterministic fallback when the model is
// unavailable or returns garbage.
type Classifier struct {
	client ChatCompleter
	model  string
}

func New(client ChatCompleter) *Classifier {
	return &Classifier{client: client, model: defaultModel}
}

// NewWithModel overrides the default model name.
func NewWithModel(client ChatCompleter, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// fallbackTypes maps the pre-filter's dominant category to a disaster type
// when the model cannot be consulted.
var fallbackTypes = map[string]types.DisasterType{
	"seismic":    types.Earthquake,
	"water":      types.Flood,
	"weather":    types.Storm,
	"fire":       types.Wildfire,
	"winter":     types.Blizzard,
	"geological": types.Landslide,
}

// Classify produces a ClassificationResult for the given text. If the
// pre-filter did not warrant classification the model is never invoked
// (cost control). A model failure and an unparsable response both take
// the same fallback path; the caller cannot tell them apart.
func (c *Classifier) Classify(ctx context.Context, text string, signal types.KeywordSignal) types.ClassificationResult {
	if !signal.Warrants {
		return types.ClassificationResult{
			IsDisaster:   false,
			DisasterType: types.NonDisaster,
			Severity:     types.Low,
			Confidence:   signal.Confidence,
			Urgency:      types.UrgencyLow,
		}
	}

	if c.client == nil {
		return c.fallback(signal, fmt.Errorf("no model client configured"))
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an emergency management analyst that classifies social media posts about potential natural disasters. Respond STRICTLY with a single valid JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, signal),
			},
		},
	})
	if err != nil {
		return c.fallback(signal, err)
	}
	if len(resp.Choices) == 0 {
		return c.fallback(signal, fmt.Errorf("model returned no choices"))
	}

	result, err := parseResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return c.fallback(signal, err)
	}
	return result
}

func buildPrompt(text string, signal types.KeywordSignal) string {
	return fmt.Sprintf(`Classify the following social media post.

Keyword analysis already flagged category %q with keywords: %s.

Respond with JSON using this schema:
{
  "isDisaster": true,
  "disasterType": "earthquake|tsunami|flood|hurricane|tornado|storm|wildfire|volcano|landslide|blizzard|drought|other|none",
  "severity": "low|medium|high|critical",
  "confidence": 0,
  "location": "...",
  "urgency": "low|medium|high|immediate",
  "affectedPopulation": "...",
  "timeframe": "...",
  "summary": "...",
  "keyIndicators": ["..."],
  "recommendations": ["..."]
}

Post:
%s`, signal.DominantCategory(), strings.Join(signal.MatchedKeywords, ", "), text)
}

// modelResponse mirrors the JSON the prompt asks for.
type modelResponse struct {
	IsDisaster         bool     `json:"isDisaster"`
	DisasterType       string   `json:"disasterType"`
	Severity           string   `json:"severity"`
	Confidence         int      `json:"confidence"`
	Location           string   `json:"location"`
	Urgency            string   `json:"urgency"`
	AffectedPopulation string   `json:"affectedPopulation"`
	Timeframe          string   `json:"timeframe"`
	Summary            string   `json:"summary"`
	KeyIndicators      []string `json:"keyIndicators"`
	Recommendations    []string `json:"recommendations"`
}

func parseResponse(content string) (types.ClassificationResult, error) {
	payload := extractJSON(content)
	if payload == "" {
		return types.ClassificationResult{}, fmt.Errorf("model response missing json payload")
	}

	var decoded modelResponse
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return types.ClassificationResult{}, fmt.Errorf("model response decode: %w", err)
	}

	return types.ClassificationResult{
		IsDisaster:         decoded.IsDisaster,
		DisasterType:       normalizeType(decoded.DisasterType),
		Severity:           normalizeSeverity(decoded.Severity),
		Confidence:         types.ClampConfidence(decoded.Confidence),
		Location:           strings.TrimSpace(decoded.Location),
		Urgency:            normalizeUrgency(decoded.Urgency),
		AffectedPopulation: decoded.AffectedPopulation,
		Timeframe:          decoded.Timeframe,
		Summary:            decoded.Summary,
		KeyIndicators:      decoded.KeyIndicators,
		Recommendations:    decoded.Recommendations,
	}, nil
}

// extractJSON returns the first balanced JSON object found in the text,
// tolerating prose or code fences around it.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		ch := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1]
			}
		}
	}
	return ""
}

// fallback derives a classification purely from the keyword signal. It is
// the single path for every model failure mode.
func (c *Classifier) fallback(signal types.KeywordSignal, cause error) types.ClassificationResult {
	log.Printf("Classifier fallback: %v", cause)

	disasterType, ok := fallbackTypes[signal.DominantCategory()]
	if !ok {
		disasterType = types.Other
	}

	severity := types.Low
	urgency := types.UrgencyLow
	if signal.Confidence > fallbackSeverityGate {
		severity = types.Medium
		urgency = types.UrgencyMedium
	}

	return types.ClassificationResult{
		IsDisaster:      signal.Warrants,
		DisasterType:    disasterType,
		Severity:        severity,
		Confidence:      signal.Confidence,
		Location:        signal.Location,
		Urgency:         urgency,
		Summary:         fmt.Sprintf("Keyword analysis suggests a possible %s event.", disasterType),
		KeyIndicators:   signal.MatchedKeywords,
		Recommendations: []string{"Awaiting confirmation from authoritative sources"},
		FromFallback:    true,
	}
}

func normalizeType(raw string) types.DisasterType {
	switch t := types.DisasterType(strings.ToLower(strings.TrimSpace(raw))); t {
	case types.Earthquake, types.Tsunami, types.Flood, types.Hurricane,
		types.Tornado, types.Storm, types.Wildfire, types.Volcano,
		types.Landslide, types.Blizzard, types.Drought, types.NonDisaster:
		return t
	case "":
		return types.NonDisaster
	default:
		return types.Other
	}
}

func normalizeSeverity(raw string) types.Severity {
	switch s := types.Severity(strings.ToLower(strings.TrimSpace(raw))); s {
	case types.Medium, types.High, types.Critical:
		return s
	default:
		return types.Low
	}
}

func normalizeUrgency(raw string) types.Urgency {
	switch u := types.Urgency(strings.ToLower(strings.TrimSpace(raw))); u {
	case types.UrgencyMedium, types.UrgencyHigh, types.UrgencyImmediate:
		return u
	default:
		return types.UrgencyLow
	}
}
