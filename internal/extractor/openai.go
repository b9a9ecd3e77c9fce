// internal/extractor/openai.go
package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/models"
)

const extractionSystemPrompt = `You are a screenplay breakdown assistant.
You receive one chunk of a screenplay and return a JSON object with these keys:
- scenes: each scene in the chunk with scene_number (1-based within this chunk),
  slugline_raw (the heading line verbatim), int_ext, location_raw, time_of_day,
  action_lines, and dialogue (character_key plus text per spoken line).
- characters: every speaking or introduced character with canonical_name,
  aliases, dialogue_line_count, word_count, and scenes_present.
- locations: distinct locations with name, variants, and scene_count.
- props: physical objects handled or mentioned, with name, category, and
  mention_count.
Number scenes from 1 within this chunk only. Copy sluglines verbatim, never
paraphrase them. Return JSON only, no commentary.`

// OpenAIExtractor fulfils the extraction port against the chat completions
// API. Each call asks for structured output, retries transient failures, and
// funnels every terminal problem into an extraction failure so the chunk is
// recorded as a gap rather than aborting the run.
type OpenAIExtractor struct {
	client   openai.Client
	model    string
	attempts uint
}

func NewOpenAIExtractor(apiKey, model string) *OpenAIExtractor {
	return &OpenAIExtractor{
		client:   openai.NewClient(option.WithAPIKey(apiKey)),
		model:    model,
		attempts: 3,
	}
}

func (e *OpenAIExtractor) Name() string { return "openai" }

func (e *OpenAIExtractor) Extract(ctx context.Context, chunkText string, chunkIndex int, knownCharacters []string) (*models.PartialExtraction, error) {
	var partial *models.PartialExtraction

	err := retry.Do(
		func() error {
			reply, err := e.complete(ctx, chunkText, knownCharacters)
			if err != nil {
				return err
			}
			parsed, err := ParsePartial(reply, chunkIndex)
			if err != nil {
				return err
			}
			partial = parsed
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(e.attempts),
		retry.Delay(1*time.Second),
	)
	if err != nil {
		return nil, apperrors.NewExtractionFailure(
			fmt.Sprintf("chunk %d extraction failed after %d attempts", chunkIndex, e.attempts), err)
	}
	return partial, nil
}

func (e *OpenAIExtractor) complete(ctx context.Context, chunkText string, knownCharacters []string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(extractionSystemPrompt),
	}
	if len(knownCharacters) > 0 {
		messages = append(messages, openai.SystemMessage(fmt.Sprintf(
			"These names are confirmed characters of this screenplay: %s. Treat them as characters whenever they appear, even if they look like abbreviations or labels.",
			strings.Join(knownCharacters, ", "))))
	}
	messages = append(messages, openai.UserMessage(chunkText))

	params := openai.ChatCompletionNewParams{
		Messages:    messages,
		Model:       e.model,
		Temperature: openai.Float(0.1),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "partial_extraction",
					Description: openai.String("Structured breakdown of one screenplay chunk"),
					Strict:      openai.Bool(false),
					Schema:      partialSchemaMap(),
				},
			},
		},
	}

	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		// Some model families reject the json_schema format; fall back to
		// plain JSON mode and let reply parsing enforce the contract.
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		}
		resp, err = e.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
