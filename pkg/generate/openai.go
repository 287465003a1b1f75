package generate

import (
	"context"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"

	mgerrors "github.com/matzehuels/mindgrove/pkg/errors"
	"github.com/matzehuels/mindgrove/pkg/tree"
	"github.com/matzehuels/mindgrove/pkg/tree/transform"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// generationTemperature keeps proposals conservative; structure repair
// happens downstream, but lower variance means fewer repairs.
const generationTemperature = 0.2

// OpenAIClient generates raw node lists through the OpenAI chat API.
// It is safe for concurrent use across chunks.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

// NewOpenAIClient creates a generator backed by the OpenAI API.
// An empty model selects DefaultModel; a nil logger discards output.
func NewOpenAIClient(apiKey, model string, logger *log.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, mgerrors.New(mgerrors.ErrCodeConfig, "openai api key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OpenAIClient{client: openai.NewClient(apiKey), model: model, logger: logger}, nil
}

// Generate proposes a raw node list for one content chunk. The prompt
// language follows the chunk's detected language. Model output is
// extracted and decoded tolerantly; dropped records are logged, not
// fatal.
func (c *OpenAIClient) Generate(ctx context.Context, content string) ([]tree.Record, error) {
	lang := transform.DetectLanguage(content)

	var resp openai.ChatCompletionResponse
	err := retry(ctx, retryAttempts, retryBaseDelay, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: generationTemperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: Prompt(lang, content)},
			},
		})
		return callErr
	})
	if err != nil {
		return nil, mgerrors.Wrap(mgerrors.ErrCodeGenerator, err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, mgerrors.New(mgerrors.ErrCodeGenerator, "model returned no choices")
	}

	records, report, err := DecodeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if report.Total() > 0 {
		c.logger.Debug("dropped malformed records from model output",
			"bad_key", report.BadKey,
			"bad_parent", report.BadParent,
			"bad_text", report.BadText)
	}
	return records, nil
}

// Ensure OpenAIClient implements Generator.
var _ Generator = (*OpenAIClient)(nil)
