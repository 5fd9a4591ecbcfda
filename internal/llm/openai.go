package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAILLM implements LLM and ToolCaller using the OpenAI chat completions
// API, either against OpenAI directly or an Azure OpenAI deployment.
type OpenAILLM struct {
	client openai.Client
	config Config
}

// New creates an LLM for the configured provider.
func New(config Config) (*OpenAILLM, error) {
	switch config.Provider {
	case "", ProviderOpenAI:
		return NewOpenAILLM(config)
	case ProviderAzure:
		return NewAzureLLM(config)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, config.Provider)
	}
}

// NewOpenAILLM creates an OpenAI-backed LLM implementation.
// Returns an error if the API key is missing or invalid.
func NewOpenAILLM(config Config) (*OpenAILLM, error) {
	// Use config API key or fall back to environment variable
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key (set OPENAI_API_KEY or provide in config)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing model name", ErrInvalidConfig)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if config.OrgID != "" {
		opts = append(opts, option.WithOrganization(config.OrgID))
	}

	config.Provider = ProviderOpenAI
	return &OpenAILLM{
		client: openai.NewClient(opts...),
		config: config,
	}, nil
}

// NewAzureLLM creates an LLM bound to an Azure OpenAI deployment.
// config.Model names the deployment.
func NewAzureLLM(config Config) (*OpenAILLM, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("%w: missing Azure endpoint (set AZURE_OPENAI_ENDPOINT)", ErrInvalidConfig)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: missing Azure API key (set AZURE_OPENAI_API_KEY)", ErrInvalidConfig)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: missing Azure deployment (set AZURE_OPENAI_DEPLOYMENT)", ErrInvalidConfig)
	}
	if config.APIVersion == "" {
		config.APIVersion = DefaultConfig().APIVersion
	}

	client := openai.NewClient(
		azure.WithEndpoint(config.Endpoint, config.APIVersion),
		azure.WithAPIKey(config.APIKey),
	)

	config.Provider = ProviderAzure
	return &OpenAILLM{
		client: client,
		config: config,
	}, nil
}

// Config returns the configuration the model was built with.
func (o *OpenAILLM) Config() Config {
	return o.config
}

// WithSettings returns a copy of o whose sampling settings are overridden by s.
func (o *OpenAILLM) WithSettings(s Settings) LLM {
	clone := *o
	clone.config = o.config.Apply(s)
	return &clone
}

// Generate sends the prompt to the model and returns the generated text.
func (o *OpenAILLM) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", ErrInvalidConfig)
	}

	params := o.params([]openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	})

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no response generated", ErrLLMFailed)
	}

	return completion.Choices[0].Message.Content, nil
}

// GenerateWithTools runs the function-calling loop: each round the model
// either answers or asks for tool calls, whose results are fed back.
func (o *OpenAILLM) GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: no messages", ErrInvalidConfig)
	}

	params := o.params(toParams(messages))
	params.Tools = toolParams(tools)
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}

	for round := 0; round <= MaxToolRounds; round++ {
		completion, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrLLMFailed, err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("%w: no response generated", ErrLLMFailed)
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, call := range msg.ToolCalls {
			result := invokeTool(ctx, byName, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	return "", fmt.Errorf("%w: exceeded %d tool rounds", ErrLLMFailed, MaxToolRounds)
}

func (o *OpenAILLM) params(messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(o.config.Model),
		Messages: messages,
	}

	// Set optional parameters if configured
	if o.config.Temperature > 0 {
		params.Temperature = openai.Float(float64(o.config.Temperature))
	}
	if o.config.TopP > 0 {
		params.TopP = openai.Float(float64(o.config.TopP))
	}
	if o.config.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(o.config.MaxTokens))
	}
	return params
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func toolParams(tools []Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name,
				Description: openai.String(t.Description),
				Parameters:  Schema(t.Params),
			},
		})
	}
	return out
}

// Schema builds the JSON schema object describing a tool's string parameters.
func Schema(params []ToolParam) shared.FunctionParameters {
	properties := make(map[string]any, len(params))
	required := []string{}
	for _, p := range params {
		properties[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return shared.FunctionParameters{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// invokeTool runs the named tool with JSON-encoded arguments. Failures are
// returned as text so the model can recover.
func invokeTool(ctx context.Context, tools map[string]Tool, name, rawArgs string) string {
	tool, ok := tools[name]
	if !ok || tool.Invoke == nil {
		return fmt.Sprintf("error: unknown tool %q", name)
	}

	args, err := DecodeArgs(rawArgs)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	result, err := tool.Invoke(ctx, args)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return result
}

// DecodeArgs parses a JSON object of tool arguments into strings. Non-string
// values are rendered with their JSON text.
func DecodeArgs(raw string) (map[string]string, error) {
	args := map[string]string{}
	if raw == "" {
		return args, nil
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	for k, v := range decoded {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			args[k] = s
			continue
		}
		args[k] = string(v)
	}
	return args, nil
}
