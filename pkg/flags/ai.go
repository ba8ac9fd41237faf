package flags

import (
	"github.com/spf13/pflag"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/ai"
)

// AIFlags contains flags for the LLM used to title conversations.
type AIFlags struct {
	Endpoint string
	Model    string
}

func NewAIFlags() *AIFlags {
	return &AIFlags{
		Model: "gpt-4o-mini",
	}
}

func (f *AIFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Endpoint, "ai-endpoint", "", "URL for an OpenAI-compatible endpoint. Set OPENAI_API_KEY to specify an API key.")
	fs.StringVar(&f.Model, "ai-model", f.Model, "The AI model to use for generating conversation titles")
}

func (f *AIFlags) GetLLMClient() *ai.LLMClient {
	return ai.NewLLMClient(f.Endpoint, f.Model)
}
