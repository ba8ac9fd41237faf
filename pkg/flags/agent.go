package flags

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/agent"
)

// AgentFlags contains flags for reaching the recipe agent, the external
// completion service that answers chat turns.
type AgentFlags struct {
	URL string
}

func NewAgentFlags() *AgentFlags {
	return &AgentFlags{
		URL: "http://localhost:8000",
	}
}

func (f *AgentFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.URL, "agent-url", f.URL, "Base URL for the recipe agent service")
}

func (f *AgentFlags) Validate() error {
	if f.URL == "" {
		return fmt.Errorf("agent-url is required")
	}
	return nil
}

func (f *AgentFlags) GetAgentClient() *agent.Client {
	return agent.NewClient(f.URL)
}
