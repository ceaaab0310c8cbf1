package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/boucegame/HumanOrNot/internal/config"
	modelgame "github.com/boucegame/HumanOrNot/internal/model/game"
	"github.com/boucegame/HumanOrNot/internal/model/persona"
)

// Service generates simulated-opponent replies through the configured chat
// model. Failures are the caller's concern: the game falls back to the
// canned phrase catalog so a session never stalls on a model error.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the reply generation service.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Reply produces the opponent's next line for the given persona. History
// holds the turns preceding the player's latest message, which is passed as
// the query.
func (s *Service) Reply(ctx context.Context, p persona.Persona, history []modelgame.Turn, userText string) (string, error) {
	input := map[string]any{
		"system":  BuildImpersonationPrompt(p),
		"history": historyMessages(history),
		"query":   userText,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run reply chain: %w", err)
	}

	reply := strings.TrimSpace(response.Content)
	log.Printf("[ai] generated reply persona=%s length=%d", p.ID, len(reply))
	return reply, nil
}

func historyMessages(turns []modelgame.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(turns))
	for _, turn := range turns {
		switch turn.Side {
		case modelgame.SideLocal:
			history = append(history, schema.UserMessage(turn.Text))
		case modelgame.SideOpponent:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}
	return history
}
