package types

import (
	"math/rand/v2"

	"arcadepal/internal/config"
	"arcadepal/internal/database"
	"arcadepal/internal/ledger"
	"arcadepal/internal/session"

	"github.com/bwmarrin/discordgo"
)

// Command represents a Discord application command with its handler
type Command struct {
	ApplicationCommand *discordgo.ApplicationCommand
	HandlerFunc        func(s *discordgo.Session, i *discordgo.InteractionCreate)
	Development        bool
}

// BaseService provides common session hydration functionality for all services
type BaseService struct {
	Session *discordgo.Session // Exported for external hydration
}

// HydrateServiceDiscordSession hydrates the service with a Discord session
func (b *BaseService) HydrateServiceDiscordSession(s *discordgo.Session) error {
	b.Session = s
	return nil
}

// ModuleService represents a service that requires session initialization
type ModuleService interface {
	// HydrateServiceDiscordSession hydrates the service with a Discord session
	// This is called after the Discord session is established
	HydrateServiceDiscordSession(s *discordgo.Session) error
}

// CommandModule represents a module that can register commands
// Each module should contain:
// - Command definition(s)
// - Handler function(s)
// - Associated service if needed (max one service per module)
type CommandModule interface {
	// Register adds the module's commands to the provided map
	Register(commands map[string]*Command, deps *Dependencies)

	// Service returns the service that needs session initialization
	// Returns nil if the module has no service requiring initialization
	Service() ModuleService
}

// Dependencies contains shared dependencies that command modules may need
type Dependencies struct {
	Config   *config.Config
	DB       *database.DB
	Ledger   *ledger.Ledger
	Registry *session.Registry
	Locks    *session.LockSet
	// NewRand hands each game session its own rand source; game state
	// constructors take it as a parameter so tests can pin outcomes.
	NewRand func() *rand.Rand
	Session *discordgo.Session // Set after bot initialization
}
