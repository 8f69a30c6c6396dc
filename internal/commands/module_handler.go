package commands

import (
	"fmt"
	"math/rand/v2"

	"arcadepal/internal/commands/modules/economy"
	"arcadepal/internal/commands/modules/help"
	"arcadepal/internal/commands/modules/jokenpo"
	"arcadepal/internal/commands/modules/memory"
	"arcadepal/internal/commands/modules/mines"
	"arcadepal/internal/commands/modules/ping"
	"arcadepal/internal/commands/modules/race"
	"arcadepal/internal/commands/types"
	internalConfig "arcadepal/internal/config"
	"arcadepal/internal/database"
	"arcadepal/internal/ledger"
	"arcadepal/internal/session"

	"github.com/bwmarrin/discordgo"
)

// ModuleHandler manages command modules and routes interactions.
type ModuleHandler struct {
	commands map[string]*types.Command
	modules  map[string]types.CommandModule
	config   *internalConfig.Config
	db       *database.DB
	deps     *types.Dependencies
}

// NewModuleHandler creates a new module-based command handler. The database
// is load-bearing for every game wager, so a failed open aborts startup
// instead of limping along without a store.
func NewModuleHandler(cfg *internalConfig.Config) (*ModuleHandler, error) {
	db, err := database.NewDB(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	h := &ModuleHandler{
		commands: make(map[string]*types.Command),
		modules:  make(map[string]types.CommandModule),
		config:   cfg,
		db:       db,
		deps: &types.Dependencies{
			Config:   cfg,
			DB:       db,
			Ledger:   ledger.New(db),
			Registry: session.NewRegistry(),
			Locks:    session.NewLockSet(),
			NewRand: func() *rand.Rand {
				return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			},
			Session: nil, // Set later
		},
	}

	h.registerModules()

	return h, nil
}

// registerModules registers all command modules
func (h *ModuleHandler) registerModules() {
	modules := []struct {
		name   string
		module types.CommandModule
	}{
		{"ping", ping.New(h.deps)},
		{"help", help.New(h.deps)},
		{"economy", economy.New(h.deps)},
		{"mines", mines.New(h.deps)},
		{"memory", memory.New(h.deps)},
		{"jokenpo", jokenpo.New(h.deps)},
		{"race", race.New(h.deps)},
	}

	for _, m := range modules {
		m.module.Register(h.commands, h.deps)
		h.modules[m.name] = m.module
	}
}

// GetModule returns a module by name.
func (h *ModuleHandler) GetModule(name string) types.CommandModule {
	return h.modules[name]
}

// GetDB returns the database instance
func (h *ModuleHandler) GetDB() *database.DB {
	return h.db
}

// GetLocks returns the channel lease set shared across game modules.
func (h *ModuleHandler) GetLocks() *session.LockSet {
	return h.deps.Locks
}

// RegisterCommands registers all slash commands with Discord
func (h *ModuleHandler) RegisterCommands(s *discordgo.Session) error {
	existingCommands, err := s.ApplicationCommands(s.State.User.ID, "")
	if err != nil {
		h.config.Logger.Warn("Error fetching existing commands: %v", err)
		return err
	}

	existingByName := make(map[string]*discordgo.ApplicationCommand)
	for _, ec := range existingCommands {
		existingByName[ec.Name] = ec
	}

	for _, c := range h.commands {
		if c.Development {
			// Unregister development commands if they exist
			for _, existingCmd := range existingCommands {
				if existingCmd.Name == c.ApplicationCommand.Name {
					err := s.ApplicationCommandDelete(s.State.User.ID, "", existingCmd.ID)
					if err != nil {
						h.config.Logger.Warn("Error deleting command %s: %v", c.ApplicationCommand.Name, err)
					} else {
						h.config.Logger.Infof("Unregistered command: %s", c.ApplicationCommand.Name)
					}
				}
			}
			continue
		}

		if existing := existingByName[c.ApplicationCommand.Name]; existing != nil {
			cmd, err := s.ApplicationCommandEdit(s.State.User.ID, "", existing.ID, c.ApplicationCommand)
			if err != nil {
				return err
			}
			c.ApplicationCommand.ID = cmd.ID
			h.config.Logger.Infof("Updated command: %s", cmd.Name)
		} else {
			cmd, err := s.ApplicationCommandCreate(s.State.User.ID, "", c.ApplicationCommand)
			if err != nil {
				return err
			}
			c.ApplicationCommand.ID = cmd.ID
			h.config.Logger.Infof("Registered command: %s", cmd.Name)
		}
	}

	return nil
}

// HandleInteraction routes slash command interactions to appropriate handlers
func (h *ModuleHandler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.ApplicationCommandData().Name == "" {
		return
	}

	commandName := i.ApplicationCommandData().Name
	if cmd, exists := h.commands[commandName]; exists {
		cmd.HandlerFunc(s, i)
	}
}

// HandleComponentInteraction routes component interactions to the collector
// owning the message. Game sessions register collectors keyed by message ID,
// so anything unclaimed here belongs to a session that already ended.
func (h *ModuleHandler) HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if h.deps.Registry.Dispatch(s, i) {
		return
	}

	// Ack stale clicks on expired game messages so the client does not
	// show "interaction failed".
	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

// UnregisterCommands removes all registered commands
func (h *ModuleHandler) UnregisterCommands(s *discordgo.Session) {
	existingCommands, err := s.ApplicationCommands(s.State.User.ID, "")
	if err != nil {
		h.config.Logger.Warn("Error fetching existing commands: %v", err)
		return
	}

	for _, existingCmd := range existingCommands {
		if _, exists := h.commands[existingCmd.Name]; exists {
			err := s.ApplicationCommandDelete(s.State.User.ID, "", existingCmd.ID)
			if err != nil {
				h.config.Logger.Warn("Error deleting command %s: %v", existingCmd.Name, err)
			} else {
				h.config.Logger.Infof("Unregistered command: %s", existingCmd.Name)
			}
		}
	}
}

// InitializeModuleServices hydrates services with the Discord session.
// Called after the Discord session is established.
func (h *ModuleHandler) InitializeModuleServices(s *discordgo.Session) error {
	h.deps.Session = s

	for _, module := range h.modules {
		if service := module.Service(); service != nil {
			if err := service.HydrateServiceDiscordSession(s); err != nil {
				return fmt.Errorf("failed to hydrate service with Discord session: %w", err)
			}
		}
	}

	return nil
}
