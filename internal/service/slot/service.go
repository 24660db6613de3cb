package slot

import (
	"haunted_slot/internal/engine"
	"haunted_slot/internal/repository"
	"haunted_slot/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"go.uber.org/zap"
)

type serv struct {
	machine     *engine.Machine
	userRepo    repository.UserRepository
	slotRepo    repository.SlotRepository
	jackpotRepo repository.JackpotRepository
	statsRepo   repository.StatsRepository
	txManager   trm.Manager
	log         *zap.Logger
}

// NewSlotService автомат Haunted House 5x3
func NewSlotService(
	machine *engine.Machine,
	userRepo repository.UserRepository,
	slotRepo repository.SlotRepository,
	jackpotRepo repository.JackpotRepository,
	statsRepo repository.StatsRepository,
	txManager trm.Manager,
	log *zap.Logger,
) service.SlotService {
	return &serv{
		machine:     machine,
		userRepo:    userRepo,
		slotRepo:    slotRepo,
		jackpotRepo: jackpotRepo,
		statsRepo:   statsRepo,
		txManager:   txManager,
		log:         log,
	}
}
