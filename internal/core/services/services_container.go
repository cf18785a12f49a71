package services

import (
	"fmt"

	"github.com/SscSPs/arap_ledger/internal/core/ports/events"
	portsrepo "github.com/SscSPs/arap_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/arap_ledger/internal/core/ports/services"
	"github.com/SscSPs/arap_ledger/internal/platform/config"
	"github.com/SscSPs/arap_ledger/internal/utils/filter"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case committed payments are not announced.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.PaymentEventPublisher) (*portssvc.ServiceContainer, error) {
	searchFields, err := filter.FieldsByName(cfg.SearchFields)
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_SEARCH_FIELDS: %w", err)
	}

	store := NewEntityStore(repos.LedgerRepo, WithPageSizes(cfg.DefaultPageSize, cfg.MaxPageSize))

	options := []LedgerServiceOption{
		WithCommitTimeout(cfg.CommitTimeout),
		WithSearchFields(searchFields...),
	}
	if publisher != nil {
		options = append(options, WithEventPublisher(publisher))
	}

	return &portssvc.ServiceContainer{
		Ledger:      NewLedgerService(store, options...),
		Provisioner: store,
	}, nil
}
