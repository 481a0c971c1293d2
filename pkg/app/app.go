// Package app assembles the ledger services from their shared
// dependencies. Transport adapters take an *App and expose whatever
// surface they need.
package app

import (
	"log/slog"

	"github.com/fintrack/ledger/pkg/config"
	"github.com/fintrack/ledger/pkg/currency"
	"github.com/fintrack/ledger/pkg/eventbus"
	"github.com/fintrack/ledger/pkg/repository"
	"github.com/fintrack/ledger/pkg/service/account"
	"github.com/fintrack/ledger/pkg/service/balance"
	"github.com/fintrack/ledger/pkg/service/statement"
	"github.com/fintrack/ledger/pkg/service/transfer"
)

// Deps contains the dependencies shared by every service.
type Deps struct {
	Uow              repository.UnitOfWork
	CurrencyRegistry *currency.Registry
	EventBus         eventbus.Bus
	Logger           *slog.Logger
}

// App holds the assembled services.
type App struct {
	Deps   *Deps
	Config *config.App

	AccountService   *account.Service
	TransferService  *transfer.Service
	BalanceService   *balance.Service
	StatementService *statement.Service
}

// New builds the service layer on top of deps.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:             deps,
		Config:           cfg,
		AccountService:   account.NewService(deps.Uow, deps.CurrencyRegistry, deps.EventBus, deps.Logger),
		TransferService:  transfer.NewService(deps.Uow, deps.CurrencyRegistry, deps.EventBus, deps.Logger),
		BalanceService:   balance.NewService(deps.Uow, deps.Logger),
		StatementService: statement.NewService(deps.Uow, deps.Logger),
	}
}
