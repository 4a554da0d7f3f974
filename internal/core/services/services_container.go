package services

import (
	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	portssvc "github.com/egledger/treasury_backend/internal/core/ports/services"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The classifier is built once and injected everywhere the treasury rule
	// is needed, so vouchers and cheques can never disagree.
	classifier := NewTreasuryClassifier(cfg)

	container.SystemAccount = NewSystemAccountService(repos.SystemAccountRepo, repos.AccountRepo, cfg)
	container.Account = NewAccountService(repos.AccountRepo, classifier)
	container.Ledger = NewLedgerService(repos.JournalRepo, repos.AccountRepo, cfg)

	container.Voucher = NewVoucherService(
		repos.VoucherRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.AttachmentRepo,
		container.Ledger,
		container.SystemAccount,
		classifier,
		cfg,
	)

	container.Cheque = NewChequeService(
		repos.ChequeRepo,
		repos.AccountRepo,
		repos.PartyRepo,
		repos.AttachmentRepo,
		container.SystemAccount,
		classifier,
		cfg,
	)

	return container
}
