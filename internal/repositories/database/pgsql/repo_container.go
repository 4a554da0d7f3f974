package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/egledger/treasury_backend/internal/core/ports/repositories"
	"github.com/egledger/treasury_backend/internal/platform/config"
)

// NewRepositoryProvider wires all pgsql repositories against one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, cfg *config.Config) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	voucherRepo := newPgxVoucherRepository(dbPool, accountRepo, journalRepo, cfg.VoucherAtomicPosting)
	chequeRepo := newPgxChequeRepository(dbPool, accountRepo)
	partyRepo := newPgxPartyRepository(dbPool)
	systemAccountRepo := newPgxSystemAccountRepository(dbPool)
	attachmentRepo := newPgxAttachmentRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:       accountRepo,
		JournalRepo:       journalRepo,
		VoucherRepo:       voucherRepo,
		ChequeRepo:        chequeRepo,
		PartyRepo:         partyRepo,
		SystemAccountRepo: systemAccountRepo,
		AttachmentRepo:    attachmentRepo,
	}
}
