package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service layer.
type RepositoryProvider struct {
	AccountRepo       AccountRepositoryFacade
	JournalRepo       JournalRepositoryFacade
	VoucherRepo       VoucherRepositoryFacade
	ChequeRepo        ChequeRepositoryFacade
	PartyRepo         PartyReader
	SystemAccountRepo SystemAccountRepositoryFacade
	AttachmentRepo    AttachmentRepository
}
