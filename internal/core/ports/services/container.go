package services

// ServiceContainer bundles every service facade handed to the HTTP layer.
type ServiceContainer struct {
	Ledger        LedgerSvcFacade
	Voucher       VoucherSvcFacade
	Cheque        ChequeSvcFacade
	Account       AccountSvcFacade
	SystemAccount SystemAccountSvcFacade
}
