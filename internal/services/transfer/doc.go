/*
Package transfer implements the balance transfer engine.

The engine is stateless orchestration over the account store: it
validates a request, reads both accounts, and asks the store to apply
the paired debit/credit as one atomic unit. All concurrency control
lives in the store's ApplyPairedDelta; the engine only retries when the
store reports an abort.

Usage:

	svc := transfer.NewService(accountRepo, cacheService, nil)

	receipt, err := svc.Execute(ctx, callerID, transfer.Request{
	    SourceID:      callerID,
	    DestinationID: destID,
	    Amount:        40,
	})

Error Handling:

Validation failures (ErrUnauthorized, ErrInvalidAmount,
ErrInvalidDestination, ErrInsufficientFunds, ErrAccountNotFound,
ErrDestinationNotFound) are terminal and never retried. ErrConflict is
returned after the retry budget is exhausted. ErrStorage wraps any
unexpected store failure; it is not retried because the storage state is
unknown.
*/
package transfer
