package ports

import (
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/core/domain"
	"github.com/TheCryptoChad/FioraSwap-Contracts/internal/storageutil/uow"
)

// RepoManager gives access to the ledger repositories. The transaction
// returned by Begin spans all of them: repository methods called with the
// context of a unit of work operate inside it.
type RepoManager interface {
	uow.Transactional

	OfferRepository() domain.OfferRepository
	FeeRepository() domain.FeeRepository
	NonceRepository() domain.NonceRepository
	CraftRepository() domain.CraftRepository

	Close()
}
