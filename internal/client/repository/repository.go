package repository

type LocalRepository struct {
	LocalUserRepository
	LocalChatHeadRepository
}

func NewLocalRepository(db *DB) *LocalRepository {
	return &LocalRepository{
		LocalUserRepository:     newLocalUserRepository(db),
		LocalChatHeadRepository: newLocalChatHeadRepository(db),
	}
}
