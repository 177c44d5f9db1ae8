package brainstorm

import (
	"context"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
)

// repositoryStore 把消息仓储适配成引擎的 MessageStore 端口
type repositoryStore struct {
	repo repository.BrainstormMessageRepository
}

// NewRepositoryStore 用消息仓储实现 MessageStore
func NewRepositoryStore(repo repository.BrainstormMessageRepository) MessageStore {
	return &repositoryStore{repo: repo}
}

func (s *repositoryStore) Append(ctx context.Context, message *entity.BrainstormMessage) error {
	return s.repo.Append(ctx, message)
}

func (s *repositoryStore) LoadHistory(ctx context.Context, tenantID, projectID string) ([]*entity.BrainstormMessage, error) {
	return s.repo.ListByProject(ctx, tenantID, projectID)
}

func (s *repositoryStore) DeleteAll(ctx context.Context, tenantID, projectID string) error {
	return s.repo.DeleteByProject(ctx, tenantID, projectID)
}
