package service

import (
	"context"

	dom "hubplus/internal/domain"
	"hubplus/internal/repo"

	"github.com/google/uuid"
)

type JobService struct {
	repo repo.JobRepo
}

func NewJobService(r repo.JobRepo) *JobService {
	return &JobService{repo: r}
}

func (s *JobService) GetByID(ctx context.Context, id string) (dom.ProcessingJob, error) {
	if _, err := uuid.Parse(id); err != nil {
		return dom.ProcessingJob{}, invalid("id", "must be a UUID")
	}
	j, err := s.repo.GetByID(ctx, id)
	return j, mapNoRows(err)
}
