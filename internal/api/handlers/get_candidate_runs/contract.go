package get_candidate_runs

import (
	"context"

	getCandidateRuns "github.com/m04kA/SMC-BarberService/internal/usecase/get_candidate_runs"
)

type GetCandidateRunsUseCase interface {
	Execute(ctx context.Context, req *getCandidateRuns.Request) (*getCandidateRuns.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
