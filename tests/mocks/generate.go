// Package mocks holds gomock doubles for the runner's interfaces.
package mocks

//go:generate mockgen -destination=mock_docker_client.go -package=mocks github.com/mini-maxit/runner/internal/docker DockerClient
//go:generate mockgen -destination=mock_storage.go -package=mocks github.com/mini-maxit/runner/internal/storage TestCaseStore,ObjectClient
//go:generate mockgen -destination=mock_packager.go -package=mocks github.com/mini-maxit/runner/internal/stages/packager Packager
//go:generate mockgen -destination=mock_executor.go -package=mocks github.com/mini-maxit/runner/internal/stages/executor Executor
//go:generate mockgen -destination=mock_verifier.go -package=mocks github.com/mini-maxit/runner/internal/stages/verifier Verifier
//go:generate mockgen -destination=mock_repository.go -package=mocks github.com/mini-maxit/runner/internal/repository Recorder
//go:generate mockgen -destination=mock_pipeline.go -package=mocks github.com/mini-maxit/runner/internal/pipeline Judge,Worker
//go:generate mockgen -destination=mock_scheduler.go -package=mocks github.com/mini-maxit/runner/internal/scheduler Scheduler
//go:generate mockgen -destination=mock_responder.go -package=mocks github.com/mini-maxit/runner/internal/rabbitmq/responder Responder
//go:generate mockgen -destination=mock_channel.go -package=mocks github.com/mini-maxit/runner/internal/rabbitmq/channel Channel
