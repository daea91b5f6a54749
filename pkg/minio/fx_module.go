package minio

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides a *Minio built from the injected Config and Logger.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewMinioClient,
	),
)

// MinioParams groups the dependencies of NewMinioClient.
type MinioParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewMinioClient connects and verifies the bucket while the graph is built.
// The client holds no background goroutines, so no stop hook is needed.
func NewMinioClient(p MinioParams) (*Minio, error) {
	return NewClient(context.Background(), p.Config, p.Logger)
}
