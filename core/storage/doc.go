// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow Client interface so the token-list
// metadata source can be tested with the mocks in core/storage/mocks. Both AWS S3
// and self-hosted MinIO instances are supported.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
