// Package s3 provides an S3 implementation of the blobstore.BlobStore interface,
// used to hold exported scope snapshots.
//
// # Usage
//
//	client := awss3.NewFromConfig(awsCfg) // github.com/aws/aws-sdk-go-v2/service/s3
//	store := s3.NewStore(client, "my-bucket", "snapshots/")
//
//	exp := snapshot.NewExporter(adapter, cfg, store, codec.Default, snapshot.CompressionLZ4)
//	n, err := exp.Export(ctx, "s.snapshot", manifest)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large snapshots
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
