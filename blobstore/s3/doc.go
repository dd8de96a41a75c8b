// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "my-bucket", "datasets/")
//	stats, err := ingest.LoadCSV(ctx, store, "people.csv", recordStore)
//
// # Features
//
//   - Streaming reads, so datasets never have to fit in memory twice
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
