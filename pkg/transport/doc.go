// Package transport provides resource.Transport implementations.
//
// Every transport maps a resource path such as "/view/users/profile" to the
// raw source stored under it and reports missing resources with an error
// matching resource.ErrNotFound.
//
//   - HTTP fetches from a remote server, sending the kind's Accept header.
//   - FS reads from an fs.FS, trying kind-specific file extensions.
//   - S3 reads objects from an S3-compatible bucket.
//   - Postgres reads rows from the sfap_resources table (see Migrate).
//   - Cached decorates another transport with a Store (MemoryStore or RedisStore).
//
// Example:
//
//	origin, err := transport.NewHTTP("https://cdn.example.com")
//	if err != nil {
//		return err
//	}
//	t := transport.Cached(origin, transport.NewRedisStore(client, transport.WithTTL(time.Hour)))
//	app, err := sfap.New(sfap.WithTransport(t))
package transport
