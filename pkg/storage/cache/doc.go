// Package cache puts a two level film cache in front of a storage.Store.
//
//	client, err := cache.NewRedisClient(ctx, cfg)
//	...
//	cached := cache.NewFilmCache(store, cfg.L1CacheSize, cfg.CacheTTL,
//		cache.WithRedis(client), cache.WithMetrics(metrics))
//
// Without WithRedis only the in-process layer is used.
package cache
