// Package redis connects to the Redis server that backs the shared OTP
// and rate limit stores in multi-instance deployments.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // terminate; the stores cannot run without it
//	}
//	defer client.Close()
//
//	store, _ := ratelimit.NewRedisStore(client)
//	limiter, _ := ratelimit.New(store)
//
//	records, _ := otp.NewRedisStore(client)
//	codes, _ := otp.NewService(records)
package redis
