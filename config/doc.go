// Package config loads command line configuration with Viper.
//
// Sources, lowest priority first: defaults, a YAML file, environment
// variables carrying the service prefix, then explicitly set flags.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("logpipe", &cfg,
//	    config.WithDefaults(defaults),
//	    config.WithEnvPrefix("LOGPIPE"),
//	    config.WithFlags(flags, map[string]string{"log-level": "logging.level"}),
//	)
//
// With the LOGPIPE prefix, LOGPIPE_CHUNK_SIZE sets chunk_size and
// LOGPIPE_LOGGING_LEVEL sets logging.level. A .env file is only read when
// given with WithEnvFile; its values never override the real environment.
package config
